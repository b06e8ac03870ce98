package storage

import "geojobs-scraper/models"

// JobStore is the interface any persistence backend must satisfy.
type JobStore interface {
	InsertJobs(jobs []models.Job) (models.InsertStats, error)
	Close() error
}

// RawJobWriter is the interface for the crash-resilient batch file that
// receives raw jobs one record at a time during a crawl.
type RawJobWriter interface {
	Append(job models.RawJob) error
	Close() error
}
