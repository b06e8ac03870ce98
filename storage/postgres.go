package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"geojobs-scraper/geocode"
	"geojobs-scraper/models"
	"geojobs-scraper/utils"
)

// PostgresStore persists normalized jobs and their companies to PostgreSQL.
type PostgresStore struct {
	db       *sql.DB
	geocoder geocode.Geocoder
	logger   *utils.Logger
}

// NewPostgresStore opens a connection to PostgreSQL, verifying it with an
// exponential back-off retry, runs schema migrations, and returns a
// ready-to-use store. Connection exhaustion is the one fatal setup error.
func NewPostgresStore(dsn string, geocoder geocode.Geocoder, logger *utils.Logger, maxRetries int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{
		MaxAttempts: maxRetries,
		BaseDelay:   time.Second,
		Logger:      logger,
	}
	if err := retry.Do("postgres-connect", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db, geocoder: geocoder, logger: logger}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS company (
			company_uid TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			city        TEXT NOT NULL,
			province    TEXT NOT NULL,
			address     TEXT,
			latitude    DOUBLE PRECISION,
			longitude   DOUBLE PRECISION
		);

		CREATE TABLE IF NOT EXISTS jobs (
			job_uid     TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			company     TEXT NOT NULL,
			company_uid TEXT NOT NULL REFERENCES company(company_uid),
			location    TEXT NOT NULL DEFAULT '',
			city        TEXT NOT NULL DEFAULT '',
			province    TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			salary      INTEGER NOT NULL DEFAULT 0,
			job_type    TEXT NOT NULL DEFAULT 'NA',
			date        TEXT NOT NULL DEFAULT 'NA',
			job_url     TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_company_uid ON jobs(company_uid);
		CREATE INDEX IF NOT EXISTS idx_jobs_city        ON jobs(city);
		CREATE INDEX IF NOT EXISTS idx_jobs_salary      ON jobs(salary);
	`)
	return err
}

// InsertJobs persists a batch of normalized jobs in a single transaction.
// For each job the company row is ensured first; a job whose JobUID already
// exists is counted as a duplicate and skipped. Any store-level error rolls
// back the whole batch.
func (ps *PostgresStore) InsertJobs(jobs []models.Job) (models.InsertStats, error) {
	stats := models.InsertStats{Total: len(jobs)}
	if len(jobs) == 0 {
		return stats, nil
	}

	tx, err := ps.db.Begin()
	if err != nil {
		return stats, fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	for _, job := range jobs {
		if err := ps.upsertCompany(tx, job); err != nil {
			return models.InsertStats{Total: len(jobs)}, err
		}

		var exists bool
		err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM jobs WHERE job_uid = $1)`, job.JobUID,
		).Scan(&exists)
		if err != nil {
			return models.InsertStats{Total: len(jobs)}, fmt.Errorf("postgres: check job %q: %w", job.JobUID, err)
		}
		if exists {
			ps.logger.Debug("[postgres] Duplicate JobUID %s, skipping", job.JobUID)
			stats.Duplicates++
			continue
		}

		_, err = tx.Exec(`
			INSERT INTO jobs (job_uid, title, company, company_uid, location,
			                  city, province, description, salary, job_type, date, job_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			job.JobUID, job.Title, job.Company, job.CompanyUID, job.Location,
			job.City, job.Province, job.Description, job.Salary, job.JobType, job.Date, job.URL)
		if err != nil {
			return models.InsertStats{Total: len(jobs)}, fmt.Errorf("postgres: insert job %q: %w", job.JobUID, err)
		}
		stats.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return models.InsertStats{Total: len(jobs)}, fmt.Errorf("postgres: commit: %w", err)
	}

	ps.logger.Info("[postgres] %d/%d jobs inserted, %d duplicates skipped",
		stats.Inserted, stats.Total, stats.Duplicates)
	return stats, nil
}

// upsertCompany inserts the job's company if its CompanyUID is not present
// yet. Remote companies are inserted without ever geocoding; for the rest a
// geocoding miss is a soft failure and the row is inserted without
// coordinates.
func (ps *PostgresStore) upsertCompany(tx *sql.Tx, job models.Job) error {
	var count int
	err := tx.QueryRow(
		`SELECT COUNT(*) FROM company WHERE company_uid = $1`, job.CompanyUID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("postgres: check company %q: %w", job.CompanyUID, err)
	}
	if count > 0 {
		return nil
	}

	company := models.Company{
		CompanyUID: job.CompanyUID,
		Name:       job.Company,
		City:       job.City,
		Province:   job.Province,
	}

	if job.City != "Remote" && job.Province != "Remote" {
		address := fmt.Sprintf("%s, %s, %s", job.Company, job.City, job.Province)
		result, geoErr := ps.geocoder.Geocode(address)
		switch {
		case geoErr == nil:
			company.Address = result.FormattedAddress
			company.Latitude = result.Latitude
			company.Longitude = result.Longitude
			company.Geocoded = true
		case errors.Is(geoErr, geocode.ErrNoResult):
			ps.logger.Warn("[postgres] No geocoding result for %q", address)
		default:
			ps.logger.Warn("[postgres] Geocoding %q failed: %v", address, geoErr)
		}
	}

	if company.Geocoded {
		_, err = tx.Exec(`
			INSERT INTO company (company_uid, name, city, province, address, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			company.CompanyUID, company.Name, company.City, company.Province,
			company.Address, company.Latitude, company.Longitude)
	} else {
		_, err = tx.Exec(`
			INSERT INTO company (company_uid, name, city, province)
			VALUES ($1, $2, $3, $4)`,
			company.CompanyUID, company.Name, company.City, company.Province)
	}
	if err != nil {
		return fmt.Errorf("postgres: insert company %q: %w", job.CompanyUID, err)
	}
	return nil
}

// Close releases the database connection.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
