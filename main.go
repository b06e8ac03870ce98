package main

import (
	"fmt"
	"os"
	"time"

	"geojobs-scraper/config"
	"geojobs-scraper/geocode"
	"geojobs-scraper/models"
	"geojobs-scraper/scraper/indeed"
	"geojobs-scraper/services"
	"geojobs-scraper/storage"
	"geojobs-scraper/utils"
)

func main() {
	startTime := time.Now()

	cfg := config.Load()

	logger, err := utils.NewFileLogger(cfg.LogFilePath)
	if err != nil {
		logger = utils.NewLogger()
		logger.Warn("Could not open log file %s: %v. Logging to console only", cfg.LogFilePath, err)
	}
	defer logger.Close()

	logger.Info("=== GeoJobSearch Scraper starting ===")

	crawlCfg, err := config.LoadCrawlConfig(cfg.CrawlConfig)
	if err != nil {
		logger.Error("Failed to load crawl config: %v", err)
		os.Exit(1)
	}

	search := crawlCfg.SearchSettings[0]
	target := crawlCfg.TargetWebsites[0]
	logger.Info("Config: target: %s | keyword: %q | location: %q | pages: %d | step: %d | rate: %dms",
		target.Name, search.Keyword, search.Location, search.MaxPages, search.Step, cfg.RateLimitMs)

	batchWriter, err := storage.NewBatchWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to create batch file: %v", err)
		os.Exit(1)
	}

	fetcher := indeed.NewChromeFetcher(cfg.ChromeBin, logger)
	defer fetcher.Close()

	scraper := indeed.New(search, target, fetcher, batchWriter, cfg.RateLimitMs, logger)
	rawJobs, pagesVisited, err := scraper.Crawl()
	if err != nil {
		logger.Error("Crawl failed: %v", err)
	}
	if err := batchWriter.Close(); err != nil {
		logger.Warn("Failed to close batch file: %v", err)
	}

	if len(rawJobs) == 0 {
		logger.Error("No jobs were scraped. Exiting.")
		os.Exit(1)
	}
	logger.Info("Scraped %d raw jobs. Batch file: %s", len(rawJobs), batchWriter.Path())

	// Convert the batch file into a true JSON array file.
	arrayPath, err := storage.ConvertToJSONArray(batchWriter.Path(), logger)
	if err != nil {
		logger.Error("Batch file conversion failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Converted batch file into JSON array: %s", arrayPath)

	batch, err := storage.ReadJobArray(arrayPath)
	if err != nil {
		logger.Error("Failed to read JSON array file: %v", err)
		os.Exit(1)
	}

	normalizer := services.NewNormalizer(logger)
	jobs := normalizer.Normalize(batch)
	if len(jobs) == 0 {
		logger.Error("All jobs were dropped during normalization. Exiting.")
		os.Exit(1)
	}

	var geocoder geocode.Geocoder = geocode.NewGoogleClient(cfg.MapsAPIKey)

	store, err := storage.NewPostgresStore(cfg.DSN(), geocoder, logger, cfg.MaxRetries)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.InsertJobs(jobs)
	if err != nil {
		logger.Error("PostgreSQL batch insert failed (rolled back): %v", err)
		stats = models.InsertStats{Total: len(jobs)}
	}

	if err := storage.AppendToArchive(arrayPath, cfg.LegacyFilePath); err != nil {
		logger.Warn("Failed to append %s to legacy archive %s: %v", arrayPath, cfg.LegacyFilePath, err)
	} else {
		logger.Info("Appended %s to legacy archive %s", arrayPath, cfg.LegacyFilePath)
	}

	reportSvc := services.NewReportService(logger)
	report := reportSvc.Generate(pagesVisited, len(batch), jobs, stats)
	reportSvc.Print(report)

	fmt.Printf("  Done in %s. Raw batch → %s | Jobs → PostgreSQL (jobs/company tables)\n\n",
		time.Since(startTime).Round(time.Second), batchWriter.Path())
}
