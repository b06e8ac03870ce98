package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"geojobs-scraper/models"
	"geojobs-scraper/utils"
)

// ReportService summarizes one crawl-and-persist run.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(pagesVisited, rawJobs int, jobs []models.Job, stats models.InsertStats) *models.RunReport {
	report := &models.RunReport{
		PagesVisited: pagesVisited,
		RawJobs:      rawJobs,
		Normalized:   len(jobs),
		Dropped:      rawJobs - len(jobs),
		Inserted:     stats.Inserted,
		Duplicates:   stats.Duplicates,
		JobsByCity:   make(map[string]int),
	}

	if len(jobs) == 0 {
		return report
	}

	report.MinSalary = jobs[0].Salary
	report.MaxSalary = jobs[0].Salary
	total := 0
	for _, j := range jobs {
		total += j.Salary
		if j.Salary < report.MinSalary {
			report.MinSalary = j.Salary
		}
		if j.Salary > report.MaxSalary {
			report.MaxSalary = j.Salary
		}
		if j.City != "" {
			report.JobsByCity[j.City]++
		}
	}
	report.AvgSalary = total / len(jobs)

	return report
}

func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 JOB CRAWL SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Crawl overview
	fmt.Printf("\033[1;33m  Crawl\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Pages visited     : \033[1m%d\033[0m\n", r.PagesVisited)
	fmt.Printf("  Raw listings      : \033[1m%d\033[0m\n", r.RawJobs)
	fmt.Printf("  Normalized        : \033[1m%d\033[0m (dropped %d)\n", r.Normalized, r.Dropped)
	fmt.Println()

	// Persistence
	fmt.Printf("\033[1;33m  Store\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Inserted          : \033[1;32m%d\033[0m\n", r.Inserted)
	fmt.Printf("  Duplicates skipped: \033[1;33m%d\033[0m\n", r.Duplicates)
	fmt.Println()

	// Salary stats (annualized)
	fmt.Printf("\033[1;33m  Annualized Salary\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Normalized > 0 {
		fmt.Printf("  Average : \033[1;32m$%s\033[0m\n", humanize.Comma(int64(r.AvgSalary)))
		fmt.Printf("  Minimum : \033[1;32m$%s\033[0m\n", humanize.Comma(int64(r.MinSalary)))
		fmt.Printf("  Maximum : \033[1;32m$%s\033[0m\n", humanize.Comma(int64(r.MaxSalary)))
	} else {
		fmt.Printf("  No salary data available\n")
	}
	fmt.Println()

	// Jobs by city
	fmt.Printf("\033[1;33m  Jobs by City\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.JobsByCity) == 0 {
		fmt.Printf("  No location data\n")
	} else {
		type cityCount struct {
			city  string
			count int
		}
		var cities []cityCount
		for city, cnt := range r.JobsByCity {
			cities = append(cities, cityCount{city, cnt})
		}
		sort.Slice(cities, func(i, j int) bool {
			return cities[i].count > cities[j].count
		})
		for _, cc := range cities {
			bar := strings.Repeat("█", cc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(cc.city, 28), bar, cc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
