package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"geojobs-scraper/models"
	"geojobs-scraper/utils"
)

// headerTagRegexp matches HTML header tags with their content, e.g.
// <h2 class="x">Benefits</h2>, so they can be stripped from descriptions.
var headerTagRegexp = regexp.MustCompile(`<h\d\s*[^>]*>.*?</h\d>`)

var titleCaser = cases.Title(language.AmericanEnglish)

// Normalizer turns raw scraped jobs into store-ready records, discarding
// the ones that cannot be salvaged.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize processes raw jobs and returns the accepted records.
//
// A raw job is dropped (logged at debug, this is expected operation) when its
// description is structurally invalid (the detail fetch never found the
// container), when it carries two or fewer insights, or when no salary
// figure could be derived from the first insight. Dropping is the only
// failure mode: Normalize never returns an error.
func (n *Normalizer) Normalize(raw []models.RawJob) []models.Job {
	jobs := make([]models.Job, 0, len(raw))

	for _, r := range raw {
		if r.Description.Invalid {
			n.logger.Debug("[normalizer] Dropping %q: invalid description", r.Title)
			continue
		}

		if len(r.Insights) <= 2 {
			n.logger.Debug("[normalizer] Dropping %q: %d insights", r.Title, len(r.Insights))
			continue
		}

		salary, ok := ExtractSalary(r.Insights)
		if !ok {
			n.logger.Debug("[normalizer] Dropping %q: unparseable salary %q", r.Title, r.Insights[0])
			continue
		}

		description := headerTagRegexp.ReplaceAllString(r.Description.Text, "")
		city, province := ParseLocation(r.Location)

		jobType := "NA"
		if len(r.Insights) > 1 {
			jobType = r.Insights[1]
		}

		jobs = append(jobs, models.Job{
			JobUID:      DeriveJobUID(r.Title, r.Company, city, province),
			Title:       titleCaser.String(r.Title),
			Company:     r.Company,
			CompanyUID:  DeriveCompanyUID(r.Company, city, province),
			Location:    r.Location,
			City:        city,
			Province:    province,
			Description: description,
			Salary:      salary,
			JobType:     jobType,
			Date:        NormalizeRecordDate(r.Date),
			URL:         r.URL,
		})
	}

	n.logger.Info("[normalizer] Normalized %d → %d jobs (dropped %d)",
		len(raw), len(jobs), len(raw)-len(jobs))
	return jobs
}

// DeriveJobUID builds the store-wide unique key for a job: the lowercased,
// space-stripped title, company, city and province joined by underscores.
func DeriveJobUID(title, company, city, province string) string {
	return squash(title) + "_" + squash(company) + "_" + squash(city) + "_" + squash(province)
}

// DeriveCompanyUID builds the join key between jobs and companies.
func DeriveCompanyUID(company, city, province string) string {
	return squash(company) + "_" + squash(city) + "_" + squash(province)
}

func squash(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
