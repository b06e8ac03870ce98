package services

import (
	"strings"
	"testing"

	"geojobs-scraper/models"
	"geojobs-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func validRawJob() models.RawJob {
	return models.RawJob{
		Title:       "software developer",
		Company:     "Acme Corp",
		Date:        "2024-03-15",
		Location:    "Waterloo, ON",
		Insights:    []string{"$100,000 a year", "Full-time", "Monday to Friday"},
		Description: models.Description{Text: "<p>Build things.</p>"},
		URL:         "https://ca.indeed.com/viewjob?jk=abc",
	}
}

func TestNormalizeDerivesIdentifiers(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	jobs := n.Normalize([]models.RawJob{validRawJob()})
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	job := jobs[0]
	if job.JobUID != "softwaredeveloper_acmecorp_waterloo_on" {
		t.Errorf("JobUID = %q", job.JobUID)
	}
	if job.CompanyUID != "acmecorp_waterloo_on" {
		t.Errorf("CompanyUID = %q", job.CompanyUID)
	}
	if job.Title != "Software Developer" {
		t.Errorf("Title = %q; want title case", job.Title)
	}
	if job.City != "Waterloo" || job.Province != "ON" {
		t.Errorf("City/Province = %q/%q", job.City, job.Province)
	}
	if job.Salary != 100000 {
		t.Errorf("Salary = %d; want 100000", job.Salary)
	}
	if job.JobType != "Full-time" {
		t.Errorf("JobType = %q; want second insight", job.JobType)
	}
	if job.Date != "2024-03-15" {
		t.Errorf("Date = %q; want ISO date preserved", job.Date)
	}
}

func TestNormalizeStripsHeaderTags(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	raw := validRawJob()
	raw.Description = models.Description{
		Text: `<h1>About Us</h1><p>Great team.</p><h2 class="sub">Benefits</h2><ul><li>Dental</li></ul>`,
	}

	jobs := n.Normalize([]models.RawJob{raw})
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	desc := jobs[0].Description
	for _, tag := range []string{"<h1", "<h2", "<h3"} {
		if strings.Contains(desc, tag) {
			t.Errorf("description still contains %s: %q", tag, desc)
		}
	}
	if !strings.Contains(desc, "<p>Great team.</p>") {
		t.Errorf("paragraph content lost: %q", desc)
	}
	if !strings.Contains(desc, "<li>Dental</li>") {
		t.Errorf("list content lost: %q", desc)
	}
}

func TestNormalizeDropsUnsalvageableRecords(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	invalidDescription := validRawJob()
	invalidDescription.Description = models.Description{Invalid: true}

	tooFewInsights := validRawJob()
	tooFewInsights.Insights = []string{"$100,000 a year", "Full-time"}

	noSalary := validRawJob()
	noSalary.Insights = []string{"Competitive pay", "Full-time", "Monday to Friday"}

	jobs := n.Normalize([]models.RawJob{
		validRawJob(), invalidDescription, tooFewInsights, noSalary,
	})
	if len(jobs) != 1 {
		t.Fatalf("expected only the valid job to survive, got %d", len(jobs))
	}
}

func TestNormalizeThreeListingsOneShort(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	a := validRawJob()
	b := validRawJob()
	b.Title = "data engineer"
	b.Insights = []string{"$20–$30 an hour", "Contract", "8 hour shift"}
	c := validRawJob()
	c.Title = "qa analyst"
	c.Insights = []string{"$90,000 a year", "Full-time"}

	jobs := n.Normalize([]models.RawJob{a, b, c})
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	for _, job := range jobs {
		if job.Salary == 0 {
			t.Errorf("job %q has no salary", job.JobUID)
		}
		if !strings.Contains(job.JobUID, "_acmecorp_waterloo_on") {
			t.Errorf("JobUID %q does not follow the derivation formula", job.JobUID)
		}
	}
	if jobs[1].Salary != 52000 {
		t.Errorf("hourly range salary = %d; want 52000", jobs[1].Salary)
	}
}

func TestNormalizeRemoteLocationAndFallbackDate(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	raw := validRawJob()
	raw.Location = "Remote"
	raw.Date = "Not available"

	jobs := n.Normalize([]models.RawJob{raw})
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].City != "Remote" || jobs[0].Province != "Remote" {
		t.Errorf("City/Province = %q/%q; want Remote/Remote", jobs[0].City, jobs[0].Province)
	}
	if jobs[0].JobUID != "softwaredeveloper_acmecorp_remote_remote" {
		t.Errorf("JobUID = %q", jobs[0].JobUID)
	}
	if jobs[0].Date != "NA" {
		t.Errorf("Date = %q; want NA", jobs[0].Date)
	}
}
