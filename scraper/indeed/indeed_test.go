package indeed

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"geojobs-scraper/config"
	"geojobs-scraper/models"
	"geojobs-scraper/utils"
)

// fakeFetcher serves canned HTML and records every URL it was asked for.
type fakeFetcher struct {
	pages    map[string]string
	fallback string
	urls     []string
}

func (f *fakeFetcher) Fetch(u string) (string, error) {
	f.urls = append(f.urls, u)
	if page, ok := f.pages[u]; ok {
		return page, nil
	}
	if f.fallback != "" {
		return f.fallback, nil
	}
	return "", fmt.Errorf("no canned page for %s", u)
}

// fakeWriter collects appended jobs in memory.
type fakeWriter struct {
	jobs []models.RawJob
}

func (w *fakeWriter) Append(job models.RawJob) error { w.jobs = append(w.jobs, job); return nil }
func (w *fakeWriter) Close() error                   { return nil }

func testSearch() config.SearchSettings {
	return config.SearchSettings{
		Keyword:  "developer",
		Location: "Ontario",
		Radius:   100,
		Fromage:  14,
		Sort:     "date",
		Start:    0,
		Step:     10,
		MaxPages: 3,
	}
}

func testTarget() config.TargetWebsite {
	return config.TargetWebsite{
		Name:        "indeed",
		BaseURL:     "https://example.com",
		TemplateURL: "https://example.com/jobs?q=%v&l=%v&radius=%v&fromage=%v&sort=%v&start=%v",
	}
}

func TestCrawlVisitsExactlyThePagePlan(t *testing.T) {
	fetcher := &fakeFetcher{fallback: "<html><body>no listings</body></html>"}
	scraper := New(testSearch(), testTarget(), fetcher, &fakeWriter{}, 0, utils.NewLogger())

	jobs, pages, err := scraper.Crawl()
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if pages != 3 {
		t.Errorf("pages visited = %d; want 3", pages)
	}
	if len(jobs) != 0 {
		t.Errorf("jobs = %d; want 0 on empty pages", len(jobs))
	}

	wantOffsets := []string{"0", "10", "20"}
	if len(fetcher.urls) != len(wantOffsets) {
		t.Fatalf("fetched %d urls; want %d: %v", len(fetcher.urls), len(wantOffsets), fetcher.urls)
	}
	for i, raw := range fetcher.urls {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("bad url %q: %v", raw, err)
		}
		if got := u.Query().Get("start"); got != wantOffsets[i] {
			t.Errorf("page %d offset = %s; want %s", i, got, wantOffsets[i])
		}
	}
}

func TestCrawlDoesNotStopOnEmptyPage(t *testing.T) {
	listingPage := fmt.Sprintf("<html><body>%s</body></html>", sampleFragment)
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://example.com/jobs?q=developer&l=Ontario&radius=100&fromage=14&sort=date&start=0":  "<html><body></body></html>",
			"https://example.com/jobs?q=developer&l=Ontario&radius=100&fromage=14&sort=date&start=10": listingPage,
			"https://example.com/jobs?q=developer&l=Ontario&radius=100&fromage=14&sort=date&start=20": "<html><body></body></html>",
		},
		fallback: `<html><body><div id="jobdescriptionText"><p>Detail.</p></div></body></html>`,
	}

	scraper := New(testSearch(), testTarget(), fetcher, &fakeWriter{}, 0, utils.NewLogger())
	jobs, pages, err := scraper.Crawl()
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if pages != 3 {
		t.Errorf("pages visited = %d; want 3 despite the empty first page", pages)
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d; want the one listing from the middle page", len(jobs))
	}
}

func TestCrawlAssemblesRawJobs(t *testing.T) {
	listingPage := fmt.Sprintf("<html><body>%s</body></html>", sampleFragment)
	detailPage := `<html><body><div id="jobdescriptionText"><p>Build <b>things</b>.</p></div></body></html>`

	search := testSearch()
	search.MaxPages = 1
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://example.com/jobs?q=developer&l=Ontario&radius=100&fromage=14&sort=date&start=0": listingPage,
			"https://example.com/viewjob?jk=abc":                                                     detailPage,
		},
	}
	writer := &fakeWriter{}

	scraper := New(search, testTarget(), fetcher, writer, 0, utils.NewLogger())
	jobs, _, err := scraper.Crawl()
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d; want 1", len(jobs))
	}

	job := jobs[0]
	if job.Title != "Software Developer" || job.Company != "Acme Corp" {
		t.Errorf("title/company = %q/%q", job.Title, job.Company)
	}
	if job.URL != "https://example.com/viewjob?jk=abc" {
		t.Errorf("url = %q; want base url joined with link", job.URL)
	}
	if len(job.Insights) != 3 {
		t.Errorf("insights = %v", job.Insights)
	}
	wantDate := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	if job.Date != wantDate {
		t.Errorf("date = %q; want %q", job.Date, wantDate)
	}
	if job.Description.Invalid || !strings.Contains(job.Description.Text, "<b>things</b>") {
		t.Errorf("description = %+v", job.Description)
	}

	if len(writer.jobs) != 1 {
		t.Fatalf("batch writer received %d jobs; want 1", len(writer.jobs))
	}
	if writer.jobs[0].Title != "Software Developer" {
		t.Errorf("batch writer job title = %q", writer.jobs[0].Title)
	}
}

func TestCrawlFailedDetailFetchInvalidatesDescription(t *testing.T) {
	listingPage := fmt.Sprintf("<html><body>%s</body></html>", sampleFragment)

	search := testSearch()
	search.MaxPages = 1
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://example.com/jobs?q=developer&l=Ontario&radius=100&fromage=14&sort=date&start=0": listingPage,
		},
	}

	scraper := New(search, testTarget(), fetcher, &fakeWriter{}, 0, utils.NewLogger())
	jobs, _, err := scraper.Crawl()
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d; want 1", len(jobs))
	}
	if !jobs[0].Description.Invalid {
		t.Error("failed detail fetch must yield a structurally invalid description")
	}
}

func TestBuildPageURLOffsetRule(t *testing.T) {
	scraper := New(testSearch(), testTarget(), &fakeFetcher{}, &fakeWriter{}, 0, utils.NewLogger())

	tests := []struct {
		page int
		want string
	}{
		{0, "start=0"},
		{10, "start=10"},
		{20, "start=20"},
	}
	for _, tt := range tests {
		got := scraper.buildPageURL(tt.page)
		if !strings.HasSuffix(got, tt.want) {
			t.Errorf("buildPageURL(%d) = %q; want suffix %q", tt.page, got, tt.want)
		}
	}

	// A non-zero page always substitutes the running counter, even when the
	// configured start differs.
	search := testSearch()
	search.Start = 5
	scraper = New(search, testTarget(), &fakeFetcher{}, &fakeWriter{}, 0, utils.NewLogger())
	if got := scraper.buildPageURL(5); !strings.HasSuffix(got, "start=5") {
		t.Errorf("buildPageURL(5) = %q; want suffix start=5", got)
	}
}
