package indeed

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb/v3"

	"geojobs-scraper/config"
	"geojobs-scraper/models"
	"geojobs-scraper/services"
	"geojobs-scraper/storage"
	"geojobs-scraper/utils"
)

// Scraper drives the crawl loop over paginated search results for one
// target website, assembling raw jobs and appending each one to the batch
// file the moment it is complete.
type Scraper struct {
	search   config.SearchSettings
	target   config.TargetWebsite
	fetcher  PageFetcher
	writer   storage.RawJobWriter
	throttle *utils.Throttle
	visited  *utils.URLSet
	logger   *utils.Logger
}

// New creates a ready-to-use Scraper.
func New(search config.SearchSettings, target config.TargetWebsite,
	fetcher PageFetcher, writer storage.RawJobWriter,
	rateLimitMs int, logger *utils.Logger) *Scraper {
	return &Scraper{
		search:   search,
		target:   target,
		fetcher:  fetcher,
		writer:   writer,
		throttle: utils.NewThrottle(rateLimitMs),
		visited:  utils.NewURLSet(),
		logger:   logger,
	}
}

// Crawl walks the result pages, extracts every listing fragment, fetches
// each listing's detail page, and returns the assembled raw jobs along
// with the number of pages visited.
//
// Termination is purely count-based: the loop runs page = start,
// start+step, ... while page < maxPages*step, and an empty page does not
// stop it early. The fixed throttle between requests is the sole
// politeness mechanism.
func (s *Scraper) Crawl() ([]models.RawJob, int, error) {
	s.logger.Info("[%s] Starting crawl: keyword %q, location %q, %d pages",
		s.target.Name, s.search.Keyword, s.search.Location, s.search.MaxPages)

	var fragments []*goquery.Selection
	pagesVisited := 0

	for page := s.search.Start; page < s.search.MaxPages*s.search.Step; page += s.search.Step {
		url := s.buildPageURL(page)
		s.logger.Info("[%s] Fetching page offset %d: %s", s.target.Name, page, url)

		s.throttle.Wait()
		pageHTML, err := s.fetcher.Fetch(url)
		pagesVisited++
		if err != nil {
			s.logger.Error("[%s] Page offset %d failed: %v", s.target.Name, page, err)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
		if err != nil {
			s.logger.Error("[%s] Page offset %d unparseable: %v", s.target.Name, page, err)
			continue
		}

		pageFragments := doc.Find(fragmentSelector)
		s.logger.Debug("[%s] Page offset %d: %d listing fragments", s.target.Name, page, pageFragments.Length())
		pageFragments.Each(func(_ int, frag *goquery.Selection) {
			fragments = append(fragments, frag)
		})
	}

	s.logger.Info("[%s] %d jobs were found after checking %d pages",
		s.target.Name, len(fragments), pagesVisited)

	jobs := make([]models.RawJob, 0, len(fragments))
	bar := pb.StartNew(len(fragments))
	for _, frag := range fragments {
		job, ok := s.assembleJob(frag)
		bar.Increment()
		if !ok {
			continue
		}

		if err := s.writer.Append(job); err != nil {
			s.logger.Error("[%s] Failed to write %q to batch file: %v", s.target.Name, job.Title, err)
		} else {
			s.logger.Info("[%s] Job written to file: %s at %s", s.target.Name, job.Title, job.Company)
		}
		jobs = append(jobs, job)
	}
	bar.Finish()

	s.logger.Info("[%s] Crawl complete: %d raw jobs", s.target.Name, len(jobs))
	return jobs, pagesVisited, nil
}

// assembleJob extracts every field from one listing fragment and enriches
// it with the detail-page description. The second return value is false
// only when the fragment's job link was already visited this run.
func (s *Scraper) assembleJob(frag *goquery.Selection) (models.RawJob, bool) {
	link := extractLink(frag)
	jobURL := link
	if link != models.NotAvailable {
		jobURL = s.target.BaseURL + link
		if !s.visited.Add(jobURL) {
			s.logger.Debug("[%s] Skipping duplicate listing: %s", s.target.Name, jobURL)
			return models.RawJob{}, false
		}
	}

	job := models.RawJob{
		Title:    extractTitle(frag),
		Company:  extractCompany(frag),
		Location: extractLocation(frag),
		Date:     services.FormatPostingDate(extractDateTokens(frag)),
		Insights: extractInsights(frag),
		URL:      jobURL,
	}

	s.throttle.Wait()
	detailHTML, err := s.fetcher.Fetch(jobURL)
	if err != nil {
		s.logger.Warn("[%s] Detail page failed for %s: %v", s.target.Name, jobURL, err)
		job.Description = models.Description{Invalid: true}
		return job, true
	}

	job.Description = extractDescription(detailHTML)
	return job, true
}

// buildPageURL substitutes the six template slots: keyword, location,
// radius, fromage, sort, offset. Offset keeps the legacy quirk: page 0
// substitutes the configured start value, any other page substitutes the
// running page counter.
func (s *Scraper) buildPageURL(page int) string {
	offset := page
	if page == 0 {
		offset = s.search.Start
	}
	return fmt.Sprintf(s.target.TemplateURL,
		s.search.Keyword, s.search.Location, s.search.Radius,
		s.search.Fromage, s.search.Sort, offset)
}
