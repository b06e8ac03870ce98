package indeed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"geojobs-scraper/models"
)

// Selectors for the fields of one listing fragment. Each extraction is
// independent: a miss resolves to the "Not available" placeholder (or an
// empty list) and never aborts the fragment.
const (
	fragmentSelector  = "div.job_seen_beacon"
	companySelector   = `[data-testid="company-name"]`
	locationSelector  = `[data-testid="text-location"]`
	insightSelector   = `[data-testid="attribute_snippet_testid"]`
	dateSelector      = `span[data-testid="myJobsStateDate"]`
	descriptionSelect = "#jobdescriptionText"
)

func extractLink(job *goquery.Selection) string {
	href, ok := job.Find("h2 a").First().Attr("href")
	if !ok {
		return models.NotAvailable
	}
	return href
}

func extractTitle(job *goquery.Selection) string {
	span := job.Find("h2 a span").First()
	if span.Length() == 0 {
		return models.NotAvailable
	}
	return span.Text()
}

// extractCompany returns "Not available" when the company-name element is
// missing entirely; an element that is present but textually empty yields
// the empty string, which is a distinct value.
func extractCompany(job *goquery.Selection) string {
	el := job.Find(companySelector).First()
	if el.Length() == 0 {
		return models.NotAvailable
	}
	return el.Text()
}

func extractLocation(job *goquery.Selection) string {
	el := job.Find(locationSelector).First()
	if el.Length() == 0 {
		return models.NotAvailable
	}

	if text := directText(el); text != "" {
		return text
	}

	span := el.Find("span").First()
	if span.Length() == 0 {
		return models.NotAvailable
	}
	return span.Text()
}

func extractInsights(job *goquery.Selection) []string {
	insights := []string{}
	job.Find(insightSelector).Each(func(_ int, el *goquery.Selection) {
		insights = append(insights, strings.TrimSpace(el.Text()))
	})
	return insights
}

func extractDateTokens(job *goquery.Selection) []string {
	tokens := []string{}
	job.Find(dateSelector).Each(func(_ int, el *goquery.Selection) {
		if text := el.Text(); text != "" {
			tokens = append(tokens, text)
		}
	})
	return tokens
}

// extractDescription pulls the long-form description out of a detail page.
// The inner markup of the container is preserved (lists, emphasis); only an
// absent container makes the description structurally invalid.
func extractDescription(pageHTML string) models.Description {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return models.Description{Invalid: true}
	}

	container := doc.Find(descriptionSelect).First()
	if container.Length() == 0 {
		return models.Description{Invalid: true}
	}

	inner, err := container.Html()
	if err != nil {
		return models.Description{Invalid: true}
	}
	if strings.TrimSpace(inner) == "" {
		return models.Description{Text: models.NoDescription}
	}
	return models.Description{Text: inner}
}

// directText returns the text of the element's immediate text-node
// children that precede its first child element, trimmed. This mirrors the
// distinction between an element's own text and the text of its nested
// spans, which the location field relies on.
func directText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			break
		}
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}
