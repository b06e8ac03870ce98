package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"geojobs-scraper/models"
)

const isoDate = "2006-01-02"

var (
	// daysRegexp captures the day count in "Posted N days ago"
	daysRegexp = regexp.MustCompile(`\d+`)
	// activeRegexp matches the "Active N days ago" form seen on already
	// stored records
	activeRegexp = regexp.MustCompile(`Active (\d+) days ago`)
)

// FormatPostingDate resolves the raw posting-date tokens scraped from a
// listing fragment into an ISO date where possible.
//
// An empty token list means the date marker was absent. Tokens of the form
// "Posted N days ago" resolve to today minus N days; "Just posted" and
// "Today" resolve to today. Anything else ("Active N days ago" included) is
// returned verbatim for the later normalization pass.
func FormatPostingDate(tokens []string) string {
	return formatPostingDateAt(tokens, time.Now())
}

func formatPostingDateAt(tokens []string, now time.Time) string {
	if len(tokens) == 0 {
		return models.NotAvailable
	}

	token := tokens[0]

	switch {
	case strings.Contains(token, "Posted"):
		m := daysRegexp.FindString(token)
		if m == "" {
			return token
		}
		days, err := strconv.Atoi(m)
		if err != nil {
			return token
		}
		return now.AddDate(0, 0, -days).Format(isoDate)

	case strings.Contains(token, "Just posted"), strings.Contains(token, "Today"):
		return now.Format(isoDate)

	default:
		return token
	}
}

// NormalizeRecordDate is the second date path, applied when normalizing a
// record for the store. It accepts either a literal ISO date or an
// "Active N days ago" string; everything else becomes "NA" rather than
// failing the batch.
func NormalizeRecordDate(value string) string {
	return normalizeRecordDateAt(value, time.Now())
}

func normalizeRecordDateAt(value string, now time.Time) string {
	if d, err := time.Parse(isoDate, value); err == nil {
		return d.Format(isoDate)
	}

	if m := activeRegexp.FindStringSubmatch(value); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return now.AddDate(0, 0, -days).Format(isoDate)
		}
	}

	return "NA"
}
