package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Salary insight patterns, checked in order; the first match wins. Ranges
// use the en dash the listing site renders between amounts.
var (
	yearlyPattern       = regexp.MustCompile(`^\$([\d,]+) a year`)
	hourlyRangePattern  = regexp.MustCompile(`^\$([\d.]+)–\$([\d.]+) an hour`)
	hourlySinglePattern = regexp.MustCompile(`^\$([\d.]+) an hour`)
	monthlyRangePattern = regexp.MustCompile(`^\$([\d,]+)–\$([\d,]+) a month`)
	yearlyRangePattern  = regexp.MustCompile(`^\$([\d,]+)–\$([\d,]+) a year`)
	upToHourlyPattern   = regexp.MustCompile(`^Up to \$([\d.]+) an hour`)
)

const (
	hoursPerWeek   = 40
	weeksPerYear   = 52
	monthsPerYear  = 12
	minInsightsLen = 3
)

// ExtractSalary derives an annualized integer salary from a listing's
// insights. Fewer than three insight entries means the listing carried no
// salary information at all; such records are later discarded because a
// salary is mandatory for acceptance. Only the first insight entry is
// inspected. The second return value reports whether a figure was derivable.
func ExtractSalary(insights []string) (int, bool) {
	if len(insights) < minInsightsLen {
		return 0, false
	}

	insight := strings.TrimSpace(insights[0])

	if m := yearlyPattern.FindStringSubmatch(insight); m != nil {
		return parseComma(m[1]), true
	}
	if m := hourlyRangePattern.FindStringSubmatch(insight); m != nil {
		avg := (parseFloat(m[1]) + parseFloat(m[2])) / 2
		return annualizeHourly(avg), true
	}
	if m := hourlySinglePattern.FindStringSubmatch(insight); m != nil {
		return annualizeHourly(parseFloat(m[1])), true
	}
	if m := monthlyRangePattern.FindStringSubmatch(insight); m != nil {
		avg := float64(parseComma(m[1])+parseComma(m[2])) / 2
		return int(math.Round(avg * monthsPerYear)), true
	}
	if m := yearlyRangePattern.FindStringSubmatch(insight); m != nil {
		avg := float64(parseComma(m[1])+parseComma(m[2])) / 2
		return int(math.Round(avg)), true
	}
	if m := upToHourlyPattern.FindStringSubmatch(insight); m != nil {
		return annualizeHourly(parseFloat(m[1])), true
	}

	return 0, false
}

func annualizeHourly(rate float64) int {
	return int(math.Round(rate * hoursPerWeek * weeksPerYear))
}

func parseComma(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
