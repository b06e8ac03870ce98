package services

import (
	"regexp"
	"strings"
)

var (
	hybridRemotePattern = regexp.MustCompile(`^Hybrid remote in (.+), (.+)$`)
	remoteInPattern     = regexp.MustCompile(`^Remote in (.+), (.+)$`)
)

// ParseLocation splits a raw location string into city and province.
// Fully remote listings map to ("Remote", "Remote"); "Hybrid remote in X, Y"
// and "Remote in X, Y" map to (X, Y). Otherwise the string is split on
// ", "; a missing province or an unrecognizable format falls back to "NA".
func ParseLocation(location string) (city, province string) {
	if strings.EqualFold(strings.TrimSpace(location), "remote") {
		return "Remote", "Remote"
	}

	if m := hybridRemotePattern.FindStringSubmatch(location); m != nil {
		return m[1], m[2]
	}
	if m := remoteInPattern.FindStringSubmatch(location); m != nil {
		return m[1], m[2]
	}

	parts := strings.Split(location, ", ")
	switch len(parts) {
	case 2:
		return parts[0], parts[1]
	case 1:
		return parts[0], "NA"
	default:
		return "NA", "NA"
	}
}
