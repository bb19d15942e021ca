package utils

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile("[^a-z0-9]+")

func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CodeFromName derives a stable workflow/document code from a display name,
// e.g. "GRN Local Purchase" -> "GRN_LOCAL_PURCHASE"
func CodeFromName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(Slugify(name), "-", "_"))
}
