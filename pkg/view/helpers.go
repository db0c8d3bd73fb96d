package view

import (
	"regexp"
	"strconv"
	"strings"
)

var tagRE = regexp.MustCompile(`<[^>]*>`)

// StripTags removes markup from rich-text descriptions for card previews.
func StripTags(s string) string {
	return strings.TrimSpace(tagRE.ReplaceAllString(s, ""))
}

func itoa(n int) string { return strconv.Itoa(n) }
