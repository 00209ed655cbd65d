package converter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcludedTags are the tag categories removed before conversion:
// navigation, scripting, styling, and page chrome.
var DefaultExcludedTags = []string{
	"script",
	"style",
	"noscript",
	"iframe",
	"nav",
	"header",
	"footer",
	"aside",
	"form",
}

// Sanitizer removes excluded elements from HTML so the converted
// Markdown never contains their text.
type Sanitizer struct {
	excludedTags []string
}

// SanitizerOptions contains options for the sanitizer
type SanitizerOptions struct {
	ExcludedTags []string
}

// NewSanitizer creates a new sanitizer
func NewSanitizer(opts SanitizerOptions) *Sanitizer {
	tags := opts.ExcludedTags
	if len(tags) == 0 {
		tags = DefaultExcludedTags
	}
	return &Sanitizer{excludedTags: tags}
}

// Sanitize removes excluded elements from an HTML string
func (s *Sanitizer) Sanitize(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	s.SanitizeDocument(doc)

	return doc.Html()
}

// SanitizeDocument cleans a pre-parsed document in place.
func (s *Sanitizer) SanitizeDocument(doc *goquery.Document) {
	for _, tag := range s.excludedTags {
		doc.Find(tag).Remove()
	}

	// Hidden elements carry no readable content either
	doc.Find("[style*='display:none']").Remove()
	doc.Find("[style*='display: none']").Remove()
	doc.Find("[hidden]").Remove()
}

// ExcludedTags returns the configured exclusion set
func (s *Sanitizer) ExcludedTags() []string {
	return s.excludedTags
}
