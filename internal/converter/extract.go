package converter

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ContentExtractor pulls the main content region out of a page before
// sanitization, using the readability algorithm with a plain-body
// fallback.
type ContentExtractor struct{}

// NewContentExtractor creates a new content extractor
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract returns the main content HTML and the page title.
func (e *ContentExtractor) Extract(html, sourceURL string) (string, string, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		parsedURL = &url.URL{Scheme: "https", Host: "localhost"}
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return e.extractBody(html)
	}

	title := article.Title
	if title == "" {
		if doc, derr := goquery.NewDocumentFromReader(strings.NewReader(html)); derr == nil {
			title = extractTitle(doc)
		}
	}

	return article.Content, title, nil
}

// extractBody extracts the body content as a fallback
func (e *ContentExtractor) extractBody(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html, "", nil
	}

	title := extractTitle(doc)

	body := doc.Find("body")
	if body.Length() == 0 {
		return html, title, nil
	}

	bodyHTML, err := body.Html()
	if err != nil {
		return html, title, nil
	}

	return bodyHTML, title, nil
}

// extractTitle extracts the page title
func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		return title
	}

	h1 := strings.TrimSpace(doc.Find("h1").First().Text())
	if h1 != "" {
		return h1
	}

	ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content")
	if exists && ogTitle != "" {
		return ogTitle
	}

	return ""
}
