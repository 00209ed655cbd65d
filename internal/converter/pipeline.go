package converter

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/OW-Research/llmsgen/internal/domain"
)

// Pipeline turns raw page bytes into a normalized DocumentPage:
// encoding → extract → sanitize → markdown.
type Pipeline struct {
	sanitizer   *Sanitizer
	extractor   *ContentExtractor
	mdConverter *MarkdownConverter
}

// PipelineOptions contains options for the conversion pipeline
type PipelineOptions struct {
	ExcludedTags []string
}

// NewPipeline creates a new conversion pipeline
func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{
		sanitizer:   NewSanitizer(SanitizerOptions{ExcludedTags: opts.ExcludedTags}),
		extractor:   NewContentExtractor(),
		mdConverter: NewMarkdownConverter(),
	}
}

// Convert processes HTML content and returns a DocumentPage. A page with
// no extractable text yields an empty page, not an error.
func (p *Pipeline) Convert(rawHTML []byte, sourceURL string) (*domain.DocumentPage, error) {
	htmlBytes, err := ConvertToUTF8(rawHTML)
	if err != nil {
		return nil, err
	}
	html := string(htmlBytes)

	content, title, err := p.extractor.Extract(html, sourceURL)
	if err != nil {
		return nil, err
	}

	sanitized, err := p.sanitizeFragment(content)
	if err != nil {
		return nil, err
	}

	markdown, err := p.mdConverter.Convert(sanitized)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentPage{
		URL:       sourceURL,
		Title:     title,
		Markdown:  markdown,
		FetchedAt: time.Now(),
	}, nil
}

// sanitizeFragment runs the sanitizer over a content fragment. goquery
// wraps fragments in html/body, so the body inner HTML is returned.
func (p *Pipeline) sanitizeFragment(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	p.sanitizer.SanitizeDocument(doc)

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Html()
	}
	return body.Html()
}
