package docs

import (
	"context"
	"strings"
	"time"

	"github.com/OW-Research/llmsgen/internal/converter"
	"github.com/OW-Research/llmsgen/internal/domain"
	"github.com/OW-Research/llmsgen/internal/fetcher"
	"github.com/OW-Research/llmsgen/internal/utils"
)

// Normalizer converts documentation web pages into LLM-ready Markdown.
// Fetching is strictly sequential with a per-host politeness delay.
type Normalizer struct {
	client   *fetcher.Client
	pipeline *converter.Pipeline
	logger   *utils.Logger
}

// NormalizerOptions contains options for creating a Normalizer
type NormalizerOptions struct {
	Timeout      time.Duration
	Delay        time.Duration
	MaxRetries   int
	UserAgent    string
	ExcludedTags []string
	Cache        domain.Cache
	EnableCache  bool
	CacheTTL     time.Duration
	Logger       *utils.Logger
}

// NewNormalizer creates a new documentation normalizer
func NewNormalizer(opts NormalizerOptions) *Normalizer {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	client := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:     opts.Timeout,
		Delay:       opts.Delay,
		MaxRetries:  opts.MaxRetries,
		UserAgent:   opts.UserAgent,
		Cache:       opts.Cache,
		EnableCache: opts.EnableCache,
		CacheTTL:    opts.CacheTTL,
	})

	pipeline := converter.NewPipeline(converter.PipelineOptions{
		ExcludedTags: opts.ExcludedTags,
	})

	return &Normalizer{
		client:   client,
		pipeline: pipeline,
		logger:   logger.WithComponent("docs"),
	}
}

// FetchAndNormalize fetches one page and converts it to Markdown.
// Non-success status or network failure yields a FetchError.
func (n *Normalizer) FetchAndNormalize(ctx context.Context, url string) (*domain.DocumentPage, error) {
	resp, err := n.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	// Markdown and plain text pass through untouched
	if converter.IsMarkdownContent(resp.ContentType, url) || converter.IsPlainTextContent(resp.ContentType, url) {
		return &domain.DocumentPage{
			URL:       url,
			Markdown:  strings.TrimSpace(string(resp.Body)),
			FetchedAt: time.Now(),
		}, nil
	}

	page, err := n.pipeline.Convert(resp.Body, url)
	if err != nil {
		return nil, domain.NewFetchError(url, 0, err)
	}

	logger := n.logger.WithURL(url)
	if page.Empty() {
		logger.Debug().Msg("page has no extractable text")
	} else {
		logger.Debug().Int("words", converter.CountWords(page.Markdown)).Msg("page normalized")
	}

	return page, nil
}

// FetchMany processes URLs one at a time, lazily, keeping at least the
// configured delay between consecutive requests. A failing or empty page
// is reported in its DocumentPage and never aborts sibling fetches.
func (n *Normalizer) FetchMany(ctx context.Context, urls []string) func(yield func(*domain.DocumentPage) bool) {
	return func(yield func(*domain.DocumentPage) bool) {
		for _, url := range urls {
			page, err := n.FetchAndNormalize(ctx, url)
			if err != nil {
				n.logger.Warn().Err(err).Str("url", url).Msg("failed to fetch page")
				page = &domain.DocumentPage{URL: url, FetchedAt: time.Now(), Err: err}
			}
			if !yield(page) {
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// FetchAll is a convenience wrapper that drains FetchMany into a slice;
// the result always has one entry per input URL.
func (n *Normalizer) FetchAll(ctx context.Context, urls []string) []*domain.DocumentPage {
	pages := make([]*domain.DocumentPage, 0, len(urls))
	n.FetchMany(ctx, urls)(func(page *domain.DocumentPage) bool {
		pages = append(pages, page)
		return true
	})
	return pages
}

// Delay returns the current politeness delay between fetches
func (n *Normalizer) Delay() time.Duration {
	return n.client.Delay()
}

// SetDelay adjusts the politeness delay between fetches
func (n *Normalizer) SetDelay(delay time.Duration) {
	n.client.SetDelay(delay)
}

// CacheTTL returns the TTL applied to newly cached pages
func (n *Normalizer) CacheTTL() time.Duration {
	return n.client.CacheTTL()
}

// SetCacheTTL adjusts the TTL applied to newly cached pages
func (n *Normalizer) SetCacheTTL(ttl time.Duration) {
	n.client.SetCacheTTL(ttl)
}

// Close releases the underlying HTTP client
func (n *Normalizer) Close() error {
	return n.client.Close()
}

// Ensure Normalizer implements domain.Normalizer
var _ domain.Normalizer = (*Normalizer)(nil)
