package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OW-Research/llmsgen/internal/domain"
	"github.com/OW-Research/llmsgen/internal/utils"
)

// ErrExists indicates the output file already exists and overwriting
// was not requested
var ErrExists = errors.New("output file already exists")

// Writer persists the generated digest and, optionally, the
// normalized documentation pages next to it.
type Writer struct {
	path      string
	pagesDir  string
	overwrite bool
	dryRun    bool
	logger    *utils.Logger
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	Path      string
	PagesDir  string
	Overwrite bool
	DryRun    bool
	Logger    *utils.Logger
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.Path == "" {
		opts.Path = "llms.txt"
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Writer{
		path:      opts.Path,
		pagesDir:  opts.PagesDir,
		overwrite: opts.Overwrite,
		dryRun:    opts.DryRun,
		logger:    logger.WithComponent("output"),
	}
}

// Write saves the digest to the configured path
func (w *Writer) Write(ctx context.Context, digest *domain.Digest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !w.overwrite {
		if _, err := os.Stat(w.path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, w.path)
		}
	}

	if w.dryRun {
		w.logger.Info().Str("path", w.path).Msg("dry run, skipping write")
		return nil
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(w.path, []byte(digest.Content), 0644); err != nil {
		return fmt.Errorf("failed to write digest: %w", err)
	}

	w.logger.Info().
		Str("path", w.path).
		Str("repo", digest.Ref.String()).
		Int("bytes", len(digest.Content)).
		Msg("digest written")

	return nil
}

// WritePages saves normalized documentation pages as individual
// Markdown files under the pages directory. A no-op when no pages
// directory is configured; failed pages are skipped.
func (w *Writer) WritePages(ctx context.Context, pages []*domain.DocumentPage) error {
	if w.pagesDir == "" || w.dryRun {
		return nil
	}

	if err := os.MkdirAll(w.pagesDir, 0755); err != nil {
		return fmt.Errorf("failed to create pages directory: %w", err)
	}

	for _, page := range pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !page.OK() || page.Empty() {
			continue
		}

		path := filepath.Join(w.pagesDir, pageFilename(page.URL))
		if err := os.WriteFile(path, []byte(page.Markdown), 0644); err != nil {
			return fmt.Errorf("failed to write page %s: %w", page.URL, err)
		}
	}

	return nil
}

// Path returns the configured digest path
func (w *Writer) Path() string {
	return w.path
}

// pageFilename derives a flat, filesystem-safe Markdown filename from
// a page URL.
func pageFilename(rawURL string) string {
	s := rawURL
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.Trim(s, "/")

	replacer := strings.NewReplacer("/", "-", "?", "-", "&", "-", "#", "-", ":", "-", "%", "-")
	s = replacer.Replace(s)
	s = strings.TrimSuffix(s, ".html")
	s = strings.TrimSuffix(s, ".htm")
	if s == "" {
		s = "index"
	}
	return s + ".md"
}

// Ensure Writer implements domain.Writer
var _ domain.Writer = (*Writer)(nil)
