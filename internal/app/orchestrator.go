package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/OW-Research/llmsgen/internal/analyzer"
	"github.com/OW-Research/llmsgen/internal/cache"
	"github.com/OW-Research/llmsgen/internal/config"
	"github.com/OW-Research/llmsgen/internal/docs"
	"github.com/OW-Research/llmsgen/internal/domain"
	"github.com/OW-Research/llmsgen/internal/github"
	"github.com/OW-Research/llmsgen/internal/llm"
	"github.com/OW-Research/llmsgen/internal/manifest"
	"github.com/OW-Research/llmsgen/internal/output"
	"github.com/OW-Research/llmsgen/internal/utils"
)

// Orchestrator coordinates the digest pipeline: resolve the repository
// branch, gather its tree and key files, normalize the documentation
// pages, run the summarization chain, and write llms.txt.
type Orchestrator struct {
	config     *config.Config
	fetcher    domain.TreeFetcher
	normalizer *docs.Normalizer
	provider   domain.LLMProvider
	cache      domain.Cache
	logger     *utils.Logger
	progress   bool
}

// OrchestratorOptions contains options for creating an orchestrator.
// Fetcher and Provider may be injected for testing; when nil they are
// built from the configuration.
type OrchestratorOptions struct {
	Config   *config.Config
	Fetcher  domain.TreeFetcher
	Provider domain.LLMProvider
	Logger   *utils.Logger
	Progress bool
	Verbose  bool
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	var pageCache domain.Cache
	if cfg.Cache.Enabled {
		c, err := cache.NewBadgerCache(cache.Options{Directory: cfg.Cache.Directory})
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		pageCache = c
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = github.NewClient(github.ClientOptions{
			BaseURL:  cfg.GitHub.APIBaseURL,
			Token:    cfg.GitHub.Token,
			Branches: cfg.GitHub.Branches,
			Timeout:  cfg.GitHub.Timeout,
			Logger:   logger,
		})
	}

	normalizer := docs.NewNormalizer(docs.NormalizerOptions{
		Timeout:      cfg.Docs.Timeout,
		Delay:        cfg.Docs.Delay,
		MaxRetries:   cfg.Docs.MaxRetries,
		UserAgent:    cfg.Docs.UserAgent,
		ExcludedTags: cfg.Docs.ExcludeTags,
		Cache:        pageCache,
		EnableCache:  cfg.Cache.Enabled,
		CacheTTL:     cfg.Cache.TTL,
		Logger:       logger,
	})

	provider := opts.Provider
	if provider == nil {
		p, err := llm.NewProviderFromConfig(&cfg.LLM)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	return &Orchestrator{
		config:     cfg,
		fetcher:    fetcher,
		normalizer: normalizer,
		provider:   provider,
		cache:      pageCache,
		logger:     logger,
		progress:   opts.Progress,
	}, nil
}

// runParams carries the per-run settings; manifest sources override
// the base configuration through these.
type runParams struct {
	docURLs    []string
	branch     string // fixed branch, skips resolution when set
	outputPath string
	pagesDir   string
}

// Run generates llms.txt for one repository URL
func (o *Orchestrator) Run(ctx context.Context, repoURL string) error {
	return o.run(ctx, repoURL, runParams{
		docURLs:    o.config.Docs.URLs,
		outputPath: o.config.Output.Path,
		pagesDir:   o.config.Output.PagesDir,
	})
}

func (o *Orchestrator) run(ctx context.Context, repoURL string, params runParams) error {
	startTime := time.Now()

	if utils.IsHTTPURL(repoURL) && !utils.IsRepoURL(repoURL) {
		return fmt.Errorf("%w: unsupported repository host in %s", domain.ErrInvalidRepoURL, repoURL)
	}

	ref, err := domain.ParseRepositoryRef(repoURL)
	if err != nil {
		return err
	}

	logger := o.logger.WithRepo(ref.String())
	logger.Info().
		Str("output", params.outputPath).
		Msg("Starting llms.txt generation")

	ref.Branch = params.branch
	if ref.Branch == "" {
		branch, err := o.fetcher.ResolveBranch(ctx, ref.Owner, ref.Name)
		if err != nil {
			return err
		}
		ref.Branch = branch
	}
	logger.Debug().Str("branch", ref.Branch).Msg("branch resolved")

	gatherer := analyzer.NewGatherer(o.fetcher, o.logger)
	info, err := gatherer.Gather(ctx, ref)
	if err != nil {
		return err
	}

	info.DocPages = o.fetchDocs(ctx, params.docURLs)

	chain := analyzer.NewChain(o.provider, o.logger)
	digest, err := chain.Summarize(ctx, info)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("Generation cancelled")
			return ctx.Err()
		}
		return fmt.Errorf("summarization failed: %w", err)
	}

	writer := output.NewWriter(output.WriterOptions{
		Path:      params.outputPath,
		PagesDir:  params.pagesDir,
		Overwrite: o.config.Output.Overwrite,
		DryRun:    o.config.Output.DryRun,
		Logger:    o.logger,
	})

	if err := writer.Write(ctx, digest); err != nil {
		return err
	}
	if err := writer.WritePages(ctx, info.DocPages); err != nil {
		return err
	}

	logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("llms.txt generation completed")

	return nil
}

// fetchDocs normalizes the configured documentation pages one at a
// time. Per-page failures are logged and carried in the page itself.
func (o *Orchestrator) fetchDocs(ctx context.Context, urls []string) []*domain.DocumentPage {
	if len(urls) == 0 {
		return nil
	}

	var bar interface{ Add(int) error }
	if o.progress {
		bar = utils.NewProgressBar(len(urls), utils.DescFetching)
	}

	pages := make([]*domain.DocumentPage, 0, len(urls))
	o.normalizer.FetchMany(ctx, urls)(func(page *domain.DocumentPage) bool {
		pages = append(pages, page)
		if bar != nil {
			_ = bar.Add(1)
		}
		return true
	})

	failed := 0
	for _, p := range pages {
		if !p.OK() {
			failed++
		}
	}
	o.logger.Info().
		Int("pages", len(pages)).
		Int("failed", failed).
		Msg("documentation pages fetched")

	return pages
}

// ManifestResult represents the result of processing one manifest source
type ManifestResult struct {
	Source   manifest.Source
	Error    error
	Duration time.Duration
}

// RunManifest generates digests for every source in the manifest.
// Sources run sequentially over the shared normalizer so the
// politeness delay holds across source boundaries.
func (o *Orchestrator) RunManifest(ctx context.Context, manifestCfg *manifest.Config) error {
	startTime := time.Now()
	totalSources := len(manifestCfg.Sources)

	o.logger.Info().
		Int("sources", totalSources).
		Bool("continue_on_error", manifestCfg.Options.ContinueOnError).
		Msg("Starting manifest execution")

	// Manifest options override the base fetch settings for the run
	if delay := time.Duration(manifestCfg.Options.Delay); delay > 0 {
		o.normalizer.SetDelay(delay)
	}
	if ttl := time.Duration(manifestCfg.Options.CacheTTL); ttl > 0 {
		o.normalizer.SetCacheTTL(ttl)
	}

	results := make([]ManifestResult, 0, totalSources)
	var firstError error

	for idx, source := range manifestCfg.Sources {
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Manifest execution cancelled")
			return ctx.Err()
		}

		sourceStart := time.Now()
		o.logger.Info().
			Int("source_idx", idx).
			Str("repo", source.Repo).
			Int("total", totalSources).
			Msg("Processing source")

		err := o.runSource(ctx, source, manifestCfg.Options)
		results = append(results, ManifestResult{
			Source:   source,
			Error:    err,
			Duration: time.Since(sourceStart),
		})

		if err != nil {
			o.logger.Error().
				Err(err).
				Str("repo", source.Repo).
				Msg("Source generation failed")
			if firstError == nil {
				firstError = fmt.Errorf("source %s failed: %w", source.Repo, err)
			}
			if !manifestCfg.Options.ContinueOnError {
				return firstError
			}
		}
	}

	successCount := 0
	for _, r := range results {
		if r.Error == nil {
			successCount++
		}
	}

	o.logger.Info().
		Dur("total_duration", time.Since(startTime)).
		Int("total", totalSources).
		Int("success", successCount).
		Int("failed", totalSources-successCount).
		Msg("Manifest execution completed")

	if firstError != nil {
		return fmt.Errorf("manifest completed with %d/%d failures: %w",
			totalSources-successCount, totalSources, firstError)
	}

	return nil
}

func (o *Orchestrator) runSource(ctx context.Context, source manifest.Source, opts manifest.Options) error {
	ref, err := domain.ParseRepositoryRef(source.Repo)
	if err != nil {
		return err
	}

	outputPath := source.Output
	if outputPath == "" {
		outputPath = filepath.Join(opts.OutputDir, ref.Name+"-llms.txt")
	}

	// Each source gets its own subdirectory so page files never collide
	var pagesDir string
	if o.config.Output.PagesDir != "" {
		pagesDir = filepath.Join(o.config.Output.PagesDir, ref.Name)
	}

	return o.run(ctx, source.Repo, runParams{
		docURLs:    source.Docs,
		branch:     source.Branch,
		outputPath: outputPath,
		pagesDir:   pagesDir,
	})
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	var firstErr error

	if o.normalizer != nil {
		if err := o.normalizer.Close(); err != nil {
			firstErr = err
		}
	}
	if o.provider != nil {
		if err := o.provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if o.cache != nil {
		if err := o.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
