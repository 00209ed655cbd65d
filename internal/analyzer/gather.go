package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/OW-Research/llmsgen/internal/domain"
	"github.com/OW-Research/llmsgen/internal/utils"
)

// packageFileCandidates are the manifest files probed for build and
// dependency information. Missing files are skipped silently.
var packageFileCandidates = []string{
	"pyproject.toml",
	"setup.py",
	"requirements.txt",
	"package.json",
	"go.mod",
	"Cargo.toml",
}

// Gatherer collects the repository context consumed by the
// summarization chain: the file tree, the README, and package files.
type Gatherer struct {
	fetcher domain.TreeFetcher
	logger  *utils.Logger
}

// NewGatherer creates a new repository gatherer
func NewGatherer(fetcher domain.TreeFetcher, logger *utils.Logger) *Gatherer {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Gatherer{
		fetcher: fetcher,
		logger:  logger.WithComponent("analyzer"),
	}
}

// Gather lists the repository tree and fetches the README and any
// package files present. The ref must carry a resolved branch.
func (g *Gatherer) Gather(ctx context.Context, ref domain.RepositoryRef) (*domain.RepositoryInfo, error) {
	entries, err := g.fetcher.ListFiles(ctx, ref.Owner, ref.Name, ref.Branch)
	if err != nil {
		return nil, fmt.Errorf("failed to list repository files: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsFile() {
			paths = append(paths, entry.Path)
		}
	}
	sort.Strings(paths)

	info := &domain.RepositoryInfo{
		Ref:      ref,
		FileTree: strings.Join(paths, "\n"),
	}

	if readmePath := findReadme(paths); readmePath != "" {
		file, err := g.fetcher.GetFileContent(ctx, ref.Owner, ref.Name, readmePath, ref.Branch)
		if err != nil {
			if !domain.IsNotFound(err) {
				return nil, fmt.Errorf("failed to fetch %s: %w", readmePath, err)
			}
			g.logger.Warn().Str("path", readmePath).Msg("readme listed but not fetchable")
		} else {
			info.ReadmeText = file.Text
		}
	}

	var sections []string
	for _, path := range packageFileCandidates {
		file, err := g.fetcher.GetFileContent(ctx, ref.Owner, ref.Name, path, ref.Branch)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
		}
		sections = append(sections, fmt.Sprintf("=== %s ===\n%s", file.Path, file.Text))
	}
	info.PackageFiles = strings.Join(sections, "\n\n")

	g.logger.Debug().
		Int("files", len(paths)).
		Int("package_files", len(sections)).
		Bool("readme", info.ReadmeText != "").
		Msg("repository info gathered")

	return info, nil
}

// findReadme returns the first path containing "README", preferring
// the lexicographically smallest match since paths are sorted.
func findReadme(sortedPaths []string) string {
	for _, p := range sortedPaths {
		if strings.Contains(p, "README") {
			return p
		}
	}
	return ""
}
