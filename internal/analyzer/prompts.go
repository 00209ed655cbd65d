package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/OW-Research/llmsgen/internal/domain"
)

const analystSystemPrompt = `You are an expert software analyst. You study repository
structure, documentation and configuration to produce accurate, concise
technical summaries. Answer only with the requested content, without
preamble or commentary.`

// maxPromptChars bounds each embedded document so a single oversized
// README or page cannot blow past the provider's context window.
const maxPromptChars = 60000

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "\n... (truncated)"
}

func analyzeRepositoryPrompt(info *domain.RepositoryInfo) string {
	var sb strings.Builder
	sb.WriteString("Analyze this repository's structure and identify its key components.\n\n")
	fmt.Fprintf(&sb, "Repository URL: %s\n\n", info.Ref.URL())
	fmt.Fprintf(&sb, "File tree:\n%s\n\n", truncate(info.FileTree, maxPromptChars))
	fmt.Fprintf(&sb, "README:\n%s\n\n", truncate(info.ReadmeText, maxPromptChars))
	sb.WriteString(`Respond with exactly three sections:

## Project Purpose
The main purpose and goals of the project.

## Key Concepts
A bullet list of important concepts and terminology.

## Architecture Overview
A high-level description of the architecture.`)
	return sb.String()
}

func analyzeStructurePrompt(info *domain.RepositoryInfo) string {
	var sb strings.Builder
	sb.WriteString("Analyze this repository's code structure to identify important directories and files.\n\n")
	fmt.Fprintf(&sb, "File tree:\n%s\n\n", truncate(info.FileTree, maxPromptChars))
	fmt.Fprintf(&sb, "Package and configuration files:\n%s\n\n", truncate(info.PackageFiles, maxPromptChars))
	sb.WriteString(`Respond with exactly three sections:

## Important Directories
A bullet list of key directories and their purposes.

## Entry Points
A bullet list of main entry points and important files.

## Development Info
Development setup and workflow information.`)
	return sb.String()
}

func usageExamplesPrompt(repoAnalysis string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following repository analysis, write common usage patterns and examples for the project.\n\n")
	sb.WriteString(truncate(repoAnalysis, maxPromptChars))
	sb.WriteString("\n\nShow realistic, minimal code or command examples a new user would need first.")
	return sb.String()
}

func generateLLMsTxtPrompt(info *domain.RepositoryInfo, repoAnalysis, structureAnalysis, usageExamples string) string {
	var sb strings.Builder
	sb.WriteString("Generate a comprehensive llms.txt file from the analyzed repository information below.\n\n")
	fmt.Fprintf(&sb, "Repository: %s (%s)\n\n", info.Ref.String(), info.Ref.URL())
	fmt.Fprintf(&sb, "Repository analysis:\n%s\n\n", repoAnalysis)
	fmt.Fprintf(&sb, "Structure analysis:\n%s\n\n", structureAnalysis)
	fmt.Fprintf(&sb, "Usage examples:\n%s\n\n", usageExamples)

	if docs := renderDocPages(info.DocPages); docs != "" {
		fmt.Fprintf(&sb, "Supplementary documentation pages:\n%s\n\n", truncate(docs, maxPromptChars))
	}

	sb.WriteString(`Produce the complete llms.txt content following the llms.txt standard:
an H1 title, a one-line blockquote summary, prose context paragraphs, and
H2 sections containing Markdown link lists with short descriptions.
Output only the llms.txt content itself.`)
	return sb.String()
}

// renderDocPages joins successfully normalized pages with their source
// URLs so the model can reference them as links.
func renderDocPages(pages []*domain.DocumentPage) string {
	var sections []string
	for _, page := range pages {
		if page == nil || !page.OK() || page.Empty() {
			continue
		}
		title := page.Title
		if title == "" {
			title = page.URL
		}
		sections = append(sections, fmt.Sprintf("=== %s (%s) ===\n%s", title, page.URL, page.Markdown))
	}
	return strings.Join(sections, "\n\n")
}
