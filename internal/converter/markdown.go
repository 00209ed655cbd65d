package converter

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownConverter converts sanitized HTML to Markdown
type MarkdownConverter struct{}

// NewMarkdownConverter creates a new Markdown converter
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{}
}

// Convert converts HTML to Markdown
func (c *MarkdownConverter) Convert(html string) (string, error) {
	markdown, err := md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	return cleanMarkdown(markdown), nil
}

// cleanMarkdown collapses excessive blank lines and trims whitespace
func cleanMarkdown(markdown string) string {
	for strings.Contains(markdown, "\n\n\n") {
		markdown = strings.ReplaceAll(markdown, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(markdown)
}

// CountWords counts words in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}
