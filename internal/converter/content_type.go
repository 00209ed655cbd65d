package converter

import "strings"

// IsMarkdownContent reports whether the response is already Markdown and
// needs no HTML conversion.
func IsMarkdownContent(contentType, url string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "text/markdown") ||
		strings.Contains(ct, "text/x-markdown") ||
		strings.Contains(ct, "application/markdown") {
		return true
	}

	lowerURL := stripQueryAndFragment(strings.ToLower(url))

	return strings.HasSuffix(lowerURL, ".md") ||
		strings.HasSuffix(lowerURL, ".mdx") ||
		strings.HasSuffix(lowerURL, ".markdown")
}

// IsPlainTextContent reports whether the response is plain text.
func IsPlainTextContent(contentType, url string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "text/plain") {
		return true
	}

	return strings.HasSuffix(stripQueryAndFragment(strings.ToLower(url)), ".txt")
}

func stripQueryAndFragment(url string) string {
	if idx := strings.IndexAny(url, "?#"); idx != -1 {
		return url[:idx]
	}
	return url
}
