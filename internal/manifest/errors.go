package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrNoSources indicates the manifest has no sources defined
	ErrNoSources = errors.New("manifest must contain at least one source")

	// ErrEmptyRepo indicates a source is missing the required repo field
	ErrEmptyRepo = errors.New("source repo cannot be empty")

	// ErrInvalidDocsURL indicates a docs entry is not an HTTP(S) URL
	ErrInvalidDocsURL = errors.New("docs entry must be an HTTP or HTTPS URL")

	// ErrInvalidFormat indicates the manifest file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("manifest must be valid YAML or JSON")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")
)
