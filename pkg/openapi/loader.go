package openapi

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// Loader errors. Read failures from the underlying file system keep their
// own errors (fs.ErrNotExist and friends) wrapped alongside.
var (
	ErrNilSource         = errors.New("openapi loader: source is nil")
	ErrEmptyLocation     = errors.New("openapi loader: source location is empty")
	ErrUnsupportedSource = errors.New("openapi loader: unsupported source kind")
	ErrNoFileSystem      = errors.New("openapi loader: no filesystem configured for fs sources")
	ErrHTTPDisabled      = errors.New("openapi loader: http sources are disabled")
	ErrUnexpectedStatus  = errors.New("openapi loader: unexpected http status")
)

// Loader fetches OpenAPI documents from files, an fs.FS or HTTP.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS

	// HTTPClient enables URL sources.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is given.
	AllowHTTPFallback bool

	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for SourceFromFS.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies options and returns the resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
