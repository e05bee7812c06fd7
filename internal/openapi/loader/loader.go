package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	pkgopenapi "github.com/goliatone/go-formrules/pkg/openapi"
)

// readFunc fetches the raw bytes behind one source location.
type readFunc func(ctx context.Context, location string) ([]byte, error)

// Loader implements pkgopenapi.Loader with one reader per source kind. Kinds
// without a reader are rejected with the matching sentinel error.
type Loader struct {
	readers map[pkgopenapi.SourceKind]readFunc
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds the reader table from resolved options. Files are always
// readable; fs sources need a FileSystem and URL sources an HTTP client or
// the fallback flag.
func New(options pkgopenapi.LoaderOptions) *Loader {
	l := &Loader{readers: map[pkgopenapi.SourceKind]readFunc{
		pkgopenapi.SourceKindFile: readFile,
	}}
	if options.FileSystem != nil {
		l.readers[pkgopenapi.SourceKindFS] = readFS(options.FileSystem)
	}
	if client := httpClient(options); client != nil {
		l.readers[pkgopenapi.SourceKindURL] = readURL(client, options.RequestTimeout)
	}
	return l
}

// Load reads src and wraps it as a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, pkgopenapi.ErrNilSource
	}
	if src.Location() == "" {
		return pkgopenapi.Document{}, fmt.Errorf("%w (%s)", pkgopenapi.ErrEmptyLocation, src.Kind())
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	read, ok := l.readers[src.Kind()]
	if !ok {
		return pkgopenapi.Document{}, missingReader(src.Kind())
	}
	data, err := read(ctx, src.Location())
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s %s: %w", src.Kind(), src.Location(), err)
	}
	return pkgopenapi.NewDocument(src, data)
}

func missingReader(kind pkgopenapi.SourceKind) error {
	switch kind {
	case pkgopenapi.SourceKindFS:
		return pkgopenapi.ErrNoFileSystem
	case pkgopenapi.SourceKindURL:
		return pkgopenapi.ErrHTTPDisabled
	default:
		return fmt.Errorf("%w %q", pkgopenapi.ErrUnsupportedSource, kind)
	}
}

func httpClient(options pkgopenapi.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}

func readFile(_ context.Context, path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func readFS(fsys fs.FS) readFunc {
	return func(_ context.Context, name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	}
}

func readURL(client *http.Client, timeout time.Duration) readFunc {
	return func(ctx context.Context, url string) ([]byte, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %s", pkgopenapi.ErrUnexpectedStatus, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
}
