// Package fetcher retrieves remote table files over HTTP(S) and FTP and
// decodes CSV and XLSX payloads into header + row string tables.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Fetcher downloads a remote file.
type Fetcher interface {
	// Download fetches the URL and returns the body. Callers close it.
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// Options configures the fetchers built by New.
type Options struct {
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// Router dispatches downloads to the HTTP or FTP fetcher by URL scheme.
type Router struct {
	http Fetcher
	ftp  Fetcher
}

// New creates a Router with HTTP and FTP fetchers sharing opts.
func New(opts Options) *Router {
	return &Router{
		http: NewHTTPFetcher(HTTPOptions{
			UserAgent:         opts.UserAgent,
			Timeout:           opts.Timeout,
			MaxRetries:        opts.MaxRetries,
			RequestsPerSecond: opts.RequestsPerSecond,
		}),
		ftp: NewFTPFetcher(FTPOptions{Timeout: opts.Timeout}),
	}
}

// Download implements Fetcher.
func (r *Router) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: parse url")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return r.http.Download(ctx, rawURL)
	case "ftp":
		return r.ftp.Download(ctx, rawURL)
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}
}

// IsRemote reports whether loc is a URL this package can download.
func IsRemote(loc string) bool {
	lower := strings.ToLower(loc)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "ftp://")
}
