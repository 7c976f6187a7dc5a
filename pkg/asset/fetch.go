// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds a single remote fetch so that one unreachable
// asset cannot stall an entire document composition.
const DefaultFetchTimeout = 5 * time.Second

type (
	// Fetcher retrieves remote asset sources. It supports http://, https://
	// and file:// URIs. The zero value is not usable; construct with
	// NewFetcher.
	Fetcher struct {
		client  *http.Client
		timeout time.Duration
	}
)

// NewFetcher creates a Fetcher with the given per-fetch timeout.
// A non-positive timeout falls back to DefaultFetchTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Fetch retrieves the content behind uri. The context bounds the whole
// operation in addition to the fetcher's own timeout.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (string, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return f.fetchHTTP(ctx, uri)
	case strings.HasPrefix(uri, "file://"):
		return fetchFile(uri)
	default:
		return "", fmt.Errorf("unsupported URI scheme: %s", uri)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, uri string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func fetchFile(uri string) (string, error) {
	path := strings.SplitN(uri, "//", 2)[1]
	if runtime.GOOS == "windows" {
		path = strings.TrimLeft(path, "/")
		path = filepath.FromSlash(path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// IsRemoteURI reports whether s is a locator the Fetcher understands.
func IsRemoteURI(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "file://")
}
