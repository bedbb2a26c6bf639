package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the default number of download retries
	DefaultRetries = 3
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "vget/1.0"
)

// Downloader handles HTTP downloads with retry logic
type Downloader struct {
	client    *http.Client
	cacheDir  string
	userAgent string
	retries   int
	backoff   func(attempt int) time.Duration
}

// NewDownloader creates a new downloader that caches into cacheDir
func NewDownloader(cacheDir string) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// GitHub release downloads redirect to a CDN
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		cacheDir:  cacheDir,
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
	}
}

// DownloadToFile downloads a URL to a specific file path
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			select {
			case <-time.After(d.backoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isRetryable(err) {
			break
		}
	}

	return fmt.Errorf("download %s: %w", url, lastErr)
}

// statusError is returned for non-200 responses.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// isRetryable reports whether another attempt could succeed.
// Client errors (4xx) other than 408 and 429 are final.
func isRetryable(err error) bool {
	se, ok := err.(*statusError)
	if !ok {
		return true
	}
	if se.code == http.StatusRequestTimeout || se.code == http.StatusTooManyRequests {
		return true
	}
	return se.code >= 500
}

// downloadOnce performs a single download attempt
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// cachePath returns cache/{version}/{filename}
func (d *Downloader) cachePath(info *DownloadInfo, url string) string {
	return filepath.Join(d.cacheDir, info.Version, filepath.Base(url))
}

// fetch downloads url into the cache unless a non-empty copy exists.
// refresh discards any cached copy first.
func (d *Downloader) fetch(ctx context.Context, info *DownloadInfo, url string, refresh bool) (string, error) {
	if info == nil {
		return "", fmt.Errorf("download info is nil")
	}
	if url == "" {
		return "", fmt.Errorf("no URL available")
	}

	path := d.cachePath(info, url)
	if refresh {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("discard cached file: %w", err)
		}
	} else if fileExists(path) {
		return path, nil
	}

	if err := d.DownloadToFile(ctx, url, path); err != nil {
		return "", err
	}
	return path, nil
}

// DownloadAsset downloads the release asset to the cache directory
func (d *Downloader) DownloadAsset(ctx context.Context, info *DownloadInfo, refresh bool) (string, error) {
	path, err := d.fetch(ctx, info, info.URL, refresh)
	if err != nil {
		return "", fmt.Errorf("download asset: %w", err)
	}
	return path, nil
}

// DownloadChecksums downloads the release's SHA2-256SUMS file
func (d *Downloader) DownloadChecksums(ctx context.Context, info *DownloadInfo, refresh bool) (string, error) {
	path, err := d.fetch(ctx, info, info.ChecksumURL, refresh)
	if err != nil {
		return "", fmt.Errorf("download checksums: %w", err)
	}
	return path, nil
}

// DownloadSignature downloads the detached signature of SHA2-256SUMS
func (d *Downloader) DownloadSignature(ctx context.Context, info *DownloadInfo, refresh bool) (string, error) {
	path, err := d.fetch(ctx, info, info.SignatureURL, refresh)
	if err != nil {
		return "", fmt.Errorf("download signature: %w", err)
	}
	return path, nil
}

// fileExists checks if a file exists and is not empty
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
