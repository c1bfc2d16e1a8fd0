package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const maxRedirects = 5

// DownloaderOptions configures retry and pacing behavior.
type DownloaderOptions struct {
	MaxAttempts int           // attempts per URL, including the first (default 3)
	RetryDelay  time.Duration // fixed delay between attempts (default 1s)
	Timeout     time.Duration // per-attempt timeout (default 30s)
	Throttle    time.Duration // delay after every fetch, success or not (default 200ms)
}

func (o DownloaderOptions) withDefaults() DownloaderOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Throttle < 0 {
		o.Throttle = 200 * time.Millisecond
	}
	return o
}

// AssetDownloader fetches one remote resource to a destination path.
type AssetDownloader struct {
	client *http.Client
	opts   DownloaderOptions
	sleep  func(time.Duration) // swappable in tests
}

// NewAssetDownloader creates a downloader. A 403 response is treated as
// permanent and never retried; everything else that fails is transient and
// retried up to MaxAttempts with a fixed delay.
func NewAssetDownloader(opts DownloaderOptions) *AssetDownloader {
	opts = opts.withDefaults()
	return &AssetDownloader{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		opts:  opts,
		sleep: time.Sleep,
	}
}

// Fetch downloads url to destPath. The destination's parent directory must
// already exist. On failure no partial file is left behind: the body is
// written to a temp file and renamed into place only on success.
func (d *AssetDownloader) Fetch(url, destPath string) DownloadOutcome {
	var outcome DownloadOutcome

	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		outcome = d.fetchOnce(url, destPath)
		if d.opts.Throttle > 0 {
			d.sleep(d.opts.Throttle)
		}

		if outcome.Success || outcome.Permanent {
			return outcome
		}
		if attempt < d.opts.MaxAttempts {
			d.sleep(d.opts.RetryDelay)
		}
	}

	outcome.Err = fmt.Errorf("after %d attempts: %w", d.opts.MaxAttempts, outcome.Err)
	return outcome
}

func (d *AssetDownloader) fetchOnce(url, destPath string) DownloadOutcome {
	resp, err := d.client.Get(url)
	if err != nil {
		return DownloadOutcome{Err: fmt.Errorf("fetching %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return DownloadOutcome{Permanent: true, Err: &HTTPError{StatusCode: resp.StatusCode, URL: url}}
	}
	if resp.StatusCode != http.StatusOK {
		return DownloadOutcome{Err: &HTTPError{StatusCode: resp.StatusCode, URL: url}}
	}

	if err := writeBody(resp.Body, destPath); err != nil {
		return DownloadOutcome{Err: fmt.Errorf("saving %s: %w", destPath, err)}
	}

	return DownloadOutcome{Success: true}
}

func writeBody(body io.Reader, destPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Chmod(destPath, 0644)
}
