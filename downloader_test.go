package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestDownloader(opts DownloaderOptions) *AssetDownloader {
	d := NewAssetDownloader(opts)
	d.sleep = func(time.Duration) {} // no real delays in tests
	return d
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.png")
	d := newTestDownloader(DownloaderOptions{})

	outcome := d.Fetch(server.URL, dest)

	if !outcome.Success {
		t.Fatalf("Fetch() outcome = %+v, want success", outcome)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("downloaded content = %q, want %q", data, "image-bytes")
	}
}

func TestFetchForbiddenIsPermanentAndNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.png")
	d := newTestDownloader(DownloaderOptions{MaxAttempts: 3})

	outcome := d.Fetch(server.URL, dest)

	if outcome.Success {
		t.Fatal("Fetch() succeeded, want permanent failure")
	}
	if !outcome.Permanent {
		t.Error("Fetch() outcome.Permanent = false, want true for HTTP 403")
	}
	if attempts != 1 {
		t.Errorf("server saw %d attempts, want 1 (permanent failures must not be retried)", attempts)
	}
	if fileExists(dest) {
		t.Error("destination file exists after failed fetch")
	}
}

func TestFetchTransientIsRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.png")
	d := newTestDownloader(DownloaderOptions{MaxAttempts: 3})

	outcome := d.Fetch(server.URL, dest)

	if outcome.Success || outcome.Permanent {
		t.Fatalf("Fetch() outcome = %+v, want transient failure", outcome)
	}
	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts)
	}
	if fileExists(dest) {
		t.Error("destination file exists after failed fetch")
	}
}

func TestFetchRecoversOnRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.png")
	d := newTestDownloader(DownloaderOptions{MaxAttempts: 3})

	outcome := d.Fetch(server.URL, dest)

	if !outcome.Success {
		t.Fatalf("Fetch() outcome = %+v, want success on third attempt", outcome)
	}
	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts)
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("redirected"))
	}))
	defer target.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusMovedPermanently)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.png")
	d := newTestDownloader(DownloaderOptions{})

	outcome := d.Fetch(server.URL, dest)

	if !outcome.Success {
		t.Fatalf("Fetch() outcome = %+v, want success through redirect", outcome)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "redirected" {
		t.Errorf("downloaded content = %q, want %q", data, "redirected")
	}
}

func TestFetchCapsRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Redirect to itself forever.
		http.Redirect(w, r, server.URL, http.StatusFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "asset.png")
	d := newTestDownloader(DownloaderOptions{MaxAttempts: 1})

	outcome := d.Fetch(server.URL, dest)

	if outcome.Success {
		t.Fatal("Fetch() succeeded on a redirect loop")
	}
	if outcome.Permanent {
		t.Error("redirect loop classified as permanent, want transient")
	}
}

func TestFetchThrottleAppliedAfterEveryFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	var slept []time.Duration
	d := NewAssetDownloader(DownloaderOptions{Throttle: 50 * time.Millisecond})
	d.sleep = func(dur time.Duration) { slept = append(slept, dur) }

	d.Fetch(server.URL, filepath.Join(t.TempDir(), "asset.png"))

	if len(slept) != 1 || slept[0] != 50*time.Millisecond {
		t.Errorf("sleep calls = %v, want one 50ms throttle after the fetch", slept)
	}
}
