package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// AssetReference is one embedded remote image found in a document body:
// the literal matched text (for replacement) and the extracted URL.
// Ephemeral, recomputed per document.
type AssetReference struct {
	Match string
	URL   string
}

// AssetContext tells Localize where assets go and how references are
// rewritten. MarkerDir defaults to AssetDir; the flat layout points it at
// the shared image pool so deduplication spans all documents.
type AssetContext struct {
	AssetDir   string
	PathPrefix string
	MarkerDir  string
}

var (
	markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\(\s*(https?://[^)\s]+)(?:\s+"[^"]*")?\s*\)`)

	// A CDN asset is identified by a UUID-shaped token plus an image
	// extension, optionally carrying a WxH size suffix.
	assetTokenRe = regexp.MustCompile(`(?i)([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})(?:_[0-9]+x[0-9]+)?\.(png|jpe?g|gif|webp|svg|avif|heic)`)
)

// AssetLocalizer rewrites a document body so that remote CDN images become
// local files. A reference is rewritten if and only if the asset is
// confirmed present on disk; failed assets keep their remote URL so the
// breakage stays visible in the rendered output.
type AssetLocalizer struct {
	downloader *AssetDownloader
	cdnHost    string
}

// NewAssetLocalizer creates a localizer matching images served from cdnHost.
func NewAssetLocalizer(downloader *AssetDownloader, cdnHost string) *AssetLocalizer {
	return &AssetLocalizer{downloader: downloader, cdnHost: cdnHost}
}

// LocalizeDir localizes body with assets stored next to the document itself
// and references rewritten relative to the current directory. Used by the
// nested one-directory-per-post layout.
func (l *AssetLocalizer) LocalizeDir(body, dir string) (*LocalizeResult, error) {
	return l.Localize(body, AssetContext{AssetDir: dir, PathPrefix: ".", MarkerDir: dir})
}

// Localize extracts every CDN image reference from body, downloads each at
// most once across runs (markers), and returns the rewritten body plus
// per-asset outcomes. The asset directory must already exist: a missing
// directory is a caller bug and fails loudly.
func (l *AssetLocalizer) Localize(body string, ctx AssetContext) (*LocalizeResult, error) {
	info, err := os.Stat(ctx.AssetDir)
	if err != nil || !info.IsDir() {
		return nil, &WriteError{Path: ctx.AssetDir, Err: fmt.Errorf("asset directory does not exist")}
	}

	store := NewMarkerStore(ctx.AssetDir, ctx.MarkerDir)
	result := &LocalizeResult{Body: body}

	for _, ref := range l.ExtractReferences(body) {
		result.Processed++

		filename, ok := assetFilename(ref.URL)
		if !ok {
			result.Errors = append(result.Errors, AssetError{
				Filename: "unknown",
				URL:      ref.URL,
				Message:  "no recognizable asset token in URL",
			})
			continue
		}

		localPath := joinPrefix(ctx.PathPrefix, filename)

		switch store.Status(filename) {
		case MarkerSkipSuccess:
			result.Skipped++
			result.Body = rewriteReference(result.Body, ref.URL, localPath)
			result.Assets = append(result.Assets, AssetOutcome{
				Filename: filename, URL: ref.URL, Success: true, Skipped: true,
			})

		case MarkerSkipPermanent:
			result.Skipped++
			result.Assets = append(result.Assets, AssetOutcome{
				Filename: filename, URL: ref.URL, Skipped: true, Permanent: true,
				Message: "previous attempt failed permanently",
			})

		case MarkerAttempt:
			outcome := l.downloader.Fetch(ref.URL, filepath.Join(ctx.AssetDir, filename))
			if err := store.Record(filename, outcome); err != nil {
				return nil, err
			}

			if outcome.Success {
				result.Downloaded++
				result.Body = rewriteReference(result.Body, ref.URL, localPath)
				result.Assets = append(result.Assets, AssetOutcome{
					Filename: filename, URL: ref.URL, Success: true,
				})
				continue
			}

			result.Errors = append(result.Errors, AssetError{
				Filename:  filename,
				URL:       ref.URL,
				Permanent: outcome.Permanent,
				Message:   outcome.Err.Error(),
			})
			result.Assets = append(result.Assets, AssetOutcome{
				Filename: filename, URL: ref.URL, Permanent: outcome.Permanent,
				Message: outcome.Err.Error(),
			})
		}
	}

	return result, nil
}

// rewriteReference replaces rawURL with localPath inside every image
// reference whose URL is exactly rawURL. Matching whole references keeps
// the substitution from touching a longer URL that merely starts with
// rawURL (the same asset with a query-string variant, say); every match is
// bounded by its closing paren.
func rewriteReference(body, rawURL, localPath string) string {
	return markdownImageRe.ReplaceAllStringFunc(body, func(match string) string {
		sub := markdownImageRe.FindStringSubmatch(match)
		if sub == nil || sub[1] != rawURL {
			return match
		}
		return strings.Replace(match, rawURL, localPath, 1)
	})
}

// ExtractReferences returns the CDN image references in body in document
// order. Duplicate URLs appear once; literal substitution rewrites every
// occurrence anyway.
func (l *AssetLocalizer) ExtractReferences(body string) []AssetReference {
	var refs []AssetReference
	seen := make(map[string]bool)

	for _, m := range markdownImageRe.FindAllStringSubmatch(body, -1) {
		u := m[1]
		if !l.matchesCDNHost(u) || seen[u] {
			continue
		}
		seen[u] = true
		refs = append(refs, AssetReference{Match: m[0], URL: u})
	}

	return refs
}

// matchesCDNHost compares the URL's host component against the configured
// CDN host, so a CDN-looking path on another host is not mistaken for an
// asset. Subdomains of the CDN host count.
func (l *AssetLocalizer) matchesCDNHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == l.cdnHost || strings.HasSuffix(u.Host, "."+l.cdnHost)
}

// assetFilename derives the canonical local filename from a CDN URL: the
// UUID token plus the image extension. CDN URLs often nest the origin URL
// percent-encoded, so the raw URL is unescaped first.
func assetFilename(rawURL string) (string, bool) {
	decoded, err := url.QueryUnescape(rawURL)
	if err != nil {
		decoded = rawURL
	}

	m := assetTokenRe.FindStringSubmatch(decoded)
	if m == nil {
		return "", false
	}

	token := strings.ToLower(m[1])
	if _, err := uuid.Parse(token); err != nil {
		return "", false
	}

	return token + "." + strings.ToLower(m[2]), true
}

func joinPrefix(prefix, filename string) string {
	if prefix == "" || prefix == "." {
		return "./" + filename
	}
	return strings.TrimSuffix(prefix, "/") + "/" + filename
}
