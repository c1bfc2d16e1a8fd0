package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LayoutKind selects how output paths and asset directories are derived.
type LayoutKind string

const (
	// LayoutNested writes {out}/{slug}/index.md with assets beside the document.
	LayoutNested LayoutKind = "nested"
	// LayoutFlat writes {out}/{slug}.md with assets in one shared directory.
	LayoutFlat LayoutKind = "flat"
)

// layout is the strategy value that parameterizes the per-post pipeline:
// path building, the exists check, and the asset context. Both layouts share
// every other pipeline stage.
type layout struct {
	relPath      func(slug string) string
	exists       func(outDir, slug string) bool
	assetDir     func(outDir, slug string) string
	assetContext func(outDir, slug string) AssetContext
}

// ConverterOptions configures one converter instance. The layout is chosen
// once for the whole run.
type ConverterOptions struct {
	OutputDir    string
	Layout       LayoutKind
	ImagesDir    string // flat layout only; default "_images"
	ImagePrefix  string // flat layout only; default "/images"
	SkipExisting bool
}

// Converter drives the full conversion pipeline over a post collection.
// Posts are processed strictly one at a time; a failure in one post never
// aborts the run.
type Converter struct {
	opts      ConverterOptions
	layout    layout
	localizer *AssetLocalizer
	cleaner   *BodyCleaner
	listeners []EventListener
}

// NewConverter creates a converter for the given layout.
func NewConverter(opts ConverterOptions, localizer *AssetLocalizer) (*Converter, error) {
	if opts.ImagesDir == "" {
		opts.ImagesDir = "_images"
	}
	if opts.ImagePrefix == "" {
		opts.ImagePrefix = "/images"
	}

	c := &Converter{
		opts:      opts,
		localizer: localizer,
		cleaner:   NewBodyCleaner(),
	}

	switch opts.Layout {
	case LayoutNested:
		c.layout = nestedLayout()
	case LayoutFlat:
		c.layout = flatLayout(opts.ImagesDir, opts.ImagePrefix)
	default:
		return nil, fmt.Errorf("unknown layout %q", opts.Layout)
	}

	return c, nil
}

// AddListener registers an event listener. Listeners are invoked in
// registration order, synchronously, on the converter's goroutine.
func (c *Converter) AddListener(l EventListener) {
	c.listeners = append(c.listeners, l)
}

func (c *Converter) emit(e Event) {
	for _, l := range c.listeners {
		l(e)
	}
}

// Run converts every post in the export file. Run-fatal problems (missing
// file, bad JSON, empty collection) return an error before any post is
// touched; per-post failures are recorded in the result and never interrupt
// sibling posts. Callers must inspect the result to detect partial failure.
func (c *Converter) Run(exportPath string) (*AggregateResult, error) {
	start := time.Now()

	export, err := LoadExport(exportPath)
	if err != nil {
		c.emit(RunErrorEvent{Kind: ErrorKindFatal, Message: err.Error()})
		return nil, err
	}

	result := &AggregateResult{}
	total := len(export.Posts)

	for i, raw := range export.Posts {
		postStart := time.Now()
		c.emit(PostStartingEvent{Slug: raw.Slug, Title: raw.Title, Index: i + 1, Total: total})

		outcome := c.convertPost(raw)

		switch outcome.Status {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
			result.Errors = append(result.Errors, SlugError{Slug: outcome.Slug, Err: outcome.Error})
			c.emit(RunErrorEvent{
				Kind:    classifyError(outcome.Error),
				Slug:    outcome.Slug,
				Message: outcome.Error.Error(),
			})
		}

		c.emit(PostCompletedEvent{
			Outcome:  outcome,
			Index:    i + 1,
			Total:    total,
			Duration: time.Since(postStart),
		})
	}

	result.Duration = time.Since(start)
	return result, nil
}

// convertPost runs the per-post pipeline. Any failure, including a panic
// from a pipeline stage, is converted into a failed outcome at this
// boundary so the loop in Run always advances.
func (c *Converter) convertPost(raw RawPost) (outcome ConversionOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = ConversionOutcome{
				Slug:   raw.Slug,
				Title:  raw.Title,
				Status: StatusFailed,
				Error:  fmt.Errorf("unexpected panic: %v", r),
			}
		}
	}()

	fail := func(err error) ConversionOutcome {
		return ConversionOutcome{Slug: raw.Slug, Title: raw.Title, Status: StatusFailed, Error: err}
	}

	post, err := extractPost(raw)
	if err != nil {
		return fail(err)
	}

	if err := validateSlug(post.Slug); err != nil {
		return fail(&WriteError{Path: post.Slug, Err: err})
	}

	outPath := filepath.Join(c.opts.OutputDir, c.layout.relPath(post.Slug))
	if c.opts.SkipExisting && c.layout.exists(c.opts.OutputDir, post.Slug) {
		return ConversionOutcome{
			Slug:       post.Slug,
			Title:      post.Title,
			Status:     StatusSkipped,
			OutputPath: outPath,
		}
	}

	body, err := c.cleaner.Clean(post.Body)
	if err != nil {
		return fail(fmt.Errorf("cleaning body: %w", err))
	}

	assetDir := c.layout.assetDir(c.opts.OutputDir, post.Slug)
	if err := os.MkdirAll(assetDir, 0755); err != nil {
		return fail(&WriteError{Path: assetDir, Err: err})
	}

	localized, err := c.localizer.Localize(body, c.layout.assetContext(c.opts.OutputDir, post.Slug))
	if err != nil {
		return fail(err)
	}

	for _, asset := range localized.Assets {
		c.emit(AssetProcessedEvent{
			Filename:  asset.Filename,
			Slug:      post.Slug,
			Success:   asset.Success,
			Permanent: asset.Permanent,
			Message:   asset.Message,
		})
	}

	frontmatter, err := buildFrontmatter(post)
	if err != nil {
		return fail(err)
	}

	written, err := writeDocument(c.opts.OutputDir, c.layout.relPath(post.Slug), frontmatter, localized.Body)
	if err != nil {
		return fail(err)
	}

	return ConversionOutcome{
		Slug:       post.Slug,
		Title:      post.Title,
		Status:     StatusConverted,
		OutputPath: written,
	}
}

// classifyError maps a pipeline error onto the reporting taxonomy using the
// typed errors the stages return.
func classifyError(err error) ErrorKind {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrorKindParse
	}
	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		return ErrorKindWrite
	}
	return ErrorKindFatal
}

func nestedLayout() layout {
	return layout{
		relPath: func(slug string) string {
			return filepath.Join(slug, "index.md")
		},
		exists: func(outDir, slug string) bool {
			return fileExists(filepath.Join(outDir, slug))
		},
		assetDir: func(outDir, slug string) string {
			return filepath.Join(outDir, slug)
		},
		assetContext: func(outDir, slug string) AssetContext {
			dir := filepath.Join(outDir, slug)
			return AssetContext{AssetDir: dir, PathPrefix: ".", MarkerDir: dir}
		},
	}
}

func flatLayout(imagesDir, imagePrefix string) layout {
	return layout{
		relPath: func(slug string) string {
			return slug + ".md"
		},
		exists: func(outDir, slug string) bool {
			return fileExists(filepath.Join(outDir, slug+".md"))
		},
		assetDir: func(outDir, slug string) string {
			return filepath.Join(outDir, imagesDir)
		},
		assetContext: func(outDir, slug string) AssetContext {
			dir := filepath.Join(outDir, imagesDir)
			return AssetContext{AssetDir: dir, PathPrefix: imagePrefix, MarkerDir: dir}
		},
	}
}
