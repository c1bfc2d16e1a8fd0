package main

import (
	"os"
	"path/filepath"
)

// Markers are the durable memory that makes reruns idempotent: one small
// file per attempted asset, kept in a hidden subdirectory next to the assets
// themselves so every output location carries its own history.
const (
	markerDirName   = ".markers"
	markerExt       = ".marker"
	permanentSuffix = ".permanent"
)

// MarkerStatus is the decision Status returns for one asset filename.
type MarkerStatus int

const (
	// MarkerAttempt means never tried, or a prior transient failure: fetch it.
	MarkerAttempt MarkerStatus = iota
	// MarkerSkipSuccess means the asset is already on disk with a success marker.
	MarkerSkipSuccess
	// MarkerSkipPermanent means a prior attempt failed permanently: never retry.
	MarkerSkipPermanent
)

// MarkerStore reads and writes fetch-outcome markers for one directory.
type MarkerStore struct {
	assetDir  string
	markerDir string
}

// NewMarkerStore creates a store for assets in assetDir with markers kept
// under markerDir/.markers. markerDir is usually assetDir; the flat layout
// points many documents at one shared directory.
func NewMarkerStore(assetDir, markerDir string) *MarkerStore {
	if markerDir == "" {
		markerDir = assetDir
	}
	return &MarkerStore{
		assetDir:  assetDir,
		markerDir: filepath.Join(markerDir, markerDirName),
	}
}

// Status decides what to do with filename: skip it as done, skip it as
// permanently failed, or attempt a fetch. A non-empty marker without the
// permanent suffix is a prior transient failure and falls through to
// MarkerAttempt.
func (s *MarkerStore) Status(filename string) MarkerStatus {
	info, err := os.Stat(s.markerPath(filename))
	if err == nil && !info.IsDir() && info.Size() == 0 &&
		fileExists(filepath.Join(s.assetDir, filename)) {
		return MarkerSkipSuccess
	}

	if info, err := os.Stat(s.permanentPath(filename)); err == nil && !info.IsDir() {
		return MarkerSkipPermanent
	}

	// Never tried, a prior transient failure, or a success marker whose
	// asset file has been deleted out from under us: fetch it.
	return MarkerAttempt
}

// Record persists the outcome of a fetch attempt. Success writes an empty
// marker (truncating any previous transient one); a permanent failure gets
// the suffixed variant with the error text; a transient failure writes the
// error text into the plain marker so the next run retries it.
func (s *MarkerStore) Record(filename string, outcome DownloadOutcome) error {
	if err := os.MkdirAll(s.markerDir, 0755); err != nil {
		return &WriteError{Path: s.markerDir, Err: err}
	}

	var path string
	var content []byte
	switch {
	case outcome.Success:
		path = s.markerPath(filename)
	case outcome.Permanent:
		path = s.permanentPath(filename)
		content = []byte(outcome.Err.Error())
	default:
		path = s.markerPath(filename)
		content = []byte(outcome.Err.Error())
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func (s *MarkerStore) markerPath(filename string) string {
	return filepath.Join(s.markerDir, filename+markerExt)
}

func (s *MarkerStore) permanentPath(filename string) string {
	return filepath.Join(s.markerDir, filename+markerExt+permanentSuffix)
}
