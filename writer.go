package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// validateSlug rejects slugs that could escape the output directory.
func validateSlug(slug string) error {
	switch {
	case slug == "":
		return fmt.Errorf("slug is empty")
	case filepath.IsAbs(slug):
		return fmt.Errorf("slug %q is an absolute path", slug)
	case strings.ContainsAny(slug, `/\`):
		return fmt.Errorf("slug %q contains a path separator", slug)
	case slug == "." || slug == ".." || strings.Contains(slug, ".."):
		return fmt.Errorf("slug %q traverses directories", slug)
	}
	return nil
}

// writeDocument writes frontmatter plus body to relPath under outDir,
// creating parent directories as needed. The write goes through a temp file
// in the same directory and a rename, so a crash mid-write cannot leave a
// half-written file that passes the exists check.
func writeDocument(outDir, relPath, frontmatter, body string) (string, error) {
	outPath := filepath.Join(outDir, relPath)

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &WriteError{Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".blog2md-*.tmp")
	if err != nil {
		return "", &WriteError{Path: outPath, Err: err}
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(frontmatter + "\n" + body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err == nil {
		err = os.Rename(tmpName, outPath)
	}
	if err != nil {
		os.Remove(tmpName)
		return "", &WriteError{Path: outPath, Err: err}
	}

	return outPath, nil
}

// fileExists checks if a file or directory already exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
