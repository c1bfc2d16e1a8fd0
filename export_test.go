package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	content := `{"posts": [{"slug": "a", "title": "A", "post_date": "2024-03-01", "body_markdown": "body"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	export, err := LoadExport(path)
	if err != nil {
		t.Fatalf("LoadExport() error = %v", err)
	}
	if len(export.Posts) != 1 || export.Posts[0].Slug != "a" {
		t.Errorf("export = %+v, want one post with slug a", export)
	}
}

func TestLoadExportFatalCases(t *testing.T) {
	dir := t.TempDir()

	badJSON := filepath.Join(dir, "bad.json")
	os.WriteFile(badJSON, []byte("{not json"), 0644)

	noPosts := filepath.Join(dir, "empty.json")
	os.WriteFile(noPosts, []byte(`{"posts": []}`), 0644)

	for _, path := range []string{
		filepath.Join(dir, "missing.json"),
		badJSON,
		noPosts,
	} {
		if _, err := LoadExport(path); err == nil {
			t.Errorf("LoadExport(%s) = nil error, want fatal error", path)
		}
	}
}
