package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// RawPost mirrors one entry of the export's posts array. Field names follow
// the Substack export vocabulary; BodyMarkdown wins over BodyHTML when both
// are present.
type RawPost struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	PostDate     string   `json:"post_date"`
	Description  string   `json:"description"`
	BodyHTML     string   `json:"body_html"`
	BodyMarkdown string   `json:"body_markdown"`
	CoverImage   string   `json:"cover_image"`
	Tags         []string `json:"tags"`
}

// Export is the top-level shape of the export file.
type Export struct {
	Posts []RawPost `json:"posts"`
}

// LoadExport reads and decodes the export file. Any failure here is
// run-fatal: the converter aborts before touching a single post.
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file %s: %w", path, err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing export JSON: %w", err)
	}

	if len(export.Posts) == 0 {
		return nil, fmt.Errorf("export file %s contains no posts", path)
	}

	return &export, nil
}
