package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterFields keeps the emitted YAML keys in a stable order so reruns
// produce byte-identical documents.
type frontmatterFields struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description,omitempty"`
	Cover       string   `yaml:"cover,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Draft       bool     `yaml:"draft"`
}

// buildFrontmatter renders the YAML frontmatter block for a post. Pure
// function, no side effects.
func buildFrontmatter(post Post) (string, error) {
	fields := frontmatterFields{
		Title:       post.Title,
		Slug:        post.Slug,
		Date:        post.Date.Format("2006-01-02T15:04:05Z07:00"),
		Description: post.Description,
		Cover:       post.CoverURL,
		Tags:        post.Tags,
	}

	data, err := yaml.Marshal(&fields)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n")
	return b.String(), nil
}
