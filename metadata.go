package main

import (
	"errors"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing post_date. Substack exports
// use RFC 3339; hand-edited exports sometimes carry a bare date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// extractPost validates a raw export entry and builds the immutable Post
// the rest of the pipeline works with.
func extractPost(raw RawPost) (Post, error) {
	slug := strings.TrimSpace(raw.Slug)
	if slug == "" {
		return Post{}, &ParseError{Field: "slug", Reason: "is missing or empty"}
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return Post{}, &ParseError{Field: "title", Reason: "is missing or empty"}
	}

	body := raw.BodyMarkdown
	if strings.TrimSpace(body) == "" {
		body = raw.BodyHTML
	}
	if strings.TrimSpace(body) == "" {
		return Post{}, &ParseError{Field: "body", Reason: "is missing or empty"}
	}

	date, err := parsePostDate(raw.PostDate)
	if err != nil {
		return Post{}, &ParseError{Field: "post_date", Reason: err.Error()}
	}

	return Post{
		Slug:        slug,
		Title:       title,
		Date:        date,
		Description: strings.TrimSpace(raw.Description),
		Body:        body,
		CoverURL:    strings.TrimSpace(raw.CoverImage),
		Tags:        raw.Tags,
	}, nil
}

func parsePostDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("is missing or empty")
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
