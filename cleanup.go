package main

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Selectors for Substack chrome that has no place in a portable document.
var strippedSelectors = []string{
	".subscription-widget-wrap",
	".subscription-widget",
	".button-wrapper",
	".poll-embed",
	".image-link-expand",
	"div.digest-post-embed",
}

var (
	zeroWidthRe  = regexp.MustCompile("[\u200b\u200c\u200d\ufeff]")
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	htmlTagRe    = regexp.MustCompile(`(?s)<(p|div|h[1-6]|img|figure|ul|ol|a|br|blockquote)\b[^>]*>`)
)

// BodyCleaner normalizes an exported post body into plain markdown. HTML
// bodies are stripped of widget chrome and converted; markdown bodies pass
// through with whitespace normalization only. Pure transformation: image
// reference syntax comes out as standard markdown images so the localizer
// can match them.
type BodyCleaner struct {
	converter *md.Converter
}

// NewBodyCleaner creates a cleaner with the default HTML-to-markdown converter.
func NewBodyCleaner() *BodyCleaner {
	return &BodyCleaner{converter: md.NewConverter("", true, nil)}
}

// Clean returns the cleaned markdown body.
func (c *BodyCleaner) Clean(body string) (string, error) {
	if looksLikeHTML(body) {
		stripped, err := stripChrome(body)
		if err != nil {
			return "", fmt.Errorf("stripping widget markup: %w", err)
		}

		markdown, err := c.converter.ConvertString(stripped)
		if err != nil {
			return "", fmt.Errorf("converting HTML to markdown: %w", err)
		}
		body = markdown
	}

	return normalizeMarkdown(body), nil
}

// looksLikeHTML reports whether the body is an HTML fragment rather than
// markdown. Substack exports ship HTML bodies; a markdown body never opens
// block-level tags.
func looksLikeHTML(body string) bool {
	return htmlTagRe.MatchString(body)
}

func stripChrome(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, sel := range strippedSelectors {
		doc.Find(sel).Remove()
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return out, nil
}

func normalizeMarkdown(body string) string {
	body = zeroWidthRe.ReplaceAllString(body, "")
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = blankLinesRe.ReplaceAllString(body, "\n\n")
	return strings.TrimSpace(body) + "\n"
}
