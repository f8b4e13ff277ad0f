// Package sanitize provides text sanitization utilities for inbound email content.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// blockBreakRegex matches tags that imply a line break when flattened to text
	blockBreakRegex = regexp.MustCompile(`(?i)<\s*(?:br\s*/?|/p|/div|/tr)\s*>`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only
// processing. Block-level closers become newlines so line-oriented parsing of
// HTML email bodies still sees one field per line.
func StripHTML(s string) string {
	result := blockBreakRegex.ReplaceAllString(s, "\n")
	result = htmlTagRegex.ReplaceAllString(result, "")
	// Decode common HTML entities
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	result = strings.ReplaceAll(result, "&nbsp;", " ")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a string for safe text storage by stripping HTML.
func Text(s string) string {
	return StripHTML(s)
}
