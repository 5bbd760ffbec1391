package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// plainText is safe for concurrent use once built.
var plainText = bluemonday.StrictPolicy()

// cleanText strips markup from user-entered free text and trims it.
// Entities produced by the policy are unescaped so "R&D" is stored as typed.
func cleanText(value string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(value)))
}
