package chunking

import (
	"regexp"
	"strings"
)

// Boilerplate and navigation artifacts stripped from scraped pages before
// chunking. Matching is case-insensitive and token-bounded so prose words
// containing these fragments survive.
var (
	navTokenRe   = regexp.MustCompile(`(?i)\b(home|navigation|menu|search|login|register)\b`)
	tocRe        = regexp.MustCompile(`(?i)table of contents?`)
	skipLinkRe   = regexp.MustCompile(`(?i)skip to (main )?content`)
	paragraphRe  = regexp.MustCompile(`\n[ \t]*\n\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize cleans raw scraped text: navigation boilerplate is removed,
// whitespace runs collapse to single spaces, and paragraph breaks collapse
// to exactly one blank line. Total over any input, including empty.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	text = navTokenRe.ReplaceAllString(text, "")
	text = tocRe.ReplaceAllString(text, "")
	text = skipLinkRe.ReplaceAllString(text, "")

	paragraphs := paragraphRe.Split(text, -1)
	cleaned := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(whitespaceRe.ReplaceAllString(p, " "))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}

	return strings.Join(cleaned, "\n\n")
}
