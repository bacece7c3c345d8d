package watcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxExcerptRunes = 280

// Excerpt renders a post body as plain text for event consumers: markup is
// stripped, whitespace collapsed, and the result capped at 280 runes.
func Excerpt(body string) string {
	text := body
	if strings.ContainsAny(body, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxExcerptRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:maxExcerptRunes-1])) + "…"
}
