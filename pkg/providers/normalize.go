package providers

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
)

// UnknownSource is used when a provider omits the source name.
const UnknownSource = "Unknown"

// Normalize maps raw provider articles to canonical articles, one-to-one and
// in order. Nothing is dropped or deduplicated.
func Normalize(raw []RawArticle) []domain.Article {
	out := make([]domain.Article, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeArticle(r))
	}
	return out
}

// NormalizeArticle maps a single raw article using first-available field priority.
func NormalizeArticle(r RawArticle) domain.Article {
	source := strings.TrimSpace(r.Source.Name)
	if source == "" {
		source = UnknownSource
	}

	return domain.Article{
		Title:       htmlToText(r.Title),
		Description: firstNonEmpty(htmlToText(r.Description), htmlToText(r.Snippet)),
		ImageURL:    firstNonEmpty(r.URLToImage, r.ImageURL),
		URL:         strings.TrimSpace(r.URL),
		Author:      firstNonEmpty(r.Author, source),
		PublishedAt: firstNonEmpty(r.PublishedAt, r.Published),
		SourceName:  source,
	}
}

// htmlToText reduces markup some providers leave in titles and snippets to
// plain text with collapsed whitespace. Text without a recognised HTML
// element, such as "x<y", only has its entities unescaped.
func htmlToText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil || !hasKnownElement(doc) {
		return html.UnescapeString(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// hasKnownElement reports whether the parsed body holds a standard HTML
// element. Unknown tags come from stray '<' in plain text.
func hasKnownElement(doc *goquery.Document) bool {
	found := false
	doc.Find("body *").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if n := sel.Get(0); n != nil && n.DataAtom != 0 {
			found = true
		}
		return !found
	})
	return found
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
