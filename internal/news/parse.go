package news

import (
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
)

const maxSummaryRunes = 280

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// parseFeed decodes an RSS, Atom or JSON feed. feedURL names the source when
// the feed carries no title of its own.
func parseFeed(r io.Reader, feedURL string) ([]Item, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parser.Parse")
	}

	source := sourceName(feed.Title, feedURL)
	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}

		summary := it.Description
		if summary == "" {
			summary = it.Content
		}

		item := Item{
			Title:       cleanText(it.Title),
			Link:        itemLink(it),
			Source:      source,
			PublishedAt: publishedAt(it),
			Summary:     summarize(summary),
		}
		if item.Title == "" && item.Link == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func itemLink(it *gofeed.Item) string {
	if link := strings.TrimSpace(it.Link); link != "" {
		return link
	}
	for _, l := range it.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	if strings.HasPrefix(it.GUID, "http") {
		return strings.TrimSpace(it.GUID)
	}
	return ""
}

// publishedAt prefers the publish date and falls back to the update date.
// Undated items get the zero time.
func publishedAt(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return it.PublishedParsed.UTC()
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.UTC()
	}
	return time.Time{}
}

func sourceName(title, feedURL string) string {
	if t := cleanText(title); t != "" {
		return t
	}
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		return u.Host
	}
	return feedURL
}

func cleanText(s string) string {
	s = html.UnescapeString(tagPattern.ReplaceAllString(s, " "))
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func summarize(s string) string {
	s = cleanText(s)
	if utf8.RuneCountInString(s) <= maxSummaryRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxSummaryRunes])) + "…"
}

// dedupKey identifies an item by its normalized link, or by its title when
// the link is missing.
func dedupKey(it Item) string {
	if it.Link != "" {
		if u, err := url.Parse(it.Link); err == nil && u.Host != "" {
			u.Scheme = strings.ToLower(u.Scheme)
			u.Host = strings.ToLower(u.Host)
			u.Fragment = ""
			u.Path = strings.TrimSuffix(u.Path, "/")
			return "link:" + u.String()
		}
		return "link:" + strings.TrimSuffix(it.Link, "/")
	}
	return "title:" + strings.ToLower(it.Title)
}
