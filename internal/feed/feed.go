// Package feed exposes the cached payload as an RSS feed.
package feed

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/gorilla/feeds"
	"github.com/tkilaker/magazine/internal/cache"
	"github.com/tkilaker/magazine/internal/config"
	"github.com/tkilaker/magazine/internal/magazine"
	"github.com/tkilaker/magazine/internal/sanitize"
)

const maxDescription = 500

// pubdateLayouts are the display formats the API has been seen to use
var pubdateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	time.RFC3339,
}

// Generate builds an RSS 2.0 document from a cached record
func Generate(rec *cache.Record, cfg *config.Config) (string, error) {
	if rec == nil || rec.Data == nil {
		return "", fmt.Errorf("no cached payload")
	}
	fetched := rec.FetchedAt()

	feed := &feeds.Feed{
		Title:       cfg.FeedTitle,
		Link:        &feeds.Link{Href: cfg.FeedLink},
		Description: firstNonEmpty(rec.Data.Tagline, cfg.FeedDescription),
		Author:      &feeds.Author{Name: cfg.FeedAuthor},
		Created:     fetched,
	}

	feed.Items = make([]*feeds.Item, 0, len(rec.Data.Articles))
	for i, article := range rec.Data.Articles {
		item := &feeds.Item{
			Title:       firstNonEmpty(article.Title, "Untitled Article"),
			Link:        &feeds.Link{Href: cfg.FeedLink},
			Id:          fmt.Sprintf("%s#entry-%d", cfg.FeedLink, i+1),
			Description: truncate(plainText(article.Article, cfg.FeedLink), maxDescription),
			Content:     itemContent(article),
			Created:     parsePubdate(article.Pubdate, fetched),
		}
		if article.Author != "" {
			item.Author = &feeds.Author{Name: article.Author}
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}
	return rss, nil
}

// itemContent is the escaped entry markup carried in content:encoded
func itemContent(a magazine.Article) string {
	return `<p class="entry-meta">By ` + sanitize.HTML(a.Author) + ` in ` + sanitize.HTML(a.Category) + `</p>` +
		`<div class="entry-content">` + sanitize.HTML(a.Article) + `</div>`
}

// plainText reduces article markup to readable text, falling back to the
// raw body when extraction finds nothing.
func plainText(body, link string) string {
	if !strings.ContainsAny(body, "<&") {
		return strings.TrimSpace(body)
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		pageURL = &url.URL{}
	}
	doc := "<html><body><article>" + body + "</article></body></html>"
	parsed, err := readability.FromReader(strings.NewReader(doc), pageURL)
	if err != nil {
		return strings.TrimSpace(body)
	}
	text := strings.Join(strings.Fields(parsed.TextContent), " ")
	if text == "" {
		return strings.TrimSpace(body)
	}
	return text
}

func parsePubdate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range pubdateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
