// Package external fetches third-party content for the aggregation
// endpoints: RSS news feeds and Wikipedia search.
package external

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"inkwell/internal/observability"

	"github.com/mmcdole/gofeed"
)

// NewsArticle is one aggregated headline.
type NewsArticle struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Image       string     `json:"image,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Source      string     `json:"source"`
	Author      string     `json:"author,omitempty"`
}

// DefaultNewsFeeds are the sources polled when no explicit category mapping
// matches.
var DefaultNewsFeeds = map[string][]string{
	"technology": {
		"https://hnrss.org/frontpage",
		"https://feeds.arstechnica.com/arstechnica/technology-lab",
	},
	"science": {
		"https://www.sciencedaily.com/rss/top/science.xml",
	},
	"general": {
		"https://feeds.bbci.co.uk/news/rss.xml",
	},
}

type NewsFetcher struct {
	parser *gofeed.Parser
	feeds  map[string][]string
}

func NewNewsFetcher() *NewsFetcher {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	parser := gofeed.NewParser()
	parser.Client = httpClient

	return &NewsFetcher{
		parser: parser,
		feeds:  DefaultNewsFeeds,
	}
}

// Fetch pulls headlines for a category. Feeds that fail are skipped so one
// dead source never empties the response.
func (f *NewsFetcher) Fetch(ctx context.Context, category string, limit int) []NewsArticle {
	urls, ok := f.feeds[category]
	if !ok {
		urls = f.feeds["technology"]
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var articles []NewsArticle
	for _, url := range urls {
		feed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			observability.ExternalFetchesTotal.WithLabelValues("news", "error").Inc()
			slog.Warn("news feed fetch failed", "url", url, "error", err)
			continue
		}
		observability.ExternalFetchesTotal.WithLabelValues("news", "ok").Inc()

		for _, item := range feed.Items {
			published := item.PublishedParsed
			if published == nil {
				published = item.UpdatedParsed
			}
			image := ""
			if item.Image != nil {
				image = item.Image.URL
			}
			author := ""
			if len(item.Authors) > 0 {
				author = item.Authors[0].Name
			}
			articles = append(articles, NewsArticle{
				Title:       item.Title,
				Description: stripHTML(item.Description),
				URL:         item.Link,
				Image:       image,
				PublishedAt: published,
				Source:      feed.Title,
				Author:      author,
			})
		}
	}

	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].PublishedAt, articles[j].PublishedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})

	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}
