package cache

import (
	"context"
	"fmt"
	"time"
)

// Post detail pages are deliberately uncached: every fetch increments the
// view counter, so a cached payload would serve stale counts.
const (
	PostsListKey      = "posts:list"
	CategoriesListKey = "categories:list"
	NewsPrefix        = "external:news:%s"
	WikipediaPrefix   = "external:wiki:%s"
	SitemapKey        = "sitemap:xml"
)

const (
	ListTTL       = 1 * time.Minute
	CategoriesTTL = 10 * time.Minute
	ExternalTTL   = 5 * time.Minute
	SitemapTTL    = 30 * time.Minute
)

func NewsKey(category string) string {
	return fmt.Sprintf(NewsPrefix, category)
}

func WikipediaKey(topic string) string {
	return fmt.Sprintf(WikipediaPrefix, topic)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidatePostLists drops the list pages and the sitemap after a post
// mutation.
func InvalidatePostLists(ctx context.Context) {
	Invalidate(ctx, PostsListKey, SitemapKey)
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesListKey)
}
