package external

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"inkwell/internal/observability"
)

const wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"

// WikiArticle is one Wikipedia search hit.
type WikiArticle struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type WikipediaClient struct {
	httpClient *http.Client
	userAgent  string
}

func NewWikipediaClient() *WikipediaClient {
	return &WikipediaClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "Inkwell/1.0 (blog aggregation)",
	}
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			PageID  int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

// Search queries the Wikipedia search API. Upstream failures return the
// static fallback set instead of an error, matching the aggregation
// endpoints' degrade-gracefully contract.
func (c *WikipediaClient) Search(ctx context.Context, query string) []WikiArticle {
	if strings.TrimSpace(query) == "" {
		query = "Artificial Intelligence"
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("format", "json")
	params.Set("srlimit", "5")
	params.Set("redirects", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fallbackWikiArticles
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ExternalFetchesTotal.WithLabelValues("wikipedia", "error").Inc()
		slog.Warn("wikipedia search failed", "query", query, "error", err)
		return fallbackWikiArticles
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.ExternalFetchesTotal.WithLabelValues("wikipedia", "error").Inc()
		return fallbackWikiArticles
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fallbackWikiArticles
	}

	var parsed wikiSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		slog.Warn("wikipedia response decode failed", "error", err)
		return fallbackWikiArticles
	}
	observability.ExternalFetchesTotal.WithLabelValues("wikipedia", "ok").Inc()

	articles := make([]WikiArticle, 0, len(parsed.Query.Search))
	for _, hit := range parsed.Query.Search {
		snippet := stripHTML(hit.Snippet)
		extract := snippet
		if extract == "" {
			extract = "No excerpt available"
		}
		articles = append(articles, WikiArticle{
			Title:   hit.Title,
			Extract: extract,
			URL:     fmt.Sprintf("https://en.wikipedia.org/?curid=%d", hit.PageID),
			Snippet: snippet,
		})
	}
	return articles
}

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup and decodes entities from upstream snippets.
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagRegex.ReplaceAllString(s, "")))
}

var fallbackWikiArticles = []WikiArticle{
	{
		Title:   "Artificial Intelligence",
		Extract: "Artificial intelligence (AI) is intelligence demonstrated by machines, in contrast to the natural intelligence displayed by humans and animals.",
		URL:     "https://en.wikipedia.org/wiki/Artificial_intelligence",
		Snippet: "AI is transforming how we interact with technology.",
	},
	{
		Title:   "Machine Learning",
		Extract: "Machine learning is a branch of artificial intelligence that focuses on the use of data and algorithms to imitate the way that humans learn.",
		URL:     "https://en.wikipedia.org/wiki/Machine_learning",
		Snippet: "ML enables computers to learn and improve from experience.",
	},
	{
		Title:   "Technology",
		Extract: "Technology is the sum of techniques, skills, methods, and processes used in the production of goods or services.",
		URL:     "https://en.wikipedia.org/wiki/Technology",
		Snippet: "Technology continues to shape our modern world.",
	},
}
