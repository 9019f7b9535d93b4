package server

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapListsOnlyPublishedPosts(t *testing.T) {
	s, app := newTestApp(t)
	_, token := createTestUser(t, s, "mapper", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":     "Public Entry",
		"content":   "Visible to crawlers.",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":   "Hidden Draft",
		"content": "Not ready yet.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Crawlable",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	body := string(raw)
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, "/posts/public-entry")
	assert.Contains(t, body, "/categories/crawlable")
	assert.NotContains(t, body, "hidden-draft")
}
