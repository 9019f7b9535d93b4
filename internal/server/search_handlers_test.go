package server

import (
	"net/http"
	"net/url"
	"testing"

	"inkwell/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAcrossTypes(t *testing.T) {
	s, app := newTestApp(t)
	_, token := createTestUser(t, s, "gopher-writer", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":     "Gopher Patterns",
		"content":   "Channels and pipelines.",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post postResponse
	decodeBody(t, resp, &post)

	resp = doJSON(t, app, http.MethodPost, "/api/posts/1/comments", token, map[string]any{
		"content": "A gopher comment on pipelines.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var body struct {
		Query   string                `json:"query"`
		Results service.SearchResults `json:"results"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/search?q=gopher", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "gopher", body.Query)
	assert.EqualValues(t, 1, body.Results.PostsTotal)
	require.Len(t, body.Results.Users, 1)
	assert.Equal(t, "gopher-writer", body.Results.Users[0].Username)
	assert.EqualValues(t, 1, body.Results.CommentsTotal)

	// Restricting the type drops the other result sets.
	resp = doJSON(t, app, http.MethodGet, "/api/search?q=gopher&type=users", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Results.Posts)
	assert.Len(t, body.Results.Users, 1)
}

func TestSearchRequiresQuery(t *testing.T) {
	_, app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/search?q=x&dateFrom=yesterday", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSearchSuggestions(t *testing.T) {
	s, app := newTestApp(t)
	_, token := createTestUser(t, s, "suggester", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":     "Graceful Shutdown",
		"content":   "Draining connections.",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Graph Theory",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/search/suggestions?q="+url.QueryEscape("gra"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, []string{"Graceful Shutdown", "Graph Theory"}, body.Suggestions)
}
