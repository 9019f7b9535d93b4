package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postResponse struct {
	ID         uint             `json:"id"`
	Title      string           `json:"title"`
	Slug       string           `json:"slug"`
	Excerpt    string           `json:"excerpt"`
	CategoryID *uint            `json:"category_id"`
	Category   *models.Category `json:"category"`
	Published  bool             `json:"published"`
	Views      int              `json:"views"`
	LikesCount int              `json:"likes_count"`
	Liked      bool             `json:"liked"`
}

func TestPostLifecycle(t *testing.T) {
	s, app := newTestApp(t)
	_, token := createTestUser(t, s, "author", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":     "Hello, World! (Draft #2)",
		"content":   "A body worth reading.",
		"published": true,
		"tags":      []string{"go", "fiber"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created postResponse
	decodeBody(t, resp, &created)
	assert.Equal(t, "hello-world-draft-2", created.Slug)

	// Fetching by slug bumps the view counter each time.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/hello-world-draft-2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched postResponse
	decodeBody(t, resp, &fetched)
	assert.Equal(t, 1, fetched.Views)

	resp = doJSON(t, app, http.MethodGet, "/api/posts/hello-world-draft-2", "", nil)
	decodeBody(t, resp, &fetched)
	assert.Equal(t, 2, fetched.Views)

	// A second post with a colliding slug is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":   "Hello, World! (Draft #2)",
		"content": "Different content, same title.",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDraftVisibility(t *testing.T) {
	s, app := newTestApp(t)
	_, authorToken := createTestUser(t, s, "drafter", "user")
	_, strangerToken := createTestUser(t, s, "stranger", "user")
	_, adminToken := createTestUser(t, s, "moderator", "admin")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", authorToken, map[string]any{
		"title":   "Unfinished Thoughts",
		"content": "Not ready yet.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Anonymous readers and other users get a 404, not a 403, so drafts do
	// not leak their existence.
	for name, token := range map[string]string{
		"anonymous": "",
		"stranger":  strangerToken,
	} {
		t.Run(name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodGet, "/api/posts/unfinished-thoughts", token, nil)
			_ = resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}

	for name, token := range map[string]string{
		"author": authorToken,
		"admin":  adminToken,
	} {
		t.Run(name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodGet, "/api/posts/unfinished-thoughts", token, nil)
			_ = resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}

	// Drafts are excluded from the public listing.
	resp = doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	var list struct {
		Posts []postResponse `json:"posts"`
	}
	decodeBody(t, resp, &list)
	assert.Empty(t, list.Posts)
}

func TestUpdatePostAuthorization(t *testing.T) {
	s, app := newTestApp(t)
	_, authorToken := createTestUser(t, s, "owner", "user")
	_, strangerToken := createTestUser(t, s, "intruder", "user")
	_, adminToken := createTestUser(t, s, "sitemod", "admin")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", authorToken, map[string]any{
		"title":     "Original Title",
		"content":   "Original content.",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created postResponse
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, http.MethodPut, "/api/posts/1", strangerToken, map[string]any{
		"title": "Hijacked",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admins can edit any post; a title change re-derives the slug.
	resp = doJSON(t, app, http.MethodPut, "/api/posts/1", adminToken, map[string]any{
		"title": "Moderated Title",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated postResponse
	decodeBody(t, resp, &updated)
	assert.Equal(t, "moderated-title", updated.Slug)
}

func TestDeletePostAuthorization(t *testing.T) {
	s, app := newTestApp(t)
	_, authorToken := createTestUser(t, s, "deleter", "user")
	_, strangerToken := createTestUser(t, s, "bystander", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", authorToken, map[string]any{
		"title":     "Doomed Post",
		"content":   "Soon gone.",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/posts/1", strangerToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/posts/1", authorToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/posts/doomed-post", authorToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTogglePostLikeInvolution(t *testing.T) {
	s, app := newTestApp(t)
	_, authorToken := createTestUser(t, s, "likeauthor", "user")
	_, readerToken := createTestUser(t, s, "reader", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", authorToken, map[string]any{
		"title":     "Likeable",
		"content":   "Like me twice.",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var like struct {
		Likes int  `json:"likes"`
		Liked bool `json:"liked"`
	}

	resp = doJSON(t, app, http.MethodPost, "/api/posts/1/like", readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &like)
	assert.True(t, like.Liked)
	assert.Equal(t, 1, like.Likes)

	// The second toggle restores the original state.
	resp = doJSON(t, app, http.MethodPost, "/api/posts/1/like", readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &like)
	assert.False(t, like.Liked)
	assert.Equal(t, 0, like.Likes)

	var count int64
	require.NoError(t, s.db.Model(&models.PostLike{}).Count(&count).Error)
	assert.Zero(t, count)
}
