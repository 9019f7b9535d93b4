package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	s, app := newTestApp(t)
	_, token := createTestUser(t, s, "curator", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/categories", token, map[string]any{
		"name":        "Distributed Systems",
		"description": "Consensus and queues",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Category
	decodeBody(t, resp, &created)
	assert.Equal(t, "distributed-systems", created.Slug)
	assert.Equal(t, models.DefaultCategoryColor, created.Color)

	// Same name again collides on the slug.
	resp = doJSON(t, app, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Distributed Systems!",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/categories/distributed-systems", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var list struct {
		Categories []models.Category `json:"categories"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/categories", "", nil)
	decodeBody(t, resp, &list)
	require.Len(t, list.Categories, 1)
}

func TestDeleteCategoryLeavesDanglingReference(t *testing.T) {
	s, app := newTestApp(t)
	_, token := createTestUser(t, s, "taxonomist", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Ephemeral",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	decodeBody(t, resp, &category)

	resp = doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":       "Categorized Post",
		"content":     "Filed under Ephemeral.",
		"category_id": category.ID,
		"published":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/categories/1", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// The post survives with its category_id dangling; the category itself
	// no longer resolves.
	var fetched postResponse
	resp = doJSON(t, app, http.MethodGet, "/api/posts/categorized-post", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &fetched)
	require.NotNil(t, fetched.CategoryID)
	assert.Equal(t, category.ID, *fetched.CategoryID)
	assert.Nil(t, fetched.Category)

	var count int64
	require.NoError(t, s.db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}
