package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsletterSubscribeFlow(t *testing.T) {
	s, app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/newsletter/subscribe", "", map[string]any{
		"email": "Reader@Example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Addresses are normalized before storage.
	var sub models.Subscriber
	require.NoError(t, s.db.First(&sub).Error)
	assert.Equal(t, "reader@example.com", sub.Email)

	for _, email := range []string{"reader@example.com", "READER@example.com"} {
		resp = doJSON(t, app, http.MethodPost, "/api/newsletter/subscribe", "", map[string]any{
			"email": email,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp = doJSON(t, app, http.MethodPost, "/api/newsletter/unsubscribe", "", map[string]any{
		"email": "reader@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var count int64
	require.NoError(t, s.db.Model(&models.Subscriber{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewsletterSubscribeRejectsBadEmail(t *testing.T) {
	_, app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/newsletter/subscribe", "", map[string]any{
		"email": "not-an-address",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestNewsletterAdminEndpoints(t *testing.T) {
	s, app := newTestApp(t)
	_, userToken := createTestUser(t, s, "plainuser", "user")
	_, adminToken := createTestUser(t, s, "moderator", "admin")

	resp := doJSON(t, app, http.MethodGet, "/api/newsletter/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/newsletter/subscribe", "", map[string]any{
		"email": "fan@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var stats struct {
		Subscribers int64 `json:"subscribers"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/newsletter/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &stats)
	assert.EqualValues(t, 1, stats.Subscribers)

	// SMTP is unconfigured in tests, so digests are rejected up front.
	resp = doJSON(t, app, http.MethodPost, "/api/newsletter/digest", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}
