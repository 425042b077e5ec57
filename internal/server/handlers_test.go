package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/geetanjali/internal/config"
	"github.com/vnykmshr/geetanjali/internal/moderation"
)

// testServer builds a server without a database connection. Handlers
// that reject before touching storage are fully exercisable this way.
func testServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := &config.Config{
		Port:                 8080,
		ContentFilterEnabled: true,
		BlocklistEnabled:     true,
	}
	s := New(cfg, nil)
	t.Cleanup(func() { s.rateLimiter.Stop() })
	return s
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:51000"
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateCase_InvalidJSON(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, "POST", "/cases", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCase_ValidationFailures(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"description": "A long enough dilemma description.", "session_id": "s1"}`},
		{name: "short description", body: `{"title": "Dilemma", "description": "short", "session_id": "s1"}`},
		{name: "title too long", body: `{"title": "` + strings.Repeat("x", 300) + `", "description": "A long enough dilemma description.", "session_id": "s1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, "POST", "/cases", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateCase_OwnershipInvariant(t *testing.T) {
	s := testServer(t)

	t.Run("no owner", func(t *testing.T) {
		rec := doRequest(s, "POST", "/cases",
			`{"title": "Dilemma", "description": "A long enough dilemma description."}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("both owners", func(t *testing.T) {
		rec := doRequest(s, "POST", "/cases",
			`{"title": "Dilemma", "description": "A long enough dilemma description.",
			  "session_id": "s1", "user_id": "7b7f5c2e-58a8-4f0e-9d35-8c1e1a2b3c4d"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateCase_BlockedContent(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, "POST", "/cases",
		`{"title": "Dilemma", "description": "fuck you and everyone involved here", "session_id": "s1"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "content_blocked", body["error"])
	assert.Equal(t, moderation.BlockedMessage, body["message"])
	assert.Equal(t, "explicit_violence", body["violation_type"])
}

func TestCreateMessage_BlockedContent(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, "POST", "/cases/7b7f5c2e-58a8-4f0e-9d35-8c1e1a2b3c4d/messages",
		`{"content": "buy now at https://spam.example"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "spam_gibberish", body["violation_type"])
}

func TestInvalidIDs(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "get case", method: "GET", path: "/cases/not-a-uuid"},
		{name: "delete case", method: "DELETE", path: "/cases/not-a-uuid"},
		{name: "retry case", method: "POST", path: "/cases/not-a-uuid/retry"},
		{name: "case output", method: "GET", path: "/cases/not-a-uuid/output"},
		{name: "get user", method: "GET", path: "/users/not-a-uuid"},
		{name: "verse id", method: "GET", path: "/verses/abc"},
		{name: "chapter too high", method: "GET", path: "/chapters/19/verses"},
		{name: "chapter not a number", method: "GET", path: "/chapters/two/verses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestNewsletter_InvalidEmail(t *testing.T) {
	s := testServer(t)

	for _, path := range []string{"/newsletter/subscribe", "/newsletter/unsubscribe"} {
		rec := doRequest(s, "POST", path, `{"email": "not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, "POST", "/users", `{"email": "nope", "name": "A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, "OPTIONS", "/cases", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_CaseCreation(t *testing.T) {
	// Rate limiting on: POST /cases allows a burst of 3, then 429.
	cfg := &config.Config{
		Port:                 8080,
		ContentFilterEnabled: true,
		BlocklistEnabled:     true,
	}
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	s := New(cfg, nil)
	t.Cleanup(func() { s.rateLimiter.Stop() })

	// Invalid bodies keep requests away from the (absent) database while
	// still passing through the limiter.
	for i := 0; i < 3; i++ {
		rec := doRequest(s, "POST", "/cases", "{}")
		require.Equal(t, http.StatusBadRequest, rec.Code, "request %d within burst", i)
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := doRequest(s, "POST", "/cases", "{}")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	body := decodeBody(t, rec)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
}
