package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer()
	require.NoError(t, err)
	return server
}

func TestHandleIndex(t *testing.T) {
	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a-lang playground")
}

func TestHandleParseForm(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{"source": {"x : int = 40 - 2;"}}
	req := httptest.NewRequest("POST", "/parse", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "x: int = 40 - 2;")
	assert.Contains(t, rec.Body.String(), "Canonical form")
}

func TestHandleParseFormEscapesHTML(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{"source": {"x : int = 40 + 2;"}}
	req := httptest.NewRequest("POST", "/parse", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// html/template escapes "+" in element content.
	assert.Contains(t, rec.Body.String(), "x: int = 40 &#43; 2;")
	assert.NotContains(t, rec.Body.String(), "x: int = 40 + 2;")
}

func TestHandleParseJSON(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("POST", "/parse", strings.NewReader(`{"source": "x : int = ;"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var data PlaygroundData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Contains(t, data.Error, "syntax error")
	assert.Empty(t, data.Canonical)
}
