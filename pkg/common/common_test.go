package common

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPaginationParams(t *testing.T) {
	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, PageSize: 20}},
		{"page=3&page_size=5", PaginationParams{Page: 3, PageSize: 5}},
		{"page=-1&page_size=abc", PaginationParams{Page: 1, PageSize: 20}},
		{"page_size=500", PaginationParams{Page: 1, PageSize: 100}},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		assert.Equal(t, tt.want, ExtractPaginationParams(r), tt.query)
	}
}

func TestPaginationWindow(t *testing.T) {
	p := PaginationParams{Page: 2, PageSize: 3}
	start, end := p.Window(7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	start, end = PaginationParams{Page: 4, PageSize: 3}.Window(7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)

	meta := BuildPaginationMeta(2, 3, 7)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]string{"id": "node-0"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "node-0", body.Data["id"])
}

func TestParseJSONBodyRejectsUnknownFields(t *testing.T) {
	var v struct {
		Color string `json:"color"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"color":"#FFFFFF","extra":1}`))
	assert.Error(t, ParseJSONBody(httptest.NewRecorder(), r, &v, 1024))
}

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "from-header")
	assert.Equal(t, "from-header", ExtractRequestID(r))

	r = r.WithContext(WithRequestID(context.Background(), "from-context"))
	assert.Equal(t, "from-context", ExtractRequestID(r))
}
