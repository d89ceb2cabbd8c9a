package rest_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrastboard/infrastructure/config"
	"contrastboard/infrastructure/di"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		RequestID  string `json:"requestId"`
		Pagination *struct {
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type errorBody struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

type commandResult struct {
	BoardID   string `json:"boardId"`
	Changed   bool   `json:"changed"`
	NodeID    string `json:"nodeId"`
	Undone    string `json:"undone"`
	UndoDepth int    `json:"undoDepth"`
	Import    *struct {
		Added   []string `json:"added"`
		Palette []string `json:"palette"`
	} `json:"import"`
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LogLevel = "error"
	container, cleanup, err := di.InitializeContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return container.Handler
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func data[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.True(t, env.Success, rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func failure(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const board = "/api/v1/boards/default"

func TestBoardEditingFlow(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodPost, board+"/nodes", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "node-0", data[commandResult](t, rec).NodeID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, board+"/nodes", `{"x":10,"y":20,"color":"#000000","title":"Ink"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "node-1", data[commandResult](t, rec).NodeID)

	rec = do(t, h, http.MethodPost, board+"/connections", `{"fromId":"node-0","toId":"node-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, data[commandResult](t, rec).Changed)

	rec = do(t, h, http.MethodPost, board+"/connections", `{"fromId":"node-1","toId":"node-0"}`)
	assert.False(t, data[commandResult](t, rec).Changed, "reversed pair is a duplicate")

	type view struct {
		Nodes []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"nodes"`
		Connections []struct {
			Ratio float64 `json:"ratio"`
			Pass  bool    `json:"pass"`
		} `json:"connections"`
		UndoDepth int `json:"undoDepth"`
	}
	v := data[view](t, do(t, h, http.MethodGet, board, ""))
	require.Len(t, v.Nodes, 2)
	assert.Equal(t, "Node 0", v.Nodes[0].Title)
	assert.Equal(t, "Ink", v.Nodes[1].Title)
	require.Len(t, v.Connections, 1)
	assert.Equal(t, 21.0, v.Connections[0].Ratio)
	assert.True(t, v.Connections[0].Pass)
	assert.Equal(t, 3, v.UndoDepth)

	rec = do(t, h, http.MethodGet, board+"/export", "")
	assert.Equal(t, "#FFFFFF\n#000000", data[struct {
		Content string `json:"content"`
	}](t, rec).Content)

	req := httptest.NewRequest(http.MethodGet, board+"/export?format=rgb&separator=comma", nil)
	req.Header.Set("Accept", "text/plain")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "rgb(255, 255, 255), rgb(0, 0, 0)", rec.Body.String())

	rec = do(t, h, http.MethodPost, board+"/undo", "")
	res := data[commandResult](t, rec)
	assert.Equal(t, "addConnection", res.Undone)
	assert.Equal(t, 2, res.UndoDepth)

	hist := data[struct {
		Kinds []string `json:"kinds"`
	}](t, do(t, h, http.MethodGet, board+"/history", ""))
	assert.Equal(t, []string{"addNode", "addNode"}, hist.Kinds)

	consistency := data[struct {
		Consistent bool `json:"consistent"`
	}](t, do(t, h, http.MethodGet, board+"/validate", ""))
	assert.True(t, consistency.Consistent)
}

func TestUnknownNodesAreTolerated(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodDelete, board+"/nodes/node-9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, data[commandResult](t, rec).Changed)

	rec = do(t, h, http.MethodPut, board+"/nodes/node-9/color", `{"color":"#000000","commit":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, data[commandResult](t, rec).Changed)

	rec = do(t, h, http.MethodGet, board+"/nodes/node-9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, board+"/undo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, data[commandResult](t, rec).Changed, "undo on an empty history is a no-op")
}

func TestValidationErrors(t *testing.T) {
	h := newHandler(t)
	do(t, h, http.MethodPost, board+"/nodes", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed color", http.MethodPut, board + "/nodes/node-0/color", `{"color":"#12"}`, http.StatusBadRequest, "MALFORMED_COLOR"},
		{"hex text that can never be a color", http.MethodPut, board + "/nodes/node-0/hex", `{"text":"#zz"}`, http.StatusBadRequest, "MALFORMED_COLOR"},
		{"threshold out of range", http.MethodGet, board + "/contrast?threshold=30", "", http.StatusBadRequest, ""},
		{"threshold not a number", http.MethodGet, board + "/contrast?threshold=high", "", http.StatusBadRequest, "INVALID_PARAMETER"},
		{"unknown export format", http.MethodGet, board + "/export?format=cmyk", "", http.StatusBadRequest, ""},
		{"unknown field", http.MethodPost, board + "/connections", `{"from":"node-0"}`, http.StatusBadRequest, "INVALID_BODY"},
		{"missing body", http.MethodPut, board + "/nodes/node-0/title", "", http.StatusBadRequest, "EMPTY_BODY"},
		{"position needs both axes", http.MethodPut, board + "/nodes/node-0/position", `{"x":1}`, http.StatusBadRequest, "INVALID_POSITION"},
		{"unknown board", http.MethodGet, "/api/v1/boards/nope", "", http.StatusNotFound, ""},
		{"default board is permanent", http.MethodDelete, board + "/session", "", http.StatusConflict, "DEFAULT_BOARD"},
		{"unknown route", http.MethodGet, "/api/v2/boards", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := failure(t, rec)
			if tt.code != "" {
				assert.Equal(t, tt.code, body.Code)
			}
		})
	}
}

func TestHexEditing(t *testing.T) {
	h := newHandler(t)
	do(t, h, http.MethodPost, board+"/nodes", "")

	rec := do(t, h, http.MethodPut, board+"/nodes/node-0/hex", `{"text":"#12"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, data[commandResult](t, rec).Changed)

	type node struct {
		Color     string `json:"color"`
		LastValid string `json:"lastValidColor"`
	}
	n := data[node](t, do(t, h, http.MethodGet, board+"/nodes/node-0", ""))
	assert.Equal(t, "#12", n.Color)
	assert.Equal(t, "#FFFFFF", n.LastValid)

	do(t, h, http.MethodPut, board+"/nodes/node-0/hex", `{"finish":true}`)
	n = data[node](t, do(t, h, http.MethodGet, board+"/nodes/node-0", ""))
	assert.Equal(t, "#FFFFFF", n.Color)

	hist := data[struct {
		Kinds []string `json:"kinds"`
	}](t, do(t, h, http.MethodGet, board+"/history", ""))
	assert.Equal(t, []string{"addNode"}, hist.Kinds, "hex edits are not recorded")
}

func TestShortHexColorIsAccepted(t *testing.T) {
	h := newHandler(t)
	do(t, h, http.MethodPost, board+"/nodes", "")

	rec := do(t, h, http.MethodPut, board+"/nodes/node-0/color", `{"color":"#0f0","commit":true,"oldColor":"#fff"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, data[commandResult](t, rec).UndoDepth)

	n := data[struct {
		Color string `json:"color"`
	}](t, do(t, h, http.MethodGet, board+"/nodes/node-0", ""))
	assert.Equal(t, "#00FF00", n.Color)
}

func TestImport(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, board+"/import/text", strings.NewReader("primary #FF0000, accent #00ff00 and #ff0000 again"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := data[commandResult](t, rec)
	require.NotNil(t, res.Import)
	assert.Len(t, res.Import.Added, 2)
	assert.Equal(t, []string{"#FF0000", "#00FF00"}, res.Import.Palette)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("image", "swatch.png")
	require.NoError(t, err)
	_, err = part.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, board+"/import/image?k=1", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res = data[commandResult](t, rec)
	assert.Equal(t, []string{"#336699"}, res.Import.Palette)

	report := data[struct {
		Entries []struct {
			Pass bool `json:"pass"`
		} `json:"entries"`
	}](t, do(t, h, http.MethodGet, board+"/contrast", ""))
	assert.Len(t, report.Entries, 3, "three imported nodes are fully connected")

	events := data[[]struct {
		Type string `json:"type"`
	}](t, do(t, h, http.MethodGet, board+"/events?limit=2", ""))
	assert.Len(t, events, 2)
}

func TestBoardLifecycle(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodPost, "/api/v1/boards", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := data[commandResult](t, rec)
	require.NotEmpty(t, created.BoardID)

	rec = do(t, h, http.MethodGet, "/api/v1/boards?page=1&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Meta.Pagination)
	assert.Equal(t, 2, env.Meta.Pagination.Total)

	rec = do(t, h, http.MethodDelete, "/api/v1/boards/"+created.BoardID+"/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/v1/boards/"+created.BoardID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newHandler(t)
	do(t, h, http.MethodPost, board+"/nodes", "")

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/ready", "").Code)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `contrastboard_board_mutations_total{operation="addNode",result="applied"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/boards/{boardID}/nodes`)
}

func TestImportRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "error"
	cfg.ImportRateLimit = 1
	container, cleanup, err := di.InitializeContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	h := container.Handler

	rec := do(t, h, http.MethodPost, board+"/import/text", `{"text":"#123456"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, board+"/import/text", `{"text":"#654321"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", failure(t, rec).Type)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, board, "").Code, "other routes are not limited")
}
