package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics("", false)

	m.RecordMutation("addNode", true)
	m.RecordMutation("addNode", true)
	m.RecordMutation("removeNode", false)
	m.RecordUndo("addNode")
	m.RecordEvent("node.added")
	m.SetBoardSize("default", 3, 2, 5)
	m.ObserveImport("text", 4, 20*time.Millisecond)
	m.ObserveQuery("GetBoardQuery", time.Millisecond, false)
	m.ObserveHTTP(http.MethodGet, "/api/v1/boards/{boardID}", http.StatusOK, time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `contrastboard_board_mutations_total{operation="addNode",result="applied"} 2`)
	assert.Contains(t, out, `contrastboard_board_mutations_total{operation="removeNode",result="noop"} 1`)
	assert.Contains(t, out, `contrastboard_board_undos_total{kind="addNode"} 1`)
	assert.Contains(t, out, `contrastboard_board_events_total{type="node.added"} 1`)
	assert.Contains(t, out, `contrastboard_board_nodes{board="default"} 3`)
	assert.Contains(t, out, `contrastboard_board_undo_depth{board="default"} 5`)
	assert.Contains(t, out, `contrastboard_import_colors_total{source="text"} 4`)
	assert.Contains(t, out, `contrastboard_query_duration_seconds_count{query="GetBoardQuery",status="ok"} 1`)
	assert.Contains(t, out, `contrastboard_http_requests_total{method="GET",route="/api/v1/boards/{boardID}",status="200"} 1`)
	assert.NotContains(t, out, "go_goroutines")
}

func TestForgetBoard(t *testing.T) {
	m := NewMetrics("cb", true)
	m.SetBoardSize("scratch", 1, 0, 1)
	require.Contains(t, scrape(t, m), `cb_board_nodes{board="scratch"} 1`)

	m.ForgetBoard("scratch")
	out := scrape(t, m)
	assert.NotContains(t, out, `board="scratch"`)
	assert.Contains(t, out, "go_goroutines")
}
