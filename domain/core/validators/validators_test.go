package validators

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/errors"
)

type fakeGraph struct {
	ids   []valueobjects.NodeID
	conns []entities.Connection
	local map[valueobjects.NodeID][]entities.Connection
}

func (f fakeGraph) NodeIDs() []valueobjects.NodeID     { return f.ids }
func (f fakeGraph) Connections() []entities.Connection { return f.conns }
func (f fakeGraph) ConnectionsOf(id valueobjects.NodeID) []entities.Connection {
	return f.local[id]
}

func TestCheckConsistency(t *testing.T) {
	a := valueobjects.MustNodeID("node-a")
	b := valueobjects.MustNodeID("node-b")
	c := valueobjects.MustNodeID("node-c")
	ab := entities.NewConnection(a, b)

	tests := []struct {
		name      string
		graph     fakeGraph
		wantError string
	}{
		{
			name: "consistent graph",
			graph: fakeGraph{
				ids:   []valueobjects.NodeID{a, b, c},
				conns: []entities.Connection{ab},
				local: map[valueobjects.NodeID][]entities.Connection{a: {ab}, b: {ab}},
			},
		},
		{
			name: "dangling endpoint",
			graph: fakeGraph{
				ids:   []valueobjects.NodeID{a},
				conns: []entities.Connection{ab},
				local: map[valueobjects.NodeID][]entities.Connection{a: {ab}},
			},
			wantError: "references missing node node-b",
		},
		{
			name: "duplicate pair in reverse order",
			graph: fakeGraph{
				ids:   []valueobjects.NodeID{a, b},
				conns: []entities.Connection{ab, entities.NewConnection(b, a)},
				local: map[valueobjects.NodeID][]entities.Connection{a: {ab}, b: {ab}},
			},
			wantError: "is duplicated",
		},
		{
			name: "local view missing a connection",
			graph: fakeGraph{
				ids:   []valueobjects.NodeID{a, b},
				conns: []entities.Connection{ab},
				local: map[valueobjects.NodeID][]entities.Connection{a: {ab}},
			},
			wantError: "node node-b does not list incident connection",
		},
		{
			name: "local view lists a stale connection",
			graph: fakeGraph{
				ids:   []valueobjects.NodeID{a, b, c},
				local: map[valueobjects.NodeID][]entities.Connection{c: {entities.NewConnection(c, a)}},
			},
			wantError: "missing from the global set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConsistency(tt.graph)
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ce *ConsistencyError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestNodeValidator(t *testing.T) {
	v := NewNodeValidator()

	assert.NoError(t, v.ValidateTitle(""))
	assert.NoError(t, v.ValidateTitle("Primary"))

	err := v.ValidateTitle(strings.Repeat("x", 121))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	assert.Error(t, v.ValidateTitle("two\nlines"))

	c, err := v.ValidateColor("abc")
	require.NoError(t, err)
	assert.Equal(t, "#AABBCC", c.String())

	_, err = v.ValidateColor("#GGGGGG")
	assert.True(t, errors.IsValidation(err))

	_, err = v.ValidatePosition(math.Inf(1), 0)
	assert.True(t, errors.IsValidation(err))
}
