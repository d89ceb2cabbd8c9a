package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrastboard/domain/core/valueobjects"
)

func TestConnectionKey(t *testing.T) {
	a := valueobjects.MustNodeID("node-a")
	b := valueobjects.MustNodeID("node-b")

	ab := NewConnection(a, b)
	ba := NewConnection(b, a)

	assert.Equal(t, ab.Key(), ba.Key())
	assert.True(t, ab.Equivalent(ba))
	assert.Equal(t, a, ab.Key().Low)
	assert.Equal(t, b, ab.Key().High)
	assert.Equal(t, "node-a|node-b", ba.Key().String())
}

func TestConnectionEndpoints(t *testing.T) {
	a := valueobjects.MustNodeID("node-a")
	b := valueobjects.MustNodeID("node-b")
	c := valueobjects.MustNodeID("node-c")
	conn := NewConnection(a, b)

	assert.True(t, conn.Touches(a))
	assert.True(t, conn.Touches(b))
	assert.False(t, conn.Touches(c))
	assert.Equal(t, b, conn.Other(a))
	assert.Equal(t, a, conn.Other(b))
	assert.False(t, conn.IsLoop())
	assert.True(t, NewConnection(a, a).IsLoop())
}

func TestNodeSetColor(t *testing.T) {
	id := valueobjects.MustNodeID("node-0")
	n := NewNode(id, valueobjects.Position{}, valueobjects.HexColor{}, "Node 1")

	require.Equal(t, "#FFFFFF", n.Color(), "zero color defaults to white")

	tests := []struct {
		name      string
		raw       string
		wantColor string
		wantLast  string
		wantValid bool
	}{
		{"lowercase full hex is canonicalized", "#ff0000", "#FF0000", "#FF0000", true},
		{"partial hex is kept transiently", "#12", "#12", "#FF0000", false},
		{"empty string is kept transiently", "", "", "#FF0000", false},
		{"completed hex replaces last valid", "#00aa00", "#00AA00", "#00AA00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n.SetColor(tt.raw)
			assert.Equal(t, tt.wantColor, n.Color())
			assert.Equal(t, tt.wantLast, n.LastValidColor().String())
			assert.Equal(t, tt.wantValid, n.HasValidColor())
		})
	}
}

func TestNodeRevertToLastValid(t *testing.T) {
	n := NewNode(valueobjects.MustNodeID("node-0"), valueobjects.Position{}, valueobjects.MustHexColor("#336699"), "Node 1")

	assert.False(t, n.RevertToLastValid(), "valid color needs no revert")

	n.SetColor("#33")
	assert.True(t, n.RevertToLastValid())
	assert.Equal(t, "#336699", n.Color())
}

func TestNodeMoveAndRename(t *testing.T) {
	n := NewNode(valueobjects.MustNodeID("node-0"), valueobjects.Position{X: 1, Y: 2}, valueobjects.White, "Node 1")

	assert.False(t, n.MoveTo(valueobjects.Position{X: 1, Y: 2}))
	assert.True(t, n.MoveTo(valueobjects.Position{X: 5, Y: 6}))
	assert.Equal(t, valueobjects.Position{X: 5, Y: 6}, n.Position())

	assert.False(t, n.Rename("Node 1"))
	assert.True(t, n.Rename("Accent"))
	assert.Equal(t, "Accent", n.Title())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	a := valueobjects.MustNodeID("node-a")
	b := valueobjects.MustNodeID("node-b")
	conns := []Connection{NewConnection(a, b)}

	n := NewNode(a, valueobjects.Position{X: 10, Y: 20}, valueobjects.MustHexColor("#FF0000"), "Red")
	snap := n.Snapshot(conns)

	conns[0] = NewConnection(b, b)
	assert.Equal(t, a, snap.Connections[0].FromID, "snapshot must not alias the caller's slice")

	clone := snap.Clone()
	clone.Connections[0] = NewConnection(b, a)
	assert.Equal(t, a, snap.Connections[0].FromID)

	n.SetColor("#00FF00")
	n.MoveTo(valueobjects.Position{})

	restored := snap.Restore()
	assert.Equal(t, a, restored.ID())
	assert.Equal(t, "#FF0000", restored.Color())
	assert.Equal(t, "Red", restored.Title())
	assert.Equal(t, valueobjects.Position{X: 10, Y: 20}, restored.Position())
}

func TestSnapshotRestoreKeepsTransientColor(t *testing.T) {
	n := NewNode(valueobjects.MustNodeID("node-0"), valueobjects.Position{}, valueobjects.MustHexColor("#123456"), "")
	n.SetColor("#ab")

	restored := n.Snapshot(nil).Restore()
	assert.Equal(t, "#ab", restored.Color())
	assert.Equal(t, "#123456", restored.LastValidColor().String())
}
