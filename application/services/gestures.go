package services

import (
	"context"
	"strings"

	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/valueobjects"
)

// Continuous gestures apply previews without history and record once at
// commit, using the value captured when the gesture began.

// ColorGesture drives a color slider or picker drag
type ColorGesture struct {
	session  *Session
	nodeID   valueobjects.NodeID
	original string
	last     string
	done     bool
}

// BeginColorGesture captures the node's last valid color, so a gesture
// started over half-typed hex still undoes to a real color. It reports
// false for an unknown node.
func (s *Session) BeginColorGesture(id valueobjects.NodeID) (*ColorGesture, bool) {
	node, ok := s.Node(id)
	if !ok {
		return nil, false
	}
	return &ColorGesture{session: s, nodeID: id, original: node.LastValid.String()}, true
}

// Preview applies color without recording
func (g *ColorGesture) Preview(ctx context.Context, color string) bool {
	if g.done {
		return false
	}
	g.last = color
	return g.session.ChangeColor(ctx, g.nodeID, color, false, nil)
}

// Commit records the last previewed color against the pre-gesture color.
// A gesture with no preview commits nothing.
func (g *ColorGesture) Commit(ctx context.Context) bool {
	if g.done {
		return false
	}
	g.done = true
	if g.last == "" {
		return false
	}
	original := g.original
	return g.session.ChangeColor(ctx, g.nodeID, g.last, true, &original)
}

// Cancel restores the pre-gesture color without recording
func (g *ColorGesture) Cancel(ctx context.Context) bool {
	if g.done {
		return false
	}
	g.done = true
	return g.session.ChangeColor(ctx, g.nodeID, g.original, false, nil)
}

// HexEdit drives a node's hex text field
type HexEdit struct {
	session *Session
	nodeID  valueobjects.NodeID
}

// BeginHexEdit starts editing a node's hex text
func (s *Session) BeginHexEdit(id valueobjects.NodeID) (*HexEdit, bool) {
	if _, ok := s.Node(id); !ok {
		return nil, false
	}
	return &HexEdit{session: s, nodeID: id}, true
}

// Type shows text as the node's color. Text that can no longer become a
// hex color is ignored. A complete value becomes the last valid color.
func (e *HexEdit) Type(ctx context.Context, text string) bool {
	if !valueobjects.IsPartialHex(text) {
		return false
	}
	if !strings.HasPrefix(text, "#") {
		text = "#" + text
	}
	return e.session.ChangeColor(ctx, e.nodeID, text, false, nil)
}

// Finish reverts to the last valid color when the text is incomplete
func (e *HexEdit) Finish(ctx context.Context) bool {
	return e.session.RevertInvalidColor(ctx, e.nodeID)
}

// DragGesture moves a node with the pointer, keeping the grab offset
type DragGesture struct {
	session *Session
	nodeID  valueobjects.NodeID
	dx, dy  float64
	moved   bool
}

// BeginDrag grabs a node at the pointer position
func (s *Session) BeginDrag(id valueobjects.NodeID, pointer valueobjects.Position) (*DragGesture, bool) {
	node, ok := s.Node(id)
	if !ok {
		return nil, false
	}
	s.Touch(id)
	return &DragGesture{
		session: s,
		nodeID:  id,
		dx:      pointer.X - node.Position.X,
		dy:      pointer.Y - node.Position.Y,
	}, true
}

// Move follows the pointer. Positions are never undo-tracked, so an
// abandoned drag simply leaves the node where it was last reported.
func (g *DragGesture) Move(ctx context.Context, pointer valueobjects.Position) bool {
	if g.session.MoveNode(ctx, g.nodeID, pointer.Translate(-g.dx, -g.dy)) {
		g.moved = true
		return true
	}
	return false
}

// End finishes the drag and reports whether the node moved
func (g *DragGesture) End() bool {
	return g.moved
}

// ConnectGesture draws a connection from one node to another
type ConnectGesture struct {
	session *Session
	fromID  valueobjects.NodeID
	target  valueobjects.NodeID
	done    bool
}

// BeginConnect starts a connection at a node
func (s *Session) BeginConnect(fromID valueobjects.NodeID) (*ConnectGesture, bool) {
	if _, ok := s.Node(fromID); !ok {
		return nil, false
	}
	return &ConnectGesture{session: s, fromID: fromID}, true
}

// Hover tracks the node under the pointer; nothing is created yet
func (g *ConnectGesture) Hover(target valueobjects.NodeID) {
	g.target = target
}

// Target returns the node currently under the pointer
func (g *ConnectGesture) Target() (valueobjects.NodeID, bool) {
	return g.target, !g.target.IsZero() && !g.target.Equals(g.fromID)
}

// Release commits a recorded connection when dropped on a distinct node
func (g *ConnectGesture) Release(ctx context.Context, target valueobjects.NodeID) bool {
	if g.done {
		return false
	}
	g.done = true
	if target.IsZero() || target.Equals(g.fromID) {
		return false
	}
	return g.session.AddConnection(ctx, g.fromID, target)
}

// Abandon drops the gesture without creating anything
func (g *ConnectGesture) Abandon() {
	g.done = true
}

// CloneGesture drags a detached copy of a node until it is dropped
type CloneGesture struct {
	session  *Session
	color    valueobjects.HexColor
	title    string
	position valueobjects.Position
	done     bool
}

// BeginClone copies a node's color and title; connections are not copied
func (s *Session) BeginClone(sourceID valueobjects.NodeID) (*CloneGesture, bool) {
	node, ok := s.Node(sourceID)
	if !ok {
		return nil, false
	}
	return &CloneGesture{
		session:  s,
		color:    node.LastValid,
		title:    node.Title,
		position: node.Position,
	}, true
}

// Move tracks the pointer position of the copy
func (g *CloneGesture) Move(position valueobjects.Position) {
	g.position = position
}

// Drop inserts the copy under a fresh id and records one AddNode
func (g *CloneGesture) Drop(ctx context.Context) (valueobjects.NodeID, bool) {
	if g.done {
		return valueobjects.NodeID{}, false
	}
	g.done = true
	return g.session.AddNodeWith(ctx, aggregates.NodeSpec{
		ID:       valueobjects.NewNodeID(),
		Position: g.position,
		Color:    g.color,
		Title:    g.title,
		Record:   true,
	})
}

// Abandon drops the copy without inserting anything
func (g *CloneGesture) Abandon() {
	g.done = true
}
