package entities

import "contrastboard/domain/core/valueobjects"

// Node is a positioned, colored, titled entity on the board.
// Its incident connections are owned by the board's index, not the node.
type Node struct {
	id       valueobjects.NodeID
	position valueobjects.Position
	title    string

	// color is what the node displays; during a hex edit it may hold a
	// partial string. lastValid is always canonical.
	color     string
	lastValid valueobjects.HexColor
}

// NewNode creates a node with a valid canonical color
func NewNode(id valueobjects.NodeID, position valueobjects.Position, color valueobjects.HexColor, title string) *Node {
	if color.IsZero() {
		color = valueobjects.White
	}
	return &Node{
		id:        id,
		position:  position,
		title:     title,
		color:     color.String(),
		lastValid: color,
	}
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Position returns the node's position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Title returns the node's label
func (n *Node) Title() string {
	return n.title
}

// Color returns the displayed color string
func (n *Node) Color() string {
	return n.color
}

// LastValidColor returns the most recent canonical color the node held
func (n *Node) LastValidColor() valueobjects.HexColor {
	return n.lastValid
}

// HasValidColor reports whether the displayed color is canonical hex
func (n *Node) HasValidColor() bool {
	return valueobjects.IsCanonicalHex(n.color)
}

// MoveTo moves the node to a new position
func (n *Node) MoveTo(position valueobjects.Position) bool {
	if position.Equals(n.position) {
		return false
	}
	n.position = position
	return true
}

// Rename changes the node's title
func (n *Node) Rename(title string) bool {
	if title == n.title {
		return false
	}
	n.title = title
	return true
}

// SetColor stores raw as the displayed color. A complete #RRGGBB value is
// canonicalized and becomes the last valid color; anything else is kept
// as a transient edit.
func (n *Node) SetColor(raw string) bool {
	next := raw
	if valueobjects.IsCanonicalHex(raw) {
		c := valueobjects.MustHexColor(raw)
		next = c.String()
		n.lastValid = c
	}
	if next == n.color {
		return false
	}
	n.color = next
	return true
}

// RevertToLastValid restores the last canonical color when the displayed
// color is not valid hex
func (n *Node) RevertToLastValid() bool {
	if n.HasValidColor() {
		return false
	}
	n.color = n.lastValid.String()
	return true
}

// Snapshot deep-copies the node together with its incident connections
func (n *Node) Snapshot(connections []Connection) NodeSnapshot {
	conns := make([]Connection, len(connections))
	copy(conns, connections)
	return NodeSnapshot{
		ID:          n.id,
		Position:    n.position,
		Color:       n.color,
		LastValid:   n.lastValid,
		Title:       n.title,
		Connections: conns,
	}
}
