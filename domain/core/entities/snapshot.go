package entities

import "contrastboard/domain/core/valueobjects"

// NodeSnapshot is a deep copy of a node and its incident connections taken
// when an undo record is pushed
type NodeSnapshot struct {
	ID          valueobjects.NodeID   `json:"id"`
	Position    valueobjects.Position `json:"position"`
	Color       string                `json:"color"`
	LastValid   valueobjects.HexColor `json:"-"`
	Title       string                `json:"title"`
	Connections []Connection          `json:"connections"`
}

// Restore builds a fresh node from the snapshot
func (s NodeSnapshot) Restore() *Node {
	n := NewNode(s.ID, s.Position, s.LastValid, s.Title)
	if s.Color != n.color {
		n.color = s.Color
	}
	return n
}

// Clone returns an independent copy of the snapshot
func (s NodeSnapshot) Clone() NodeSnapshot {
	out := s
	out.Connections = make([]Connection, len(s.Connections))
	copy(out.Connections, s.Connections)
	return out
}
