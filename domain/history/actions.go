package history

import (
	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/valueobjects"
)

// Kind names an undo record variant
type Kind string

const (
	KindAddNode          Kind = "addNode"
	KindRemoveNode       Kind = "removeNode"
	KindAddConnection    Kind = "addConnection"
	KindRemoveConnection Kind = "removeConnection"
	KindChangeColor      Kind = "changeColor"
	KindClearBoard       Kind = "clearBoard"
)

// Target is the set of non-recording mutations an undo record replays
// through. Every method must tolerate stale state and report whether
// anything changed.
type Target interface {
	RemoveNode(id valueobjects.NodeID, recordUndo bool) bool
	RestoreNode(snapshot entities.NodeSnapshot) bool
	AddConnection(fromID, toID valueobjects.NodeID, recordUndo bool) bool
	DisconnectPair(a, b valueobjects.NodeID) bool
	ChangeColor(id valueobjects.NodeID, newColor string, recordUndo bool, oldColor *string) bool
	RestoreBoard(snapshots []entities.NodeSnapshot) bool
}

// Action is one undo record. The set of implementations is closed.
type Action interface {
	Kind() Kind
	// Invert applies the compensating mutation without recording it
	Invert(t Target) bool
	sealed()
}

// AddNode records a node creation; undo removes the node
type AddNode struct {
	NodeID valueobjects.NodeID
}

func (AddNode) Kind() Kind { return KindAddNode }
func (AddNode) sealed()    {}

func (a AddNode) Invert(t Target) bool {
	return t.RemoveNode(a.NodeID, false)
}

// RemoveNode records a node removal with the node's state and incident
// connections at removal time
type RemoveNode struct {
	Snapshot entities.NodeSnapshot
}

func (RemoveNode) Kind() Kind { return KindRemoveNode }
func (RemoveNode) sealed()    {}

func (a RemoveNode) Invert(t Target) bool {
	return t.RestoreNode(a.Snapshot.Clone())
}

// AddConnection records a new connection; undo removes the live pair
type AddConnection struct {
	FromID valueobjects.NodeID
	ToID   valueobjects.NodeID
}

func (AddConnection) Kind() Kind { return KindAddConnection }
func (AddConnection) sealed()    {}

func (a AddConnection) Invert(t Target) bool {
	return t.DisconnectPair(a.FromID, a.ToID)
}

// RemoveConnection records an explicit disconnect; undo re-adds the pair
type RemoveConnection struct {
	FromID valueobjects.NodeID
	ToID   valueobjects.NodeID
}

func (RemoveConnection) Kind() Kind { return KindRemoveConnection }
func (RemoveConnection) sealed()    {}

func (a RemoveConnection) Invert(t Target) bool {
	return t.AddConnection(a.FromID, a.ToID, false)
}

// ChangeColor records a committed recolor
type ChangeColor struct {
	NodeID   valueobjects.NodeID
	OldColor string
	NewColor string
}

func (ChangeColor) Kind() Kind { return KindChangeColor }
func (ChangeColor) sealed()    {}

func (a ChangeColor) Invert(t Target) bool {
	return t.ChangeColor(a.NodeID, a.OldColor, false, nil)
}

// ClearBoard records every node with its incident connections as they
// were immediately before the clear
type ClearBoard struct {
	Snapshots []entities.NodeSnapshot
}

func (ClearBoard) Kind() Kind { return KindClearBoard }
func (ClearBoard) sealed()    {}

func (a ClearBoard) Invert(t Target) bool {
	snaps := make([]entities.NodeSnapshot, len(a.Snapshots))
	for i, s := range a.Snapshots {
		snaps[i] = s.Clone()
	}
	return t.RestoreBoard(snaps)
}
