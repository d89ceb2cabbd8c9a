package events

import (
	"time"

	"contrastboard/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event type names
const (
	TypeNodeAdded         = "node.added"
	TypeNodeRemoved       = "node.removed"
	TypeNodeRestored      = "node.restored"
	TypeNodeMoved         = "node.moved"
	TypeNodeRenamed       = "node.renamed"
	TypeNodeRecolored     = "node.recolored"
	TypeNodesConnected    = "connection.added"
	TypeNodesDisconnected = "connection.removed"
	TypeBoardCleared      = "board.cleared"
	TypeBoardRestored     = "board.restored"
	TypeActionUndone      = "history.undone"
)

func newBase(boardID, eventType string, version int, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: boardID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     version,
	}
}

// Node Events

// NodeAdded is raised when a node is inserted by add, import or clone
type NodeAdded struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	Color    string              `json:"color"`
	Recorded bool                `json:"recorded"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(boardID string, version int, nodeID valueobjects.NodeID, color string, recorded bool, timestamp time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: newBase(boardID, TypeNodeAdded, version, timestamp),
		NodeID:    nodeID,
		Color:     color,
		Recorded:  recorded,
	}
}

// NodeRemoved is raised when a node and its connections are removed
type NodeRemoved struct {
	BaseEvent
	NodeID             valueobjects.NodeID `json:"node_id"`
	RemovedConnections int                 `json:"removed_connections"`
	Recorded           bool                `json:"recorded"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(boardID string, version int, nodeID valueobjects.NodeID, removedConnections int, recorded bool, timestamp time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent:          newBase(boardID, TypeNodeRemoved, version, timestamp),
		NodeID:             nodeID,
		RemovedConnections: removedConnections,
		Recorded:           recorded,
	}
}

// NodeRestored is raised when undo recreates a removed node
type NodeRestored struct {
	BaseEvent
	NodeID              valueobjects.NodeID `json:"node_id"`
	RestoredConnections int                 `json:"restored_connections"`
}

// NewNodeRestored creates a NodeRestored event
func NewNodeRestored(boardID string, version int, nodeID valueobjects.NodeID, restoredConnections int, timestamp time.Time) NodeRestored {
	return NodeRestored{
		BaseEvent:           newBase(boardID, TypeNodeRestored, version, timestamp),
		NodeID:              nodeID,
		RestoredConnections: restoredConnections,
	}
}

// NodeMoved is raised when a node is moved to a new position
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(boardID string, version int, nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent:   newBase(boardID, TypeNodeMoved, version, timestamp),
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeRenamed is raised when a node's title changes
type NodeRenamed struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	OldTitle string              `json:"old_title"`
	NewTitle string              `json:"new_title"`
}

// NewNodeRenamed creates a NodeRenamed event
func NewNodeRenamed(boardID string, version int, nodeID valueobjects.NodeID, oldTitle, newTitle string, timestamp time.Time) NodeRenamed {
	return NodeRenamed{
		BaseEvent: newBase(boardID, TypeNodeRenamed, version, timestamp),
		NodeID:    nodeID,
		OldTitle:  oldTitle,
		NewTitle:  newTitle,
	}
}

// NodeRecolored is raised whenever a node's displayed color changes,
// including uncommitted previews
type NodeRecolored struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	OldColor string              `json:"old_color"`
	NewColor string              `json:"new_color"`
	Recorded bool                `json:"recorded"`
}

// NewNodeRecolored creates a NodeRecolored event
func NewNodeRecolored(boardID string, version int, nodeID valueobjects.NodeID, oldColor, newColor string, recorded bool, timestamp time.Time) NodeRecolored {
	return NodeRecolored{
		BaseEvent: newBase(boardID, TypeNodeRecolored, version, timestamp),
		NodeID:    nodeID,
		OldColor:  oldColor,
		NewColor:  newColor,
		Recorded:  recorded,
	}
}

// Connection Events

// NodesConnected is raised when two nodes are connected
type NodesConnected struct {
	BaseEvent
	FromID   valueobjects.NodeID `json:"from_id"`
	ToID     valueobjects.NodeID `json:"to_id"`
	Recorded bool                `json:"recorded"`
}

// NewNodesConnected creates a NodesConnected event
func NewNodesConnected(boardID string, version int, fromID, toID valueobjects.NodeID, recorded bool, timestamp time.Time) NodesConnected {
	return NodesConnected{
		BaseEvent: newBase(boardID, TypeNodesConnected, version, timestamp),
		FromID:    fromID,
		ToID:      toID,
		Recorded:  recorded,
	}
}

// NodesDisconnected is raised when a connection is removed explicitly
type NodesDisconnected struct {
	BaseEvent
	FromID   valueobjects.NodeID `json:"from_id"`
	ToID     valueobjects.NodeID `json:"to_id"`
	Recorded bool                `json:"recorded"`
}

// NewNodesDisconnected creates a NodesDisconnected event
func NewNodesDisconnected(boardID string, version int, fromID, toID valueobjects.NodeID, recorded bool, timestamp time.Time) NodesDisconnected {
	return NodesDisconnected{
		BaseEvent: newBase(boardID, TypeNodesDisconnected, version, timestamp),
		FromID:    fromID,
		ToID:      toID,
		Recorded:  recorded,
	}
}

// Board Events

// BoardCleared is raised when every node is removed at once
type BoardCleared struct {
	BaseEvent
	NodeCount       int `json:"node_count"`
	ConnectionCount int `json:"connection_count"`
}

// NewBoardCleared creates a BoardCleared event
func NewBoardCleared(boardID string, version int, nodeCount, connectionCount int, timestamp time.Time) BoardCleared {
	return BoardCleared{
		BaseEvent:       newBase(boardID, TypeBoardCleared, version, timestamp),
		NodeCount:       nodeCount,
		ConnectionCount: connectionCount,
	}
}

// BoardRestored is raised when undo rebuilds a cleared board
type BoardRestored struct {
	BaseEvent
	NodeCount       int `json:"node_count"`
	ConnectionCount int `json:"connection_count"`
}

// NewBoardRestored creates a BoardRestored event
func NewBoardRestored(boardID string, version int, nodeCount, connectionCount int, timestamp time.Time) BoardRestored {
	return BoardRestored{
		BaseEvent:       newBase(boardID, TypeBoardRestored, version, timestamp),
		NodeCount:       nodeCount,
		ConnectionCount: connectionCount,
	}
}

// ActionUndone is raised after an undo record is consumed
type ActionUndone struct {
	BaseEvent
	Kind      string `json:"kind"`
	Remaining int    `json:"remaining"`
}

// NewActionUndone creates an ActionUndone event
func NewActionUndone(boardID string, version int, kind string, remaining int, timestamp time.Time) ActionUndone {
	return ActionUndone{
		BaseEvent: newBase(boardID, TypeActionUndone, version, timestamp),
		Kind:      kind,
		Remaining: remaining,
	}
}
