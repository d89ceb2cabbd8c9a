package commands

import (
	"contrastboard/application/services"
	"contrastboard/pkg/utils"
)

// BoardScope addresses the board a command applies to
type BoardScope struct {
	BoardID string `json:"boardId" validate:"required"`
}

// GetBoardID returns the addressed board
func (s BoardScope) GetBoardID() string { return s.BoardID }

// Result reports the outcome of a board command. Changed is false for
// tolerated no-ops such as unknown node ids.
type Result struct {
	BoardID   string                 `json:"boardId"`
	Changed   bool                   `json:"changed"`
	NodeID    string                 `json:"nodeId,omitempty"`
	Undone    string                 `json:"undone,omitempty"`
	Moved     int                    `json:"moved,omitempty"`
	Import    *services.ImportResult `json:"import,omitempty"`
	UndoDepth int                    `json:"undoDepth"`
}

// CreateBoardCommand opens a new empty board
type CreateBoardCommand struct{}

// Validate validates the command
func (CreateBoardCommand) Validate() error { return nil }

// DeleteBoardCommand closes a board
type DeleteBoardCommand struct {
	BoardScope
}

// Validate validates the command
func (c DeleteBoardCommand) Validate() error { return utils.ValidateStruct(c) }

// AddNodeCommand adds a node. Without X and Y the node spawns at a random
// point; without Color it gets the default color.
type AddNodeCommand struct {
	BoardScope
	X     *float64 `json:"x" validate:"required_with=Y"`
	Y     *float64 `json:"y" validate:"required_with=X"`
	Color string   `json:"color" validate:"omitempty,rgbhex"`
	Title string   `json:"title"`
}

// Validate validates the command
func (c AddNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveNodeCommand removes a node and its connections
type RemoveNodeCommand struct {
	BoardScope
	NodeID string `json:"nodeId" validate:"required,nodeid"`
}

// Validate validates the command
func (c RemoveNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// MoveNodeCommand repositions a node
type MoveNodeCommand struct {
	BoardScope
	NodeID string  `json:"nodeId" validate:"required,nodeid"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Validate validates the command
func (c MoveNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RenameNodeCommand changes a node title
type RenameNodeCommand struct {
	BoardScope
	NodeID string `json:"nodeId" validate:"required,nodeid"`
	Title  string `json:"title"`
}

// Validate validates the command
func (c RenameNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// ChangeColorCommand applies a color. Commit with an OldColor that differs
// records the change; anything else is a preview.
type ChangeColorCommand struct {
	BoardScope
	NodeID   string  `json:"nodeId" validate:"required,nodeid"`
	Color    string  `json:"color" validate:"required,rgbhex"`
	Commit   bool    `json:"commit"`
	OldColor *string `json:"oldColor" validate:"omitempty,rgbhex"`
}

// Validate validates the command
func (c ChangeColorCommand) Validate() error { return utils.ValidateStruct(c) }

// EditHexCommand feeds text from a node's hex field. Finish ends the edit,
// reverting an incomplete value.
type EditHexCommand struct {
	BoardScope
	NodeID string `json:"nodeId" validate:"required,nodeid"`
	Text   string `json:"text" validate:"max=7"`
	Finish bool   `json:"finish"`
}

// Validate validates the command
func (c EditHexCommand) Validate() error { return utils.ValidateStruct(c) }

// CloneNodeCommand drops a copy of a node, optionally at a new position
type CloneNodeCommand struct {
	BoardScope
	SourceID string   `json:"sourceId" validate:"required,nodeid"`
	X        *float64 `json:"x" validate:"required_with=Y"`
	Y        *float64 `json:"y" validate:"required_with=X"`
}

// Validate validates the command
func (c CloneNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// AddConnectionCommand connects two nodes
type AddConnectionCommand struct {
	BoardScope
	FromID string `json:"fromId" validate:"required,nodeid"`
	ToID   string `json:"toId" validate:"required,nodeid"`
}

// Validate validates the command
func (c AddConnectionCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveConnectionCommand disconnects two nodes, in either order
type RemoveConnectionCommand struct {
	BoardScope
	FromID string `json:"fromId" validate:"required,nodeid"`
	ToID   string `json:"toId" validate:"required,nodeid"`
}

// Validate validates the command
func (c RemoveConnectionCommand) Validate() error { return utils.ValidateStruct(c) }

// ClearBoardCommand removes every node with one undo record
type ClearBoardCommand struct {
	BoardScope
}

// Validate validates the command
func (c ClearBoardCommand) Validate() error { return utils.ValidateStruct(c) }

// UndoCommand reverts the most recent recorded operation
type UndoCommand struct {
	BoardScope
}

// Validate validates the command
func (c UndoCommand) Validate() error { return utils.ValidateStruct(c) }

// SetHoverCommand sets the hovered node; an empty NodeID clears it
type SetHoverCommand struct {
	BoardScope
	NodeID string `json:"nodeId" validate:"omitempty,nodeid"`
}

// Validate validates the command
func (c SetHoverCommand) Validate() error { return utils.ValidateStruct(c) }

// RelayoutCommand places every node on a circle for the viewport. Zero
// dimensions use the configured viewport.
type RelayoutCommand struct {
	BoardScope
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// Validate validates the command
func (c RelayoutCommand) Validate() error { return utils.ValidateStruct(c) }

// ImportTextCommand imports every hex literal in a text
type ImportTextCommand struct {
	BoardScope
	Text   string  `json:"text" validate:"required"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// Validate validates the command
func (c ImportTextCommand) Validate() error { return utils.ValidateStruct(c) }

// ImportImageCommand imports the dominant colors of an image. Zero
// Clusters uses the configured default.
type ImportImageCommand struct {
	BoardScope
	Image    []byte  `json:"-" validate:"required"`
	Clusters int     `json:"clusters" validate:"gte=0"`
	Width    float64 `json:"width" validate:"gte=0"`
	Height   float64 `json:"height" validate:"gte=0"`
}

// Validate validates the command
func (c ImportImageCommand) Validate() error { return utils.ValidateStruct(c) }
