package queries

import (
	"time"

	"contrastboard/pkg/common"
	"contrastboard/pkg/utils"
)

// BoardScope addresses the board a query reads
type BoardScope struct {
	BoardID string `json:"boardId" validate:"required"`
}

// GetBoardID returns the addressed board
func (s BoardScope) GetBoardID() string { return s.BoardID }

// GetBoardQuery returns the render model of a board. Zero Threshold uses
// the configured contrast threshold.
type GetBoardQuery struct {
	BoardScope
	Threshold float64 `json:"threshold" validate:"omitempty,gte=1,lte=21"`
}

// Validate validates the query
func (q GetBoardQuery) Validate() error { return utils.ValidateStruct(q) }

// GetNodeQuery returns one node
type GetNodeQuery struct {
	BoardScope
	NodeID string `json:"nodeId" validate:"required,nodeid"`
}

// Validate validates the query
func (q GetNodeQuery) Validate() error { return utils.ValidateStruct(q) }

// GetHistoryQuery lists the undo records of a board
type GetHistoryQuery struct {
	BoardScope
}

// Validate validates the query
func (q GetHistoryQuery) Validate() error { return utils.ValidateStruct(q) }

// GetContrastReportQuery rates every connection of a board
type GetContrastReportQuery struct {
	BoardScope
	Threshold float64 `json:"threshold" validate:"omitempty,gte=1,lte=21"`
}

// Validate validates the query
func (q GetContrastReportQuery) Validate() error { return utils.ValidateStruct(q) }

// ExportPaletteQuery renders a board's colors as text
type ExportPaletteQuery struct {
	BoardScope
	Format    string `json:"format" validate:"omitempty,oneof=hex rgb hsl css"`
	Separator string `json:"separator" validate:"omitempty,oneof=newline comma space"`
	Variants  bool   `json:"variants"`
}

// Validate validates the query
func (q ExportPaletteQuery) Validate() error { return utils.ValidateStruct(q) }

// GetShadesQuery returns the lighten/darken variants of a node
type GetShadesQuery struct {
	BoardScope
	NodeID string `json:"nodeId" validate:"required,nodeid"`
}

// Validate validates the query
func (q GetShadesQuery) Validate() error { return utils.ValidateStruct(q) }

// ValidateBoardQuery checks a board's referential consistency
type ValidateBoardQuery struct {
	BoardScope
}

// Validate validates the query
func (q ValidateBoardQuery) Validate() error { return utils.ValidateStruct(q) }

// GetEventsQuery returns a board's most recent events. Zero Limit returns
// every retained event.
type GetEventsQuery struct {
	BoardScope
	Limit int `json:"limit" validate:"gte=0,lte=1000"`
}

// Validate validates the query
func (q GetEventsQuery) Validate() error { return utils.ValidateStruct(q) }

// ListBoardsQuery pages through open boards
type ListBoardsQuery struct {
	common.PaginationParams
}

// Validate validates the query
func (q ListBoardsQuery) Validate() error {
	return utils.ValidateStruct(struct {
		Page     int `validate:"gte=1"`
		PageSize int `validate:"gte=1,lte=100"`
	}{q.Page, q.PageSize})
}

// NodeDetail is one node with its neighbours
type NodeDetail struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Color      string   `json:"color"`
	LastValid  string   `json:"lastValidColor"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Neighbours []string `json:"neighbours"`
}

// HistoryResult lists undo record kinds, oldest first
type HistoryResult struct {
	BoardID string   `json:"boardId"`
	Depth   int      `json:"depth"`
	Kinds   []string `json:"kinds"`
}

// ExportResult is a rendered palette
type ExportResult struct {
	Format    string `json:"format"`
	Separator string `json:"separator"`
	Count     int    `json:"count"`
	Content   string `json:"content"`
}

// ValidationResult reports a consistency check
type ValidationResult struct {
	BoardID    string   `json:"boardId"`
	Consistent bool     `json:"consistent"`
	Violations []string `json:"violations,omitempty"`
}

// EventView is a logged board event
type EventView struct {
	Type      string      `json:"type"`
	Version   int         `json:"version"`
	Timestamp string      `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BoardSummary describes an open board
type BoardSummary struct {
	BoardID     string    `json:"boardId"`
	Nodes       int       `json:"nodes"`
	Connections int       `json:"connections"`
	UndoDepth   int       `json:"undoDepth"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListBoardsResult is one page of boards
type ListBoardsResult struct {
	Boards     []BoardSummary         `json:"boards"`
	Pagination *common.PaginationInfo `json:"pagination"`
}
