package services

import (
	"math"

	"contrastboard/domain/colormath"
	"contrastboard/domain/config"
	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/domain/history"
)

// NodeView is a node as the canvas draws it
type NodeView struct {
	ID          string                `json:"id"`
	Position    valueobjects.Position `json:"position"`
	Color       string                `json:"color"`
	Title       string                `json:"title"`
	Opacity     float64               `json:"opacity"`
	ZIndex      int                   `json:"zIndex"`
	Connections int                   `json:"connections"`
	Editing     bool                  `json:"editing,omitempty"`
}

// ConnectionView is a connection with its contrast verdict
type ConnectionView struct {
	FromID  string              `json:"fromId"`
	ToID    string              `json:"toId"`
	Ratio   float64             `json:"ratio"`
	Pass    bool                `json:"pass"`
	Stroke  colormath.EdgeColor `json:"stroke"`
	Opacity float64             `json:"opacity"`
}

// BoardView is the full render model of a session
type BoardView struct {
	BoardID     string           `json:"boardId"`
	Version     int              `json:"version"`
	Nodes       []NodeView       `json:"nodes"`
	Connections []ConnectionView `json:"connections"`
	UndoDepth   int              `json:"undoDepth"`
	Hovered     string           `json:"hovered,omitempty"`
	Threshold   float64          `json:"threshold"`
}

// ContrastReport lists every connection's contrast against a threshold
type ContrastReport struct {
	Threshold float64         `json:"threshold"`
	Entries   []ContrastEntry `json:"entries"`
	Passing   int             `json:"passing"`
	Failing   int             `json:"failing"`
}

// ContrastEntry is one connection in a contrast report
type ContrastEntry struct {
	FromID    string  `json:"fromId"`
	FromTitle string  `json:"fromTitle"`
	FromColor string  `json:"fromColor"`
	ToID      string  `json:"toId"`
	ToTitle   string  `json:"toTitle"`
	ToColor   string  `json:"toColor"`
	Ratio     float64 `json:"ratio"`
	Pass      bool    `json:"pass"`
}

// Shades are the lightened and darkened variants of a node's color
type Shades struct {
	NodeID         string  `json:"nodeId"`
	Color          string  `json:"color"`
	Light          string  `json:"light"`
	Dark           string  `json:"dark"`
	LightenPercent float64 `json:"lightenPercent"`
	DarkenPercent  float64 `json:"darkenPercent"`
}

// BuildBoardView renders a snapshot. Nodes come back to front.
func BuildBoardView(snap Snapshot, cfg *config.DomainConfig, threshold float64) BoardView {
	byID := make(map[valueobjects.NodeID]entities.NodeSnapshot, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}
	neighbours := hoverNeighbours(snap)

	view := BoardView{
		BoardID:     snap.BoardID.String(),
		Version:     snap.Version,
		Nodes:       make([]NodeView, 0, len(snap.Nodes)),
		Connections: make([]ConnectionView, 0, len(snap.Connections)),
		UndoDepth:   len(snap.UndoKinds),
		Hovered:     snap.Hovered.String(),
		Threshold:   threshold,
	}

	for z, id := range snap.DrawOrder {
		n := byID[id]
		view.Nodes = append(view.Nodes, NodeView{
			ID:          id.String(),
			Position:    n.Position,
			Color:       n.Color,
			Title:       n.Title,
			Opacity:     nodeOpacity(snap.Hovered, id, neighbours, cfg.DimmedOpacity),
			ZIndex:      z,
			Connections: len(n.Connections),
			Editing:     !valueobjects.IsCanonicalHex(n.Color),
		})
	}

	for _, c := range snap.Connections {
		ratio := pairContrast(byID[c.FromID], byID[c.ToID])
		view.Connections = append(view.Connections, ConnectionView{
			FromID:  c.FromID.String(),
			ToID:    c.ToID.String(),
			Ratio:   roundRatio(ratio),
			Pass:    colormath.Passes(ratio, threshold),
			Stroke:  colormath.EdgeColorFor(ratio, threshold),
			Opacity: connectionOpacity(snap.Hovered, c, cfg.DimmedOpacity),
		})
	}
	return view
}

// BuildContrastReport rates every connection against threshold
func BuildContrastReport(snap Snapshot, threshold float64) ContrastReport {
	byID := make(map[valueobjects.NodeID]entities.NodeSnapshot, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}

	report := ContrastReport{Threshold: threshold, Entries: make([]ContrastEntry, 0, len(snap.Connections))}
	for _, c := range snap.Connections {
		from, to := byID[c.FromID], byID[c.ToID]
		ratio := pairContrast(from, to)
		pass := colormath.Passes(ratio, threshold)
		if pass {
			report.Passing++
		} else {
			report.Failing++
		}
		report.Entries = append(report.Entries, ContrastEntry{
			FromID:    c.FromID.String(),
			FromTitle: from.Title,
			FromColor: effectiveColor(from),
			ToID:      c.ToID.String(),
			ToTitle:   to.Title,
			ToColor:   effectiveColor(to),
			Ratio:     roundRatio(ratio),
			Pass:      pass,
		})
	}
	return report
}

// BuildShades computes a node's lighten/darken variants
func BuildShades(node entities.NodeSnapshot, lightenPct, darkenPct float64) Shades {
	color := effectiveColor(node)
	light, _ := colormath.Lighten(color, lightenPct)
	dark, _ := colormath.Darken(color, darkenPct)
	return Shades{
		NodeID:         node.ID.String(),
		Color:          color,
		Light:          light,
		Dark:           dark,
		LightenPercent: lightenPct,
		DarkenPercent:  darkenPct,
	}
}

// UndoKindNames converts history kinds for display
func UndoKindNames(kinds []history.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func hoverNeighbours(snap Snapshot) map[valueobjects.NodeID]bool {
	out := make(map[valueobjects.NodeID]bool)
	if snap.Hovered.IsZero() {
		return out
	}
	for _, c := range snap.Connections {
		if c.Touches(snap.Hovered) {
			out[c.Other(snap.Hovered)] = true
		}
	}
	return out
}

func nodeOpacity(hovered, id valueobjects.NodeID, neighbours map[valueobjects.NodeID]bool, dimmed float64) float64 {
	if hovered.IsZero() || hovered.Equals(id) || neighbours[id] {
		return 1
	}
	return dimmed
}

func connectionOpacity(hovered valueobjects.NodeID, c entities.Connection, dimmed float64) float64 {
	if hovered.IsZero() || c.Touches(hovered) {
		return 1
	}
	return dimmed
}

func pairContrast(a, b entities.NodeSnapshot) float64 {
	ratio, err := colormath.ContrastRatio(effectiveColor(a), effectiveColor(b))
	if err != nil {
		return 1
	}
	return ratio
}

// roundRatio keeps two decimals as displayed on edges; verdicts use the
// unrounded ratio
func roundRatio(r float64) float64 {
	return math.Round(r*100) / 100
}

func effectiveColor(n entities.NodeSnapshot) string {
	if valueobjects.IsCanonicalHex(n.Color) {
		return n.Color
	}
	if !n.LastValid.IsZero() {
		return n.LastValid.String()
	}
	return valueobjects.White.String()
}
