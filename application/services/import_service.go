package services

import (
	"context"
	"io"

	"go.uber.org/zap"

	"contrastboard/application/importer"
	"contrastboard/application/ports"
	"contrastboard/domain/config"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/domain/layout"
)

// Import sources
const (
	SourceText  = "text"
	SourceImage = "image"
)

// ImportResult reports what a bulk import did
type ImportResult struct {
	Added   []valueobjects.NodeID `json:"added"`
	Skipped int                   `json:"skipped"`
	Cleared bool                  `json:"cleared"`
	Palette []string              `json:"palette"`
}

// ImportService turns palettes into connected nodes on a board
type ImportService struct {
	cfg     *config.DomainConfig
	metrics ports.MetricsRecorder
	clock   ports.Clock
	logger  *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(cfg *config.DomainConfig, metrics ports.MetricsRecorder, clock ports.Clock, logger *zap.Logger) *ImportService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{cfg: cfg, metrics: metrics, clock: clock, logger: logger}
}

// ImportText imports every #RRGGBB literal found in text
func (s *ImportService) ImportText(ctx context.Context, session *Session, text string, vp layout.Viewport) ImportResult {
	return s.ImportColors(ctx, session, importer.ExtractHexColors(text), SourceText, vp)
}

// ImportImage clusters an image into k colors and imports them; k <= 0
// uses the configured default
func (s *ImportService) ImportImage(ctx context.Context, session *Session, r io.Reader, k int, vp layout.Viewport) (ImportResult, error) {
	opts := importer.ImageOptionsFromConfig(s.cfg)
	if k > 0 {
		opts.Clusters = k
	}
	palette, format, err := importer.ExtractImagePalette(r, opts)
	if err != nil {
		return ImportResult{}, err
	}
	s.logger.Debug("Image palette extracted",
		zap.String("format", format),
		zap.Int("clusters", opts.Clusters),
		zap.Int("colors", len(palette)),
	)
	return s.ImportColors(ctx, session, palette, SourceImage, vp), nil
}

// ImportColors adds one node per color not already on the board. A batch
// larger than the configured maximum clears the board first (recorded).
// New nodes are laid out on a circle, connected to each other and to every
// existing node without recording those connections, and each new node
// gets its own AddNode record.
func (s *ImportService) ImportColors(ctx context.Context, session *Session, colors []valueobjects.HexColor, source string, vp layout.Viewport) ImportResult {
	start := s.clock.Now()
	raw := make([]string, len(colors))
	for i, c := range colors {
		raw[i] = c.String()
	}
	batch := importer.Dedupe(raw)

	result := ImportResult{Palette: make([]string, len(batch))}
	for i, c := range batch {
		result.Palette[i] = c.String()
	}

	session.Atomically(ctx, "import", func(b *aggregates.Board) bool {
		if len(batch) > s.cfg.MaxImportColors {
			result.Cleared = b.ClearBoard()
		}

		existing := b.NodeIDs()
		var fresh []valueobjects.HexColor
		for _, c := range batch {
			if b.HasColor(c.String()) {
				result.Skipped++
				continue
			}
			fresh = append(fresh, c)
		}
		if len(fresh) == 0 {
			return result.Cleared
		}

		ids := make([]valueobjects.NodeID, len(fresh))
		for i := range ids {
			ids[i] = valueobjects.NewNodeID()
		}
		positions := layout.Circular(ids, nil, vp)

		for i, c := range fresh {
			id, ok := b.AddNodeWith(aggregates.NodeSpec{
				ID:       ids[i],
				Position: positions[ids[i]],
				Color:    c,
				Title:    "Color " + c.String(),
				Record:   true,
			})
			if ok {
				result.Added = append(result.Added, id)
			}
		}

		for i, a := range result.Added {
			for _, other := range result.Added[i+1:] {
				b.AddConnection(a, other, false)
			}
			for _, other := range existing {
				b.AddConnection(a, other, false)
			}
		}
		return true
	})

	s.metrics.ObserveImport(source, len(result.Added), s.clock.Now().Sub(start))
	s.logger.Info("Palette imported",
		zap.String("boardID", session.ID().String()),
		zap.String("source", source),
		zap.Int("added", len(result.Added)),
		zap.Int("skipped", result.Skipped),
		zap.Bool("cleared", result.Cleared),
	)
	return result
}

// ViewportFromConfig builds a layout viewport, falling back to the
// configured size for non-positive dimensions
func ViewportFromConfig(cfg *config.DomainConfig, width, height float64) layout.Viewport {
	if width <= 0 {
		width = cfg.ViewportWidth
	}
	if height <= 0 {
		height = cfg.ViewportHeight
	}
	return layout.Viewport{
		Width:   width,
		Height:  height,
		MarginX: cfg.LayoutMarginX,
		MarginY: cfg.LayoutMarginY,
	}
}
