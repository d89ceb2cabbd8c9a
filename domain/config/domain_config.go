package config

// IDStrategy selects how new node identifiers are generated
type IDStrategy string

const (
	// IDStrategySequential produces node-0, node-1, ... per board
	IDStrategySequential IDStrategy = "sequential"
	// IDStrategyUUID produces node-<uuid>
	IDStrategyUUID IDStrategy = "uuid"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Node defaults
	DefaultNodeColor   string
	DefaultTitlePrefix string
	SpawnAreaSize      float64
	IDStrategy         IDStrategy

	// Contrast
	ContrastThreshold float64
	MinContrast       float64
	MaxContrast       float64

	// Shades
	LightenPercent       float64
	DarkenPercent        float64
	ExportVariantPercent float64

	// Layout
	LayoutMarginX  float64
	LayoutMarginY  float64
	ViewportWidth  float64
	ViewportHeight float64

	// Bulk import
	MaxImportColors     int
	DefaultClusterCount int
	MaxClusterCount     int
	KMeansIterations    int
	KMeansMaxDimension  int
	KMeansAlphaCutoff   uint8
	KMeansSeed          int64

	// Hover highlight
	DimmedOpacity float64
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DefaultNodeColor:   "#FFFFFF",
		DefaultTitlePrefix: "Node",
		SpawnAreaSize:      300,
		IDStrategy:         IDStrategySequential,

		ContrastThreshold: 4.5,
		MinContrast:       1,
		MaxContrast:       21,

		LightenPercent:       30,
		DarkenPercent:        30,
		ExportVariantPercent: 30,

		LayoutMarginX:  100,
		LayoutMarginY:  150,
		ViewportWidth:  1280,
		ViewportHeight: 800,

		MaxImportColors:     50,
		DefaultClusterCount: 5,
		MaxClusterCount:     32,
		KMeansIterations:    10,
		KMeansMaxDimension:  100,
		KMeansAlphaCutoff:   50,
		KMeansSeed:          1,

		DimmedOpacity: 0.2,
	}
}
