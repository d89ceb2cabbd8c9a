package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	domainconfig "contrastboard/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string
	Environment     string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	MaxImageBytes   int64
	// ImportRateLimit caps imports per client per minute; 0 disables
	ImportRateLimit int

	// Boards
	MaxBoards        int
	EventLogCapacity int
	QueryCacheTTL    time.Duration

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
	CORSOrigins   []string

	// Business rules
	Domain *domainconfig.DomainConfig
}

// fileConfig mirrors the optional TOML file; nil fields keep their defaults
type fileConfig struct {
	Server struct {
		Address         *string  `toml:"address"`
		Environment     *string  `toml:"environment"`
		LogLevel        *string  `toml:"log_level"`
		ShutdownTimeout *string  `toml:"shutdown_timeout"`
		EnableMetrics   *bool    `toml:"enable_metrics"`
		EnableCORS      *bool    `toml:"enable_cors"`
		CORSOrigins     []string `toml:"cors_origins"`
	} `toml:"server"`
	Boards struct {
		MaxBoards        *int    `toml:"max_boards"`
		EventLogCapacity *int    `toml:"event_log_capacity"`
		QueryCacheTTL    *string `toml:"query_cache_ttl"`
	} `toml:"boards"`
	Nodes struct {
		DefaultColor  *string  `toml:"default_color"`
		TitlePrefix   *string  `toml:"title_prefix"`
		SpawnAreaSize *float64 `toml:"spawn_area_size"`
		IDStrategy    *string  `toml:"id_strategy"`
		DimmedOpacity *float64 `toml:"dimmed_opacity"`
	} `toml:"nodes"`
	Contrast struct {
		Threshold      *float64 `toml:"threshold"`
		LightenPercent *float64 `toml:"lighten_percent"`
		DarkenPercent  *float64 `toml:"darken_percent"`
		VariantPercent *float64 `toml:"variant_percent"`
	} `toml:"contrast"`
	Layout struct {
		MarginX        *float64 `toml:"margin_x"`
		MarginY        *float64 `toml:"margin_y"`
		ViewportWidth  *float64 `toml:"viewport_width"`
		ViewportHeight *float64 `toml:"viewport_height"`
	} `toml:"layout"`
	Import struct {
		MaxColors       *int   `toml:"max_colors"`
		DefaultClusters *int   `toml:"default_clusters"`
		MaxClusters     *int   `toml:"max_clusters"`
		Iterations      *int   `toml:"iterations"`
		MaxDimension    *int   `toml:"max_dimension"`
		Seed            *int64 `toml:"seed"`
		RateLimit       *int   `toml:"rate_limit"`
	} `toml:"import"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		ServerAddress:    ":8080",
		Environment:      "development",
		ShutdownTimeout:  10 * time.Second,
		MaxBodyBytes:     1 << 20,
		MaxImageBytes:    10 << 20,
		ImportRateLimit:  30,
		MaxBoards:        64,
		EventLogCapacity: 200,
		QueryCacheTTL:    time.Minute,
		LogLevel:         "info",
		EnableMetrics:    true,
		EnableCORS:       true,
		CORSOrigins:      []string{"*"},
		Domain:           domainconfig.DefaultDomainConfig(),
	}
}

// LoadConfig loads configuration from .env, the TOML file named by
// CONFIG_FILE, and environment variables, in increasing precedence
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside development
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// LoadFile overlays the values present in a TOML file
func (c *Config) LoadFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	d := c.Domain
	setString(&c.ServerAddress, fc.Server.Address)
	setString(&c.Environment, fc.Server.Environment)
	setString(&c.LogLevel, fc.Server.LogLevel)
	setBool(&c.EnableMetrics, fc.Server.EnableMetrics)
	setBool(&c.EnableCORS, fc.Server.EnableCORS)
	if len(fc.Server.CORSOrigins) > 0 {
		c.CORSOrigins = fc.Server.CORSOrigins
	}
	if err := setDuration(&c.ShutdownTimeout, fc.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}

	setInt(&c.MaxBoards, fc.Boards.MaxBoards)
	setInt(&c.EventLogCapacity, fc.Boards.EventLogCapacity)
	if err := setDuration(&c.QueryCacheTTL, fc.Boards.QueryCacheTTL); err != nil {
		return fmt.Errorf("boards.query_cache_ttl: %w", err)
	}

	setString(&d.DefaultNodeColor, fc.Nodes.DefaultColor)
	setString(&d.DefaultTitlePrefix, fc.Nodes.TitlePrefix)
	setFloat(&d.SpawnAreaSize, fc.Nodes.SpawnAreaSize)
	setFloat(&d.DimmedOpacity, fc.Nodes.DimmedOpacity)
	if fc.Nodes.IDStrategy != nil {
		d.IDStrategy = domainconfig.IDStrategy(*fc.Nodes.IDStrategy)
	}

	setFloat(&d.ContrastThreshold, fc.Contrast.Threshold)
	setFloat(&d.LightenPercent, fc.Contrast.LightenPercent)
	setFloat(&d.DarkenPercent, fc.Contrast.DarkenPercent)
	setFloat(&d.ExportVariantPercent, fc.Contrast.VariantPercent)

	setFloat(&d.LayoutMarginX, fc.Layout.MarginX)
	setFloat(&d.LayoutMarginY, fc.Layout.MarginY)
	setFloat(&d.ViewportWidth, fc.Layout.ViewportWidth)
	setFloat(&d.ViewportHeight, fc.Layout.ViewportHeight)

	setInt(&d.MaxImportColors, fc.Import.MaxColors)
	setInt(&d.DefaultClusterCount, fc.Import.DefaultClusters)
	setInt(&d.MaxClusterCount, fc.Import.MaxClusters)
	setInt(&d.KMeansIterations, fc.Import.Iterations)
	setInt(&d.KMeansMaxDimension, fc.Import.MaxDimension)
	if fc.Import.Seed != nil {
		d.KMeansSeed = *fc.Import.Seed
	}
	setInt(&c.ImportRateLimit, fc.Import.RateLimit)
	return nil
}

func (c *Config) applyEnv() error {
	d := c.Domain
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = strings.Split(origins, ",")
	}
	c.MaxBoards = getEnvInt("MAX_BOARDS", c.MaxBoards)
	c.EventLogCapacity = getEnvInt("EVENT_LOG_CAPACITY", c.EventLogCapacity)
	c.ImportRateLimit = getEnvInt("IMPORT_RATE_LIMIT", c.ImportRateLimit)

	var err error
	if c.QueryCacheTTL, err = getEnvDuration("QUERY_CACHE_TTL", c.QueryCacheTTL); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}

	d.ContrastThreshold = getEnvFloat("CONTRAST_THRESHOLD", d.ContrastThreshold)
	d.IDStrategy = domainconfig.IDStrategy(getEnv("ID_STRATEGY", string(d.IDStrategy)))
	d.ViewportWidth = getEnvFloat("VIEWPORT_WIDTH", d.ViewportWidth)
	d.ViewportHeight = getEnvFloat("VIEWPORT_HEIGHT", d.ViewportHeight)
	if seed := os.Getenv("KMEANS_SEED"); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("KMEANS_SEED must be an integer: %w", err)
		}
		d.KMeansSeed = v
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS is required")
	}
	if c.ImportRateLimit < 0 {
		return fmt.Errorf("IMPORT_RATE_LIMIT must not be negative")
	}
	d := c.Domain
	if d.ContrastThreshold < d.MinContrast || d.ContrastThreshold > d.MaxContrast {
		return fmt.Errorf("contrast threshold %.2f must be within [%.0f, %.0f]", d.ContrastThreshold, d.MinContrast, d.MaxContrast)
	}
	switch d.IDStrategy {
	case domainconfig.IDStrategySequential, domainconfig.IDStrategyUUID:
	default:
		return fmt.Errorf("unknown id strategy %q", d.IDStrategy)
	}
	if d.ViewportWidth <= 0 || d.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %.0fx%.0f", d.ViewportWidth, d.ViewportHeight)
	}
	if d.MaxImportColors <= 0 {
		return fmt.Errorf("max import colors must be positive")
	}
	if d.DefaultClusterCount <= 0 || d.DefaultClusterCount > d.MaxClusterCount {
		return fmt.Errorf("default cluster count %d must be within [1, %d]", d.DefaultClusterCount, d.MaxClusterCount)
	}
	if d.DimmedOpacity < 0 || d.DimmedOpacity > 1 {
		return fmt.Errorf("dimmed opacity must be within [0, 1]")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
