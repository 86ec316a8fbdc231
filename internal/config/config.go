// Package config defines the engine configuration. Configuration is loaded
// once at process initialization and is immutable thereafter; it follows
// 12-Factor principles by strictly separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> Struct Defaults (Lowest)
package config

import (
	"geoveil/internal/types"
)

// Config is the top-level configuration struct. Sub-components receive only
// the specific subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Privacy PrivacySettings
	Heatmap HeatmapSettings
	Store   StoreSettings
}

// PrivacySettings holds the obfuscation and aggregation policy knobs.
type PrivacySettings struct {
	// SensitiveMode forces the minimum blur floor on every new observation,
	// for deployments covering locations near homes, schools, or water.
	SensitiveMode bool `envconfig:"SENSITIVE_MODE" default:"false"`

	// DPEpsilon is the Laplace noise scale parameter (larger = less noise).
	DPEpsilon float64 `envconfig:"DP_EPSILON" default:"1.0" validate:"gt=0"`

	// DPKMin is the k-anonymity floor: the minimum noised count a grid cell
	// must reach to be disclosed.
	DPKMin int `envconfig:"DP_K_MIN" default:"3" validate:"gte=1"`
}

// HeatmapSettings holds the aggregation grid parameters.
type HeatmapSettings struct {
	CellSizeDegrees float64 `envconfig:"HEATMAP_CELL_SIZE_DEGREES" default:"0.01" validate:"gt=0"`
}

// StoreSettings selects and parameterizes the repository backend.
type StoreSettings struct {
	Backend    string `envconfig:"STORE_BACKEND" default:"sqlite" validate:"oneof=memory sqlite postgres"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"geoveil.db"`

	// PostgresURL is required only when Backend is postgres; the loader
	// enforces that conditionally.
	PostgresURL string `envconfig:"DATABASE_URL"`
}

// PrivacyConfig converts the settings into the domain policy input.
func (c *Config) PrivacyConfig() types.PrivacyConfig {
	return types.PrivacyConfig{
		SensitiveMode: c.Privacy.SensitiveMode,
		DPEpsilon:     c.Privacy.DPEpsilon,
		DPKMin:        c.Privacy.DPKMin,
	}
}
