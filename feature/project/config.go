package project

// Config holds configuration for project extraction and reporting.
type Config struct {
	// OutputDir is where generated Markdown reports are written.
	OutputDir string `mapstructure:"output_dir" default:"."`
	// Currency is the symbol prepended to cost figures in reports.
	Currency string `mapstructure:"currency" default:"$"`
	// ColorDistanceThreshold is the maximum squared RGB distance for
	// naming a filament color after a palette entry.
	ColorDistanceThreshold int `mapstructure:"color_distance_threshold" default:"10000"`
	// SaveHistory enables recording extraction results to the database.
	SaveHistory bool `mapstructure:"save_history" default:"false"`
}
