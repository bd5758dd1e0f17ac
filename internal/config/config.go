// Package config handles meshtool configuration loading and management.
package config

// Config holds all meshtool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Seams   SeamsConfig   `yaml:"seams" toml:"seams"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// OutputConfig controls where and how files are written.
type OutputConfig struct {
	Dir       string `yaml:"dir" toml:"dir"`             // Directory for generated files
	Precision int    `yaml:"precision" toml:"precision"` // Decimals per coordinate, -1 for exact
}

// SeamsConfig holds defaults for seam sequence decoding.
type SeamsConfig struct {
	Component   int `yaml:"component" toml:"component"`       // Connected component number used in file names
	NumVertices int `yaml:"num_vertices" toml:"num_vertices"` // Bounds-check indices against this count when > 0
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Output: OutputConfig{
			Dir:       ".",
			Precision: 6,
		},
		Seams: SeamsConfig{
			Component:   0,
			NumVertices: 0,
		},
	}
}
