package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log", "", "Write logs to this file")
	flagOutDir    = flag.String("out", "", "Output directory")
	flagPrecision = flag.Int("precision", -2, "Decimals per coordinate (-1 = exact)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments remaining after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagOutDir != "" {
		cfg.Output.Dir = *flagOutDir
	}
	// -2 means unset; -1 is a valid precision
	if *flagPrecision >= -1 {
		cfg.Output.Precision = *flagPrecision
	}
}
