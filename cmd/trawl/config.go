package main

import (
	"flag"

	"github.com/ligustah/trawl/internal/config"
)

// configFlags are the flags shared by commands that read configuration.
type configFlags struct {
	configPath string
	envFile    string
	override   config.Config
}

func addConfigFlags(fs *flag.FlagSet) *configFlags {
	cf := &configFlags{}
	fs.StringVar(&cf.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&cf.envFile, "env-file", ".env", "Path to a .env file with TRAWL_ variables")
	fs.StringVar(&cf.override.Output, "output", "", "Output directory or bucket URL (default ~/Documents/picre_varied_images)")
	fs.StringVar(&cf.override.Prefix, "prefix", "", "Filename prefix (default image)")
	fs.StringVar(&cf.override.Extension, "extension", "", "Forced file extension (default .webp)")
	return cf
}

// load resolves configuration: defaults, then the config file, then the
// environment, then flags.
func (cf *configFlags) load() (config.Config, error) {
	cfg := config.Default()
	if cf.configPath != "" {
		fileCfg, err := config.LoadFromFile(cf.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}
	if cf.envFile != "" {
		if err := config.LoadDotEnv(cf.envFile); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	return cfg.Merge(cf.override), nil
}

// addFetchFlags registers the flags only the fetch command uses.
func addFetchFlags(fs *flag.FlagSet, cf *configFlags) {
	fs.StringVar(&cf.override.URL, "url", "", "Source URL (default https://pic.re/image)")
	fs.IntVar(&cf.override.Count, "count", 0, "Number of items to fetch (prompted when unset)")
	fs.IntVar(&cf.override.Workers, "workers", 0, "Number of parallel workers (default 4)")
	fs.DurationVar(&cf.override.Timeout, "timeout", 0, "Per-request timeout (default 10s)")
	fs.Float64Var(&cf.override.RateLimit, "rate-limit", 0, "Maximum requests per second (0 = unlimited)")
	fs.IntVar(&cf.override.Burst, "burst", 0, "Requests allowed at once under -rate-limit (default 1)")
	fs.BoolVar(&cf.override.Progress, "progress", false, "Show a progress bar")
	fs.StringVar(&cf.override.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	fs.StringVar(&cf.override.UserAgent, "user-agent", "", "User-Agent header to send")
}

