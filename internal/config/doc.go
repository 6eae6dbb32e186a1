// Package config defines configuration structures for the trawl CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (TRAWL_ prefix), optionally loaded from a .env file
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    URL       string
//	    Output    string
//	    Prefix    string
//	    Extension string
//	    Count     int
//	    Workers   int
//	    Timeout   time.Duration
//	    RateLimit float64
//	    Burst     int
//	    Progress  bool
//	    LogLevel  string
//	    UserAgent string
//	}
//
// A zero Count means the CLI asks for it interactively.
package config
