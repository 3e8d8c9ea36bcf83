package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// layers (-c, -e) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-u", "-t", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.SupabaseURL, "s", cfg.SupabaseURL, "base URL of the hosted backend")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Postgres DSN of the backend tables")
	fs.StringVar(&cfg.ComputeBaseURL, "u", cfg.ComputeBaseURL, "base URL of the scraping/matching service")
	computeTimeout := fs.Int("t", int(cfg.ComputeTimeout.Seconds()), "compute request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LocalDBPath, "f", cfg.LocalDBPath, "local database file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ComputeTimeout = time.Duration(*computeTimeout) * time.Second
}
