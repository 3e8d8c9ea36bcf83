// Package config loads runtime configuration for the fashion finder CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment (see parseEnv): FASHION_FINDER_* variables, optionally
//     seeded from a dotenv file given via -e or -env (".env" otherwise).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   base URL of the hosted backend (auth, storage)
//	-d string   Postgres DSN of the backend tables
//	-u string   base URL of the scraping/matching service
//	-t int      compute request timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//	-f string   local database file
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "supabase_url": "https://xyz.supabase.co",
//	  "supabase_anon_key": "...",
//	  "database_dsn": "postgres://...",
//	  "compute_base_url": "https://finder.example.com",
//	  "compute_timeout": "60s",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "..."
//	}
package config
