package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "FASHION_FINDER_"

// parseEnv overlays Config with FASHION_FINDER_* variables. A dotenv file
// (-e/-env, or ./.env when present) is loaded first; variables already set
// in the process environment win over the file. Panics when an explicitly
// named dotenv file cannot be read or a duration does not parse.
func parseEnv(cfg *Config) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	stringVars := map[string]*string{
		"SUPABASE_URL":      &cfg.SupabaseURL,
		"SUPABASE_ANON_KEY": &cfg.SupabaseAnonKey,
		"JWT_SECRET":        &cfg.JWTSecret,
		"DATABASE_DSN":      &cfg.DatabaseDSN,
		"COMPUTE_BASE_URL":  &cfg.ComputeBaseURL,
		"S3_ENDPOINT":       &cfg.S3Endpoint,
		"S3_REGION":         &cfg.S3Region,
		"S3_ACCESS_KEY":     &cfg.S3AccessKey,
		"S3_SECRET_KEY":     &cfg.S3SecretKey,
		"IMAGES_BUCKET":     &cfg.ImagesBucket,
		"LOCAL_DB_PATH":     &cfg.LocalDBPath,
		"LOG_LEVEL":         &cfg.LogLevel,
		"LOG_FORMAT":        &cfg.LogFormat,
	}
	for name, dst := range stringVars {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"COMPUTE_TIMEOUT":        &cfg.ComputeTimeout,
		"AUTH_TIMEOUT":           &cfg.AuthTimeout,
		"SESSION_CHECK_INTERVAL": &cfg.SessionCheckInterval,
	}
	for name, dst := range durations {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
