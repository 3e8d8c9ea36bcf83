package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fashionfinder/internal/flagx"
	"github.com/dmitrijs2005/fashionfinder/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Only fields
// present in the file are copied into Config.
type JsonConfig struct {
	SupabaseURL          string          `json:"supabase_url"`
	SupabaseAnonKey      string          `json:"supabase_anon_key"`
	JWTSecret            string          `json:"jwt_secret"`
	DatabaseDSN          string          `json:"database_dsn"`
	ComputeBaseURL       string          `json:"compute_base_url"`
	ComputeTimeout       *timex.Duration `json:"compute_timeout"`
	AuthTimeout          *timex.Duration `json:"auth_timeout"`
	S3Endpoint           string          `json:"s3_endpoint"`
	S3Region             string          `json:"s3_region"`
	S3AccessKey          string          `json:"s3_access_key"`
	S3SecretKey          string          `json:"s3_secret_key"`
	ImagesBucket         string          `json:"images_bucket"`
	LocalDBPath          string          `json:"local_db_path"`
	LogLevel             string          `json:"log_level"`
	LogFormat            string          `json:"log_format"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Without the flag nothing happens. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.SupabaseURL, jc.SupabaseURL)
	setString(&cfg.SupabaseAnonKey, jc.SupabaseAnonKey)
	setString(&cfg.JWTSecret, jc.JWTSecret)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.ComputeBaseURL, jc.ComputeBaseURL)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.ImagesBucket, jc.ImagesBucket)
	setString(&cfg.LocalDBPath, jc.LocalDBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.ComputeTimeout != nil {
		cfg.ComputeTimeout = jc.ComputeTimeout.Duration
	}
	if jc.AuthTimeout != nil {
		cfg.AuthTimeout = jc.AuthTimeout.Duration
	}
	if jc.SessionCheckInterval != nil {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
