// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using Viper.
//
// Files are searched under cmd/<service>/ and config/ unless explicit paths
// are passed as options. Every key declared through a mapstructure tag can be
// overridden by an environment variable named after its upper-cased dotted
// path with dots replaced by underscores:
//
//	transcription.inference_timeout -> TRANSCRIPTION_INFERENCE_TIMEOUT
//
// Usage:
//
//	var cfg AppConfig
//	if err := config.LoadConfig("memoscribe", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
