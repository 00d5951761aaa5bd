package config

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Gmail    GmailConfig    `toml:"gmail"`
	Digest   DigestConfig   `toml:"digest"`
	Server   ServerConfig   `toml:"server"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// GmailConfig contains Gmail API settings for the digest dispatcher
type GmailConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	TokenPath       string `toml:"token_path"`
}

// DigestConfig contains alert digest settings
type DigestConfig struct {
	Subject       string `toml:"subject"`
	LookbackHours int    `toml:"lookback_hours"`
}

// Lookback returns the default notification window for searches that
// were never notified
func (d DigestConfig) Lookback() time.Duration {
	return time.Duration(d.LookbackHours) * time.Hour
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/inmomatch/inmomatch.db",
		},
		Gmail: GmailConfig{
			CredentialsPath: "~/.config/inmomatch/credentials.json",
			TokenPath:       "~/.config/inmomatch/token.json",
		},
		Digest: DigestConfig{
			Subject:       "New listings matching your search",
			LookbackHours: 24,
		},
		Server: ServerConfig{
			Addr: ":8420",
		},
	}
}
