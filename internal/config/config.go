// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath = "config.toml"
	DefaultHTTPAddr   = ":8080"
	DefaultAPIBaseURL = "http://127.0.0.1:8080"
	DefaultHistoryMax = 10
	DefaultHistoryDir = "data"
	DefaultQRSize     = 240
	DefaultQRMargin   = 2
	DefaultQRLevel    = "M"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	API     APIConfig     `toml:"api"`
	History HistoryConfig `toml:"history"`
	QR      QRConfig      `toml:"qr"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// APIConfig holds the base URL clients use to reach the upload endpoints.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
}

// HistoryConfig holds the history cap and the directory for the persisted snapshot.
type HistoryConfig struct {
	MaxItems   int    `toml:"max_items"`
	StorageDir string `toml:"storage_dir"`
}

// QRConfig holds default QR rendering parameters (pixel size, margin, error correction level).
type QRConfig struct {
	Size   int    `toml:"size"`
	Margin int    `toml:"margin"`
	Level  string `toml:"level"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
		},
		History: HistoryConfig{
			MaxItems:   DefaultHistoryMax,
			StorageDir: DefaultHistoryDir,
		},
		QR: QRConfig{
			Size:   DefaultQRSize,
			Margin: DefaultQRMargin,
			Level:  DefaultQRLevel,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
