package deliver

import (
	"fmt"
	"os"

	"github.com/go-ini/ini"
)

// Config holds the daemon configuration.
type Config struct {
	Listen     string // IP:port to listen on
	Prefix     string // request path prefix
	ArchiveDir string // directory containing the tar archives
	CacheSize  int    // number of archive indexes kept in memory
}

// DefaultConfig returns the built-in defaults, used when no config file is
// present.
func DefaultConfig() *Config {
	return &Config{
		Listen:     "127.0.0.1:18124",
		Prefix:     "/",
		ArchiveDir: "/var/archives/",
		CacheSize:  16,
	}
}

// LoadConfig reads an INI config file and merges it over the defaults. A
// missing file is not an error: the defaults are returned unchanged.
//
// Format:
//
//	[server]
//	listen = 127.0.0.1:18124
//	prefix = /
//
//	[archives]
//	dir = /var/archives/
//	cache_size = 16
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	server := f.Section("server")
	cfg.Listen = server.Key("listen").MustString(cfg.Listen)
	cfg.Prefix = server.Key("prefix").MustString(cfg.Prefix)
	archives := f.Section("archives")
	cfg.ArchiveDir = archives.Key("dir").MustString(cfg.ArchiveDir)
	cfg.CacheSize = archives.Key("cache_size").MustInt(cfg.CacheSize)
	if cfg.CacheSize <= 0 {
		return nil, fmt.Errorf("config %s: cache_size must be positive", path)
	}
	return cfg, nil
}
