// Package config loads followgraph settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/followgraph/config.toml unless a path
// is given explicitly. A missing file yields [Default]; command-line flags
// override whatever the file sets.
//
//	[graph]
//	path = "data/twitter_edges.txt"
//	limit = 750
//
//	[style]
//	follower_color = "#0074D9"
//	layout = "grid"
//
//	[server]
//	addr = ":8050"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/followgraph/pkg/cache"
	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	fgio "github.com/matzehuels/followgraph/pkg/io"
	"github.com/matzehuels/followgraph/pkg/layout"
	"github.com/matzehuels/followgraph/pkg/source/mongo"
	"github.com/matzehuels/followgraph/pkg/style"
)

const appName = "followgraph"

// Graph sources.
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds followgraph configuration.
type Config struct {
	Graph  GraphConfig  `toml:"graph"`
	Style  StyleConfig  `toml:"style"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Mongo  mongo.Config `toml:"mongo"`
}

// GraphConfig controls where the graph is loaded from.
type GraphConfig struct {
	Source string `toml:"source"` // "file" or "mongo"
	Path   string `toml:"path"`
	Limit  int    `toml:"limit"` // negative loads everything
	Strict bool   `toml:"strict"`
}

// StyleConfig holds the initial control panel state.
type StyleConfig struct {
	FollowerColor  string `toml:"follower_color"`
	FollowingColor string `toml:"following_color"`
	EdgeArrowShape string `toml:"edge_arrow_shape"`
	NodeShape      string `toml:"node_shape"`
	Layout         string `toml:"layout"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// CacheConfig controls artifact caching.
type CacheConfig struct {
	Backend string            `toml:"backend"` // "file", "redis" or "none"
	Dir     string            `toml:"dir"`
	TTL     string            `toml:"ttl"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// Default returns the default configuration.
func Default() *Config {
	p := style.DefaultParams()
	return &Config{
		Graph: GraphConfig{Source: SourceFile, Limit: fgio.DefaultLimit},
		Style: StyleConfig{
			FollowerColor:  p.FollowerColor,
			FollowingColor: p.FollowingColor,
			EdgeArrowShape: p.EdgeArrowShape,
			NodeShape:      p.NodeShape,
			Layout:         layout.Default,
		},
		Server: ServerConfig{Addr: ":8050"},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     cache.DefaultTTL.String(),
			Redis:   cache.RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
		},
		Mongo: mongo.Config{
			Database:   mongo.DefaultDatabase,
			Collection: mongo.DefaultCollection,
		},
	}
}

// Params returns the style parameters, with defaults for empty fields.
func (s StyleConfig) Params() style.Params {
	return style.Params{
		FollowerColor:  s.FollowerColor,
		FollowingColor: s.FollowingColor,
		EdgeArrowShape: s.EdgeArrowShape,
		NodeShape:      s.NodeShape,
	}.WithDefaults(style.DefaultParams())
}

// TTLDuration parses the cache TTL, falling back to the default.
func (c CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return cache.DefaultTTL
	}
	return d
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Graph.Source {
	case SourceFile, SourceMongo:
	default:
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "graph.source must be %q or %q, got %q", SourceFile, SourceMongo, c.Graph.Source)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "cache.backend must be one of %s, got %q",
			strings.Join([]string{CacheFile, CacheRedis, CacheNone}, ", "), c.Cache.Backend)
	}
	if c.Cache.TTL != "" {
		if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
			return fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "cache.ttl")
		}
	}
	return nil
}

// ConfigDir returns the followgraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path (the default path when empty). A
// missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path (the default path when empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
