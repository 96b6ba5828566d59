// Package config loads tool configuration from atlas.toml and the
// environment.
//
// Precedence is fixed: built-in defaults, then the config file, then
// environment variables. Every section and key is optional; a missing
// atlas.toml in the working directory is the common case and simply
// yields the defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/robinei/atlastool/pkg/atlas"
	apperrors "github.com/robinei/atlastool/pkg/errors"
)

// DefaultFile is the config file name searched in the working directory.
const DefaultFile = "atlas.toml"

// Default input paths. The combine operation reads these fixed relative
// paths unless the config file points elsewhere; they are never taken
// from the command line.
const (
	DefaultTilesetPath = "urizen_onebit_tileset__v2d0.png"
	DefaultFontPath    = "cp437_12x12.png"
)

// Cache backend names accepted in the [cache] section.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// EnvRedisAddr overrides cache.redis_addr when set in the environment
// (or in a .env file next to the working directory).
const EnvRedisAddr = "ATLAS_REDIS_ADDR"

// Duration decodes TOML strings like "24h" or "90s" into a duration.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the resolved tool configuration.
type Config struct {
	Inputs   InputsConfig   `toml:"inputs"`
	Geometry GeometryConfig `toml:"geometry"`
	Fetch    FetchConfig    `toml:"fetch"`
	Cache    CacheConfig    `toml:"cache"`
	Preview  PreviewConfig  `toml:"preview"`
}

// InputsConfig names the two source images.
type InputsConfig struct {
	Tileset string `toml:"tileset"`
	Font    string `toml:"font"`
}

// GeometryConfig mirrors atlas.Geometry for the [geometry] section.
type GeometryConfig struct {
	TileSize  int `toml:"tile_size"`
	Spacing   int `toml:"spacing"`
	FontGrid  int `toml:"font_grid"`
	RowsToAdd int `toml:"rows_to_add"`
}

// Geometry converts the section into the atlas package's type.
func (g GeometryConfig) Geometry() atlas.Geometry {
	return atlas.Geometry{
		TileSize:  g.TileSize,
		Spacing:   g.Spacing,
		FontGrid:  g.FontGrid,
		RowsToAdd: g.RowsToAdd,
	}
}

// FetchConfig holds the asset download URLs. There are no defaults; the
// fetch command fails when they are unset.
type FetchConfig struct {
	TilesetURL string `toml:"tileset_url"`
	FontURL    string `toml:"font_url"`
}

// CacheConfig selects and parameterizes the response cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// PreviewConfig holds the preview server settings.
type PreviewConfig struct {
	Listen string `toml:"listen"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Inputs: InputsConfig{
			Tileset: DefaultTilesetPath,
			Font:    DefaultFontPath,
		},
		Geometry: GeometryConfig{
			TileSize:  12,
			Spacing:   1,
			FontGrid:  16,
			RowsToAdd: 2,
		},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			TTL:     Duration(24 * time.Hour),
		},
		Preview: PreviewConfig{
			Listen: "localhost:8173",
		},
	}
}

// Load resolves the configuration. When path is empty, atlas.toml in the
// working directory is used if present; an explicitly given path must
// exist. A .env file in the working directory is loaded into the
// environment first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file, defaults apply.
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "no such config file: %s", path)
	case err != nil:
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
	default:
		// Decoding over the defaults leaves absent keys untouched, so
		// partial files override only what they name.
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers environment overrides on top of file values.
func (c *Config) applyEnv() {
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		c.Cache.RedisAddr = addr
	}
}

func (c *Config) validate() error {
	if c.Inputs.Tileset == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "inputs.tileset cannot be empty")
	}
	if c.Inputs.Font == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "inputs.font cannot be empty")
	}

	if err := c.Geometry.Geometry().Validate(); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisAddr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache backend %q requires redis_addr or %s", CacheBackendRedis, EnvRedisAddr)
	}
	if c.Cache.TTL < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}

	if c.Preview.Listen == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "preview.listen cannot be empty")
	}

	if c.Fetch.TilesetURL != "" {
		if err := apperrors.ValidateURL(c.Fetch.TilesetURL); err != nil {
			return err
		}
	}
	if c.Fetch.FontURL != "" {
		if err := apperrors.ValidateURL(c.Fetch.FontURL); err != nil {
			return err
		}
	}
	return nil
}
