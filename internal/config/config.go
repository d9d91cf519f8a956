package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"image-filter-studio/internal/logger"

	"github.com/joho/godotenv"
)

const (
	CodecStd    = "std"
	CodecOpenCV = "opencv"

	defaultPreviewWidth  = 500
	defaultPreviewHeight = 300
)

// Config holds the process-wide settings read from the environment.
type Config struct {
	LogLevel      logger.LogLevel
	LogFormat     string
	Codec         string
	MaxHistory    int
	PreviewWidth  int
	PreviewHeight int

	// NoiseSeed makes the noise transforms reproducible when set.
	NoiseSeed *uint64
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:      logger.InfoLevel,
		LogFormat:     "console",
		Codec:         CodecStd,
		PreviewWidth:  defaultPreviewWidth,
		PreviewHeight: defaultPreviewHeight,
	}
}

// Merge applies non-zero values from source into c. LogLevel is not merged
// since its zero value is a valid level.
func (c *Config) Merge(source *Config) {
	if source.LogFormat != "" {
		c.LogFormat = source.LogFormat
	}
	if source.Codec != "" {
		c.Codec = source.Codec
	}
	if source.MaxHistory > 0 {
		c.MaxHistory = source.MaxHistory
	}
	if source.PreviewWidth > 0 {
		c.PreviewWidth = source.PreviewWidth
	}
	if source.PreviewHeight > 0 {
		c.PreviewHeight = source.PreviewHeight
	}
	if source.NoiseSeed != nil {
		seed := *source.NoiseSeed
		c.NoiseSeed = &seed
	}
}

// LoadDotEnv reads .env style files into the process environment. Missing
// files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load builds a Config from the process environment on top of Default.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup to read variables.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	switch level := strings.ToLower(get("LOG_LEVEL")); level {
	case "":
		if get("DEBUG") == "1" {
			cfg.LogLevel = logger.DebugLevel
		}
	default:
		parsed, err := logger.ParseLevel(level)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = parsed
	}

	if f := strings.ToLower(get("LOG_FORMAT")); f != "" {
		if f != "console" && f != "json" {
			return cfg, fmt.Errorf("LOG_FORMAT must be console or json, got %q", f)
		}
		cfg.LogFormat = f
	}

	if c := strings.ToLower(get("IMAGEFILTER_CODEC")); c != "" {
		if c != CodecStd && c != CodecOpenCV {
			return cfg, fmt.Errorf("IMAGEFILTER_CODEC must be %s or %s, got %q", CodecStd, CodecOpenCV, c)
		}
		cfg.Codec = c
	}

	var err error
	if cfg.MaxHistory, err = intVar(get, "IMAGEFILTER_MAX_HISTORY", 0, 0); err != nil {
		return cfg, err
	}
	if cfg.PreviewWidth, err = intVar(get, "IMAGEFILTER_PREVIEW_WIDTH", defaultPreviewWidth, 1); err != nil {
		return cfg, err
	}
	if cfg.PreviewHeight, err = intVar(get, "IMAGEFILTER_PREVIEW_HEIGHT", defaultPreviewHeight, 1); err != nil {
		return cfg, err
	}

	if s := get("IMAGEFILTER_NOISE_SEED"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("IMAGEFILTER_NOISE_SEED: %w", err)
		}
		cfg.NoiseSeed = &seed
	}

	return cfg, nil
}

func intVar(get func(string) string, key string, def, floor int) (int, error) {
	s := get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v < floor {
		return 0, fmt.Errorf("%s must be >= %d, got %d", key, floor, v)
	}
	return v, nil
}
