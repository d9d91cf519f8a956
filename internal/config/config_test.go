package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-studio/internal/logger"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, logger.InfoLevel, cfg.LogLevel)
	assert.Equal(t, CodecStd, cfg.Codec)
	assert.Equal(t, 500, cfg.PreviewWidth)
	assert.Equal(t, 300, cfg.PreviewHeight)
	assert.Nil(t, cfg.NoiseSeed)
}

func TestFromLookup(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"LOG_LEVEL":                  "WARN",
		"LOG_FORMAT":                 "json",
		"IMAGEFILTER_CODEC":          "opencv",
		"IMAGEFILTER_MAX_HISTORY":    "20",
		"IMAGEFILTER_PREVIEW_WIDTH":  "640",
		"IMAGEFILTER_PREVIEW_HEIGHT": " 480 ",
		"IMAGEFILTER_NOISE_SEED":     "42",
	}))
	require.NoError(t, err)

	assert.Equal(t, logger.WarnLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, CodecOpenCV, cfg.Codec)
	assert.Equal(t, 20, cfg.MaxHistory)
	assert.Equal(t, 640, cfg.PreviewWidth)
	assert.Equal(t, 480, cfg.PreviewHeight)
	require.NotNil(t, cfg.NoiseSeed)
	assert.Equal(t, uint64(42), *cfg.NoiseSeed)
}

func TestDebugFlagOnlyAppliesWithoutLogLevel(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"DEBUG": "1"}))
	require.NoError(t, err)
	assert.Equal(t, logger.DebugLevel, cfg.LogLevel)

	cfg, err = FromLookup(lookupFrom(map[string]string{"DEBUG": "1", "LOG_LEVEL": "error"}))
	require.NoError(t, err)
	assert.Equal(t, logger.ErrorLevel, cfg.LogLevel)
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"level":   {"LOG_LEVEL": "loud"},
		"format":  {"LOG_FORMAT": "xml"},
		"codec":   {"IMAGEFILTER_CODEC": "magick"},
		"history": {"IMAGEFILTER_MAX_HISTORY": "-1"},
		"width":   {"IMAGEFILTER_PREVIEW_WIDTH": "0"},
		"height":  {"IMAGEFILTER_PREVIEW_HEIGHT": "tall"},
		"seed":    {"IMAGEFILTER_NOISE_SEED": "-5"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := Default()
	seed := uint64(9)
	cfg.Merge(&Config{Codec: CodecOpenCV, MaxHistory: 3, NoiseSeed: &seed})

	assert.Equal(t, CodecOpenCV, cfg.Codec)
	assert.Equal(t, 3, cfg.MaxHistory)
	assert.Equal(t, 500, cfg.PreviewWidth)
	require.NotNil(t, cfg.NoiseSeed)
	seed = 10
	assert.Equal(t, uint64(9), *cfg.NoiseSeed)

	before := cfg
	cfg.Merge(&Config{})
	assert.Equal(t, before, cfg)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("IMAGEFILTER_MAX_HISTORY=7\nIMAGEFILTER_CODEC=opencv\n"), 0o600))

	t.Setenv("IMAGEFILTER_CODEC", "std")
	t.Setenv("IMAGEFILTER_MAX_HISTORY", "")
	os.Unsetenv("IMAGEFILTER_MAX_HISTORY")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxHistory)
	assert.Equal(t, CodecStd, cfg.Codec, "existing variables win")
}
