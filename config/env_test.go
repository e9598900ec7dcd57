package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Equal(t, 100, cfg.CanvasWidth)
	assert.Equal(t, 50, cfg.CanvasHeight)
	assert.Equal(t, 120*time.Second, cfg.RoundDuration)
	assert.Equal(t, "words", cfg.WordsRedisKey)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.LogPretty)
}

func TestFromLookup_Values(t *testing.T) {
	t.Parallel()
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"LISTEN_ADDR":     "127.0.0.1:8080",
		"CANVAS_WIDTH":    "80",
		"CANVAS_HEIGHT":   "24",
		"WORDS_FILE":      "~/words.txt",
		"ALLOWED_ORIGINS": "http://localhost:3000, https://termibbl.example ,",
		"ROUND_DURATION":  "90s",
		"LOG_PRETTY":      "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, 80, cfg.CanvasWidth)
	assert.Equal(t, 24, cfg.CanvasHeight)
	assert.Equal(t, "~/words.txt", cfg.WordsFile)
	assert.Equal(t, []string{"http://localhost:3000", "https://termibbl.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.RoundDuration)
	assert.True(t, cfg.LogPretty)
}

func TestFromLookup_Invalid(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "width not a number", env: map[string]string{"CANVAS_WIDTH": "wide"}},
		{name: "height zero", env: map[string]string{"CANVAS_HEIGHT": "0"}},
		{name: "width too large", env: map[string]string{"CANVAS_WIDTH": "70000"}},
		{name: "round duration garbage", env: map[string]string{"ROUND_DURATION": "soon"}},
		{name: "round duration too short", env: map[string]string{"ROUND_DURATION": "10ms"}},
		{name: "log pretty garbage", env: map[string]string{"LOG_PRETTY": "sometimes"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromLookup(lookupFrom(tc.env))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TERMIBBL_TEST_ONLY=1\nCANVAS_WIDTH=42\n"), 0o600))
	t.Setenv("CANVAS_WIDTH", "64")
	t.Cleanup(func() { os.Unsetenv("TERMIBBL_TEST_ONLY") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.CanvasWidth, "environment wins over the file")
	assert.Equal(t, "1", os.Getenv("TERMIBBL_TEST_ONLY"))
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}
