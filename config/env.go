package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	CanvasWidth    int
	CanvasHeight   int
	WordsFile      string
	WordsPostgres  string
	WordsRedis     string
	WordsRedisKey  string
	AllowedOrigins []string
	RoundDuration  time.Duration
	LogLevel       string
	LogPretty      bool
	GinMode        string
}

var ErrInvalidConfig = errors.New("invalid-config")

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		ListenAddr:    get("LISTEN_ADDR", ":5000"),
		WordsFile:     get("WORDS_FILE", ""),
		WordsPostgres: get("WORDS_POSTGRES_URL", ""),
		WordsRedis:    get("WORDS_REDIS_URL", ""),
		WordsRedisKey: get("WORDS_REDIS_KEY", "words"),
		LogLevel:      get("LOG_LEVEL", "info"),
		GinMode:       get("GIN_MODE", ""),
	}

	var err error
	if cfg.CanvasWidth, err = positiveInt("CANVAS_WIDTH", get("CANVAS_WIDTH", "100")); err != nil {
		return Config{}, err
	}
	if cfg.CanvasHeight, err = positiveInt("CANVAS_HEIGHT", get("CANVAS_HEIGHT", "50")); err != nil {
		return Config{}, err
	}

	cfg.RoundDuration, err = time.ParseDuration(get("ROUND_DURATION", "120s"))
	if err != nil || cfg.RoundDuration < time.Second {
		return Config{}, fmt.Errorf("%w: ROUND_DURATION must be a duration of at least 1s", ErrInvalidConfig)
	}

	if cfg.LogPretty, err = strconv.ParseBool(get("LOG_PRETTY", "false")); err != nil {
		return Config{}, fmt.Errorf("%w: LOG_PRETTY: %w", ErrInvalidConfig, err)
	}

	if origins := get("ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > 65535 {
		return 0, fmt.Errorf("%w: %s must be an integer between 1 and 65535", ErrInvalidConfig, key)
	}
	return n, nil
}
