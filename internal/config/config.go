package config

import (
	"os"
	"strconv"
	"time"

	"crewdeck/internal/game"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string // optional; builtin catalog when empty

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	AllowedOrigin string

	// ws endpoint rate limiting
	WSRateLimit  int
	WSRateWindow time.Duration

	// stale forming-session cleanup
	CleanupInterval time.Duration
	CleanupMaxAge   time.Duration

	Game game.Config
}

// Load reads configuration from the environment, with a .env file as a
// convenience for local runs. Every value has a default; nothing is
// required.
func Load() *Config {
	_ = godotenv.Load()

	g := game.DefaultConfig()
	g.StartDelay = envDuration("LOBBY_START_DELAY_MS", g.StartDelay)
	g.JoinGrace = envDuration("SESSION_JOIN_GRACE_MS", g.JoinGrace)
	g.PrepareDuration = envDuration("SESSION_PREPARE_MS", g.PrepareDuration)
	g.StartingDuration = envDuration("SESSION_STARTING_MS", g.StartingDuration)
	g.TaskExpiry = envDuration("TASK_EXPIRE_MS", g.TaskExpiry)
	g.GameDuration = envDuration("GAME_DURATION_MS", g.GameDuration)
	g.WinScore = envInt("WIN_SCORE", g.WinScore)
	g.Reward = envInt("TASK_REWARD", g.Reward)
	g.Penalty = envInt("TASK_PENALTY", g.Penalty)

	return &Config{
		AppPort:     envString("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		LogLevel: envString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		WSRateLimit:  envInt("WS_RATE_LIMIT", 60),
		WSRateWindow: envDuration("WS_RATE_WINDOW_MS", time.Minute),

		CleanupInterval: envDuration("CLEANUP_INTERVAL_MS", 10*time.Minute),
		CleanupMaxAge:   envDuration("CLEANUP_MAX_AGE_MS", time.Hour),

		Game: g,
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return def
}
