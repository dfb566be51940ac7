package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	RankingBackendFile     = "file"
	RankingBackendPostgres = "postgres"
	RankingBackendRedis    = "redis"
)

type Config struct {
	Stage          string
	Port           int
	MinPlayers     int
	TurnTimeout    time.Duration
	WaitPeriod     time.Duration
	SurpriseRound  int
	RankingBackend string
	RankingFile    string
	DatabaseUrl    string
	RedisAddr      string
}

// Load reads the environment. Outside of prod a .env file is loaded
// first if present.
func Load() (*Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		Stage:          getEnv("STAGE", StageDev),
		RankingBackend: getEnv("RANKING_BACKEND", RankingBackendFile),
		RankingFile:    getEnv("RANKING_FILE", "ranking.json"),
		DatabaseUrl:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8000); err != nil {
		return nil, err
	}
	if cfg.MinPlayers, err = getEnvInt("MIN_PLAYERS", 2); err != nil {
		return nil, err
	}
	if cfg.SurpriseRound, err = getEnvInt("SURPRISE_ROUND", 10); err != nil {
		return nil, err
	}
	if cfg.TurnTimeout, err = getEnvDuration("TURN_TIMEOUT", time.Second*60); err != nil {
		return nil, err
	}
	if cfg.WaitPeriod, err = getEnvDuration("WAIT_PERIOD", time.Second*5); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Stage != StageDev && c.Stage != StageProd {
		return fmt.Errorf("stage must be either dev or prod, got: %s", c.Stage)
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("MIN_PLAYERS must be at least 2, got: %d", c.MinPlayers)
	}

	switch c.RankingBackend {
	case RankingBackendFile:
	case RankingBackendPostgres:
		if c.DatabaseUrl == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s ranking backend", c.RankingBackend)
		}
	case RankingBackendRedis:
	default:
		return fmt.Errorf("unknown ranking backend: %s", c.RankingBackend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// Accepts Go durations ("90s") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
