package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	GitHub      GitHubConfig
	Leaderboard LeaderboardConfig
	Session     SessionConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

// GitHubConfig describes the remote API and the quota headers it reports.
type GitHubConfig struct {
	APIURL          string
	Org             string
	RemainingHeader string
	ResetHeader     string
	LimitHeader     string
}

type LeaderboardConfig struct {
	TopRepositories     int
	ContributorsPerPage int
	RequestDelay        time.Duration
	RefreshInterval     time.Duration
	StatsInterval       time.Duration
	EstimateSeed        int64
	SnapshotCacheSize   int
}

type SessionConfig struct {
	Secret string
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = FromEnv()
	return nil
}

// DefaultSessionSecret signs filter cookies when SESSION_SECRET is unset
const DefaultSessionSecret = "default-secret-key"

// FromEnv builds a Config from the current environment without touching .env files
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./orgboard.db"),
		},
		GitHub: GitHubConfig{
			APIURL:          getEnv("GITHUB_API_URL", "https://api.github.com/"),
			Org:             getEnv("GITHUB_ORG", ""),
			RemainingHeader: getEnv("RATE_LIMIT_REMAINING_HEADER", "X-RateLimit-Remaining"),
			ResetHeader:     getEnv("RATE_LIMIT_RESET_HEADER", "X-RateLimit-Reset"),
			LimitHeader:     getEnv("RATE_LIMIT_LIMIT_HEADER", "X-RateLimit-Limit"),
		},
		Leaderboard: LeaderboardConfig{
			TopRepositories:     getEnvAsInt("TOP_REPOSITORIES", 10),
			ContributorsPerPage: getEnvAsInt("CONTRIBUTORS_PER_PAGE", 100),
			RequestDelay:        time.Duration(getEnvAsInt("REQUEST_DELAY_MS", 100)) * time.Millisecond,
			RefreshInterval:     time.Duration(getEnvAsPositiveInt("REFRESH_INTERVAL_MINUTES", 30)) * time.Minute,
			StatsInterval:       time.Duration(getEnvAsPositiveInt("STATS_INTERVAL_MINUTES", 60)) * time.Minute,
			EstimateSeed:        int64(getEnvAsInt("ESTIMATE_SEED", 0)),
			SnapshotCacheSize:   getEnvAsInt("SNAPSHOT_CACHE_SIZE", 16),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsPositiveInt is getEnvAsInt with zero and negative values replaced by the default
func getEnvAsPositiveInt(key string, defaultValue int) int {
	if value := getEnvAsInt(key, defaultValue); value > 0 {
		return value
	}
	return defaultValue
}
