package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	API   APIConfig
	Poll  PollConfig
	Cache CacheConfig
	Redis RedisConfig
	Web   WebConfig
	Shell ShellConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PollConfig struct {
	Interval time.Duration
}

type CacheConfig struct {
	Path    string
	Enabled bool
}

// RedisConfig enables the optional cross-terminal order claim lock. With an
// empty Addr the client runs standalone and claims are skipped.
type RedisConfig struct {
	Addr       string
	ClaimTTL   time.Duration
	TerminalID string
}

type WebConfig struct {
	Addr         string
	MenuBaseURL  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ShellConfig carries the two environment-detection signals: whether a native
// bridge is present and what user agent the host webview reports.
type ShellConfig struct {
	NativeBridge bool
	UserAgent    string
	DownloadsDir string
}

func Load() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout: time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Poll: PollConfig{
			Interval: time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 3)) * time.Second,
		},
		Cache: CacheConfig{
			Path:    getEnv("CACHE_DB_PATH", "booth-cache.db"),
			Enabled: getEnvBool("CACHE_ENABLED", true),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			ClaimTTL:   time.Duration(getEnvInt("CLAIM_TTL_SECONDS", 120)) * time.Second,
			TerminalID: getEnv("TERMINAL_ID", ""),
		},
		Web: WebConfig{
			Addr:         getEnv("WEB_ADDR", ":8090"),
			MenuBaseURL:  getEnv("MENU_BASE_URL", "http://localhost:5000"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Shell: ShellConfig{
			NativeBridge: getEnvBool("NATIVE_BRIDGE", false),
			UserAgent:    getEnv("USER_AGENT", ""),
			DownloadsDir: getEnv("DOWNLOADS_DIR", "downloads"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
