// Package config loads chartprobe configuration from environment variables,
// an optional .env file, and an optional YAML scenario file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for a probe run.
type Config struct {
	// Target application
	AppURL    string
	TokenPath string

	// CDP connection settings
	CDPAddress string
	CDPPort    int

	// Browser lifecycle
	LaunchBrowser bool
	Headless      bool
	ProfileDir    string
	WindowSize    string

	// Artifact output
	OutputDir      string
	ConsoleLogName string

	// Wait budgets
	EvalTimeoutMS   int
	ReadyTimeoutMS  int
	SettleTimeoutMS int

	// Behavior
	HoldOpen     bool
	ScenarioFile string
	NtfyEndpoint string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		AppURL:          getEnvOrDefault("CHARTPROBE_APP_URL", "http://localhost:3005"),
		TokenPath:       getEnvOrDefault("CHARTPROBE_TOKEN_PATH", "/token/token-7"),
		CDPAddress:      getEnvOrDefault("CHARTPROBE_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:         getEnvIntOrDefault("CHARTPROBE_CDP_PORT", 9222),
		LaunchBrowser:   getEnvBoolOrDefault("CHARTPROBE_LAUNCH_BROWSER", true),
		Headless:        getEnvBoolOrDefault("CHARTPROBE_HEADLESS", false),
		ProfileDir:      getEnvOrDefault("CHARTPROBE_PROFILE_DIR", "./.chartprobe/profile"),
		WindowSize:      getEnvOrDefault("CHARTPROBE_WINDOW_SIZE", "1920,1080"),
		OutputDir:       getEnvOrDefault("CHARTPROBE_OUTPUT_DIR", "/tmp"),
		ConsoleLogName:  getEnvOrDefault("CHARTPROBE_CONSOLE_LOG_NAME", "console-logs.txt"),
		EvalTimeoutMS:   getEnvIntOrDefault("CHARTPROBE_EVAL_TIMEOUT_MS", 5000),
		ReadyTimeoutMS:  getEnvIntOrDefault("CHARTPROBE_READY_TIMEOUT_MS", 15000),
		SettleTimeoutMS: getEnvIntOrDefault("CHARTPROBE_SETTLE_TIMEOUT_MS", 3000),
		HoldOpen:        getEnvBoolOrDefault("CHARTPROBE_HOLD_OPEN", false),
		ScenarioFile:    getEnvOrDefault("CHARTPROBE_SCENARIO", ""),
		NtfyEndpoint:    getEnvOrDefault("CHARTPROBE_NTFY_ENDPOINT", ""),
		LogLevel:        strings.ToLower(getEnvOrDefault("CHARTPROBE_LOG_LEVEL", "info")),
		LogFile:         getEnvOrDefault("CHARTPROBE_LOG_FILE", "logs/chartprobe.log"),
	}

	if cfg.EvalTimeoutMS < 1000 {
		cfg.EvalTimeoutMS = 1000
	}
	if cfg.ReadyTimeoutMS < 1000 {
		cfg.ReadyTimeoutMS = 1000
	}
	return cfg, nil
}

// CDPURL returns the CDP HTTP endpoint used by the chromedp remote allocator.
func (c *Config) CDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

// TargetURL joins the app base URL with the token page path.
func (c *Config) TargetURL() string {
	base := strings.TrimRight(c.AppURL, "/")
	if c.TokenPath == "" {
		return base
	}
	return base + path.Join("/", c.TokenPath)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
