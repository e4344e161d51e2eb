package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	configFileName = "config.json"
	envFileName    = ".env"
)

// Config holds application configuration.
type Config struct {
	Headless           bool     `json:"headless"`
	LLMAPIURL          string   `json:"llmApiUrl"`
	LLMModel           string   `json:"llmModel"`
	LLMAPIKey          string   `json:"llmApiKey,omitempty"`
	Backend            string   `json:"backend"`
	DataFile           string   `json:"dataFile"`
	ScreenshotDir      string   `json:"screenshotDir"`
	LogLevel           string   `json:"logLevel"`
	LogFile            string   `json:"logFile"`
	Notifications      bool     `json:"notifications"`
	CullExcludeDomains []string `json:"cullExcludeDomains"`
}

// DefaultConfig returns the default configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Headless:           true,
		LLMAPIURL:          "http://localhost:11434/api/chat",
		LLMModel:           "llama3.2",
		Backend:            BackendCSV,
		DataFile:           filepath.Join(dir, "bookmarks.csv"),
		ScreenshotDir:      filepath.Join(dir, "screenshots"),
		LogLevel:           "info",
		LogFile:            filepath.Join(dir, "pagemark.log"),
		Notifications:      false,
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
	}
}

// LoadConfig reads config.json from dir.
// Creates the file with defaults if it doesn't exist. Environment overrides
// are applied afterwards and never written back.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFileName)
	defaults := DefaultConfig(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		config := defaults
		// Non-fatal: run with defaults even if the file can't be written
		_ = SaveConfig(dir, &config)
		if err := applyEnv(dir, &config); err != nil {
			return nil, err
		}
		return &config, nil
	}

	// Missing keys keep their default values
	config := defaults
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for explicitly emptied fields
	if config.LLMAPIURL == "" {
		config.LLMAPIURL = defaults.LLMAPIURL
	}
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.DataFile == "" || config.DataFile == defaults.DataFile {
		config.DataFile = defaultDataFile(dir, config.Backend)
	}
	if config.ScreenshotDir == "" {
		config.ScreenshotDir = defaults.ScreenshotDir
	}
	if config.LogFile == "" {
		config.LogFile = defaults.LogFile
	}
	if config.CullExcludeDomains == nil {
		config.CullExcludeDomains = defaults.CullExcludeDomains
	}

	if err := applyEnv(dir, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes config.json into dir.
// Creates the directory if it doesn't exist.
func SaveConfig(dir string, config *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, configFileName), data, 0600)
}

// DefaultConfigDir returns the config directory: $PAGEMARK_HOME or ~/.config/pagemark
func DefaultConfigDir() (string, error) {
	if dir := os.Getenv("PAGEMARK_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "pagemark"), nil
}

func defaultDataFile(dir, backend string) string {
	switch backend {
	case BackendSQLite:
		return filepath.Join(dir, "bookmarks.db")
	case BackendJSON:
		return filepath.Join(dir, "bookmarks.json")
	default:
		return filepath.Join(dir, "bookmarks.csv")
	}
}

// applyEnv loads dir/.env (if present) and applies PAGEMARK_* overrides.
// Variables already set in the process environment win over the .env file.
func applyEnv(dir string, config *Config) error {
	envPath := filepath.Join(dir, envFileName)
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if v := os.Getenv("PAGEMARK_LLM_API_URL"); v != "" {
		config.LLMAPIURL = v
	}
	if v := os.Getenv("PAGEMARK_LLM_MODEL"); v != "" {
		config.LLMModel = v
	}
	if v := os.Getenv("PAGEMARK_LLM_API_KEY"); v != "" {
		config.LLMAPIKey = v
	}
	if v := os.Getenv("PAGEMARK_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			config.Headless = b
		}
	}
	if v := os.Getenv("PAGEMARK_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	return nil
}
