package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "VIDEOMASA_"

// envFiles are loaded in order; variables already set in the process win.
var envFiles = []string{".env", ".env.local"}

// LoadEnv loads .env files from the current directory when present.
func LoadEnv() ([]string, error) {
	var loaded []string
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return loaded, fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		loaded = append(loaded, envPath)
	}
	return loaded, nil
}

// Settings is the process configuration read from VIDEOMASA_* variables.
type Settings struct {
	WorkDir     string
	Host        string
	Port        string
	OpenBrowser bool
	ConfigPath  string
	HistoryDB   string
	Environment string
	LogLevel    string
}

// LoadSettings reads Settings from the environment and validates them.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		WorkDir:     getEnvOrDefault("WORK_DIR", DefaultWorkDir),
		Host:        getEnvOrDefault("HOST", DefaultHost),
		Port:        getEnvOrDefault("PORT", DefaultPort),
		OpenBrowser: truthy(getEnv("OPEN_BROWSER")),
		ConfigPath:  getEnv("CONFIG"),
		HistoryDB:   getEnv("HISTORY_DB"),
		Environment: strings.ToLower(getEnvOrDefault("ENV", DefaultEnvironment)),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", DefaultLogLevel),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	if err := ValidatePort(s.Port, envPrefix+"PORT"); err != nil {
		return err
	}
	switch s.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("%sENV must be development or production, got %q", envPrefix, s.Environment)
	}
	return nil
}

func (s *Settings) Development() bool {
	return s.Environment == "development"
}

// Addr is the listen address.
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// URL is what the browser should open.
func (s *Settings) URL() string {
	return "http://" + net.JoinHostPort("localhost", s.Port)
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func getEnvOrDefault(key, def string) string {
	if v := getEnv(key); v != "" {
		return v
	}
	return def
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
