// Package daemon manages the Aura daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Storage   StorageConfig   `toml:"storage"`
	Points    PointsConfig    `toml:"points"`
	Streak    StreakConfig    `toml:"streak"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls where state lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// PointsConfig controls the points economy.
type PointsConfig struct {
	DailyCap         int64 `toml:"daily_cap"`
	MoodPoints       int64 `toml:"mood_points"`
	BoostPoints      int64 `toml:"boost_points"`
	JournalPoints    int64 `toml:"journal_points"`
	MeditationPoints int64 `toml:"meditation_points"`
	WorkoutPoints    int64 `toml:"workout_points"`
}

// StreakConfig controls streak milestones.
type StreakConfig struct {
	Milestones []int `toml:"milestones"`
}

// TelemetryConfig controls observability.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := auraHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7870,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: homeDir,
		},
		Points: PointsConfig{
			DailyCap:         50,
			MoodPoints:       5,
			BoostPoints:      10,
			JournalPoints:    10,
			MeditationPoints: 15,
			WorkoutPoints:    15,
		},
		Streak: StreakConfig{
			Milestones: []int{7, 30, 100},
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
		Logging: LoggingConfig{
			Level:     "info",
			File:      filepath.Join(homeDir, "aura.log"),
			MaxSizeMB: 50,
			MaxFiles:  5,
		},
	}
}

// LoadConfig reads config from ~/.aura/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(auraHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.aura/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(auraHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// auraHome returns the Aura data directory.
func auraHome() string {
	if env := os.Getenv("AURA_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".aura")
}

// AuraHome is exported for use by other packages.
func AuraHome() string {
	return auraHome()
}
