package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"griddle/internal/eventbus"
)

// FileName is the per-directory config file name
const FileName = ".griddle.toml"

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Source  SourceConfig   `toml:"source"`
	Sorting SortingConfig  `toml:"sorting"`
	Columns []ColumnConfig `toml:"columns"`
	UI      UISettings     `toml:"ui"`
}

// SourceConfig selects where row data comes from
type SourceConfig struct {
	Mode  string `toml:"mode"` // "local" or "remote"
	Path  string `toml:"path"` // local CSV file
	Comma string `toml:"comma"`
	URL   string `toml:"url"` // remote endpoint
}

// SortingConfig is the grid-level sort configuration surface
type SortingConfig struct {
	Enabled   bool   `toml:"enabled"`
	Column    string `toml:"column"` // starting column, empty for none
	Direction string `toml:"direction"`
}

// ColumnConfig is the per-column configuration surface
type ColumnConfig struct {
	Name      string `toml:"name"`
	Title     string `toml:"title"`
	Type      string `toml:"type"`
	Width     int    `toml:"width"`
	Sortable  *bool  `toml:"sortable"`
	Sorted    bool   `toml:"sorted"`
	Direction string `toml:"direction"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowStatus     bool `toml:"show_status"`
	AutosaveOnExit bool `toml:"autosave_on_exit"`
}

// Service handles configuration loading and saving
type Service interface {
	LoadFromPath(path string) (*Config, error)
	SaveToPath(cfg *Config, path string) error
}

type service struct {
	bus eventbus.EventBus
}

// NewService creates a config service. The bus may be nil.
func NewService(bus eventbus.EventBus) Service {
	return &service{bus: bus}
}

// LoadFromPath loads configuration from a specific path
func (s *service) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigLoadedEvent{Path: path})
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (s *service) SaveToPath(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigSavedEvent{})
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Source: SourceConfig{
			Mode:  "local",
			Comma: ",",
		},
		Sorting: SortingConfig{
			Enabled: true,
		},
		UI: UISettings{
			ShowStatus:     true,
			AutosaveOnExit: true,
		},
	}
}
