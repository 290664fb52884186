package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "activitydo.db"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Detail  string `toml:"detail"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	Edit    string `toml:"edit"`
	Filter  string `toml:"filter"`
	Archive string `toml:"archive"`
}

type Config struct {
	DBPath        string            `toml:"db_path"`
	DefaultFilter string            `toml:"default_filter"`
	Categories    map[string]string `toml:"categories"`
	Keys          Keymap            `toml:"keys"`
}

// CategoryNames returns the configured categories in a fixed order,
// with the "All" sentinel first, so filter cycling is deterministic.
func (c Config) CategoryNames() []string {
	names := []string{"All"}
	for _, name := range defaultCategoryOrder {
		if _, ok := c.Categories[name]; ok {
			names = append(names, name)
		}
	}
	for name := range c.Categories {
		if !contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Emoji returns the marker for a category, or a neutral one.
func (c Config) Emoji(category string) string {
	if e, ok := c.Categories[category]; ok {
		return e
	}
	return "🗒️"
}

func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "activitydo", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = "All"
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = defaultCategories()
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var defaultCategoryOrder = []string{"Work", "Personal", "Shopping", "Health", "Other"}

func defaultCategories() map[string]string {
	return map[string]string{
		"Work":     "💼",
		"Personal": "🏠",
		"Shopping": "🛒",
		"Health":   "💪",
		"Other":    "📌",
	}
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		DefaultFilter: "All",
		Categories:    defaultCategories(),
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Detail:  "enter",
			Confirm: "enter",
			Cancel:  "esc",
			Edit:    "e",
			Filter:  "f",
			Archive: "c",
		},
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
