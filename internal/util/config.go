package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names a config file used when -config is not given.
const ConfigEnv = "WOOJIN_CONFIG"

type Configuration struct {
	Version   string `toml:"-" yaml:"-"`
	BuildDate string `toml:"-" yaml:"-"`
	Commit    string `toml:"-" yaml:"-"`

	IndentWidth  int    `toml:"indent_width" yaml:"indent_width"`
	LogLevel     string `toml:"log_level" yaml:"log_level"`
	LogFile      string `toml:"log_file" yaml:"log_file"`
	Journal      string `toml:"journal" yaml:"journal"` // run journal DSN, empty disables it
	History      string `toml:"history" yaml:"history"` // REPL history file
	DebugJsonAST bool   `toml:"debug_ast" yaml:"debug_ast"`
	DebugTxtAST  bool   `toml:"debug_ast_text" yaml:"debug_ast_text"`
	Color        bool   `toml:"color" yaml:"color"`
}

func DefaultConfiguration() Configuration {
	history := ".woojin_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".woojin_history")
	}
	return Configuration{
		IndentWidth: 4,
		LogLevel:    "none",
		History:     history,
		Color:       true,
	}
}

// ConfigPath returns the config file to load: the flag value, else the
// WOOJIN_CONFIG environment variable, else nothing.
func ConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(ConfigEnv)
}

// LoadConfigFile overlays the keys present in a .toml or .yaml file onto
// config.
func LoadConfigFile(path string, config *Configuration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s must be .toml, .yaml or .yml", path)
	}

	if config.IndentWidth <= 0 {
		return fmt.Errorf("config %s: indent_width must be positive, got %d", path, config.IndentWidth)
	}
	return nil
}
