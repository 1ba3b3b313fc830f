package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"fex/internal/constants"
	apperrors "fex/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Shell   ShellConfig   `yaml:"shell"`
	List    ListConfig    `yaml:"list"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// ShellConfig represents prompt-related settings
type ShellConfig struct {
	Prompt string `yaml:"prompt"` // "auto", "always", "never"
	Banner bool   `yaml:"banner"`
}

// ListConfig represents directory listing settings
type ListConfig struct {
	ShowHidden       bool   `yaml:"showHidden"`
	SortBy           string `yaml:"sortBy"`           // "name", "size", "modified", "extension"
	SortOrder        string `yaml:"sortOrder"`        // "asc", "desc"
	DirectoriesFirst bool   `yaml:"directoriesFirst"` // Whether to show directories before files
}

// HistoryConfig represents navigation history settings
type HistoryConfig struct {
	MaxEntries int `yaml:"maxEntries"` // Maximum number of paths to remember
}

// LogConfig represents diagnostic logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// envOverrides are read from FEX_* variables; unset fields stay nil.
type envOverrides struct {
	LogLevel   *string `split_words:"true"`
	Prompt     *string
	ShowHidden *bool `split_words:"true"`
	HistoryMax *int  `split_words:"true"`
}

// Manager provides configuration management functionality
type Manager struct {
	configPath string
	fs         afero.Fs
	debugPrint func(format string, args ...interface{})
}

// NewManager creates a configuration manager for path on the host
// filesystem. An empty path selects the per-user default location.
func NewManager(path string, debugPrint func(format string, args ...interface{})) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	return NewManagerWithFs(afero.NewOsFs(), path, debugPrint)
}

// NewManagerWithFs creates a manager backed by an arbitrary filesystem.
func NewManagerWithFs(fs afero.Fs, path string, debugPrint func(format string, args ...interface{})) *Manager {
	if debugPrint == nil {
		debugPrint = func(string, ...interface{}) {}
	}
	return &Manager{configPath: path, fs: fs, debugPrint: debugPrint}
}

// Path returns the file the manager reads and writes.
func (m *Manager) Path() string {
	return m.configPath
}

// Load loads configuration from file, applies FEX_* environment
// overrides and validates the result.
func (m *Manager) Load() (*Config, error) {
	config := Default()

	data, err := afero.ReadFile(m.fs, m.configPath)
	switch {
	case err == nil:
		// yaml.v3 leaves keys absent from the file at their default values
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, apperrors.NewConfigError("load", "error parsing config file "+m.configPath, err)
		}
	case os.IsNotExist(err):
		m.debugPrint("Config file not found, using defaults: %v", err)
	default:
		return nil, apperrors.NewConfigError("load", "error reading config file "+m.configPath, err)
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves configuration to file
func (m *Manager) Save(config *Config) error {
	configDir := filepath.Dir(m.configPath)
	if err := m.fs.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	m.debugPrint("Config written to %s", m.configPath)
	return nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			Prompt: constants.PromptAuto,
			Banner: true,
		},
		List: ListConfig{
			ShowHidden:       constants.DefaultShowHiddenFiles,
			SortBy:           constants.DefaultSortBy,
			SortOrder:        constants.DefaultSortOrder,
			DirectoriesFirst: constants.DefaultDirectoriesFirst,
		},
		History: HistoryConfig{
			MaxEntries: constants.DefaultHistoryEntries,
		},
		Log: LogConfig{
			Level: constants.DefaultLogLevel,
		},
	}
}

// Validate rejects values the shell cannot act on
func (c *Config) Validate() error {
	switch c.Shell.Prompt {
	case constants.PromptAuto, constants.PromptAlways, constants.PromptNever:
	default:
		return apperrors.NewConfigError("validate", fmt.Sprintf("invalid shell.prompt %q", c.Shell.Prompt), nil)
	}
	switch c.List.SortBy {
	case "name", "size", "modified", "extension":
	default:
		return apperrors.NewConfigError("validate", fmt.Sprintf("invalid list.sortBy %q", c.List.SortBy), nil)
	}
	switch c.List.SortOrder {
	case "asc", "desc":
	default:
		return apperrors.NewConfigError("validate", fmt.Sprintf("invalid list.sortOrder %q", c.List.SortOrder), nil)
	}
	if c.History.MaxEntries <= 0 {
		return apperrors.NewConfigError("validate", fmt.Sprintf("history.maxEntries must be positive, got %d", c.History.MaxEntries), nil)
	}
	return nil
}

func applyEnv(c *Config) error {
	var env envOverrides
	if err := envconfig.Process(constants.EnvPrefix, &env); err != nil {
		return apperrors.NewConfigError("env", "invalid "+constants.EnvPrefix+"_* environment", err)
	}
	if env.LogLevel != nil {
		c.Log.Level = *env.LogLevel
	}
	if env.Prompt != nil {
		c.Shell.Prompt = *env.Prompt
	}
	if env.ShowHidden != nil {
		c.List.ShowHidden = *env.ShowHidden
	}
	if env.HistoryMax != nil {
		c.History.MaxEntries = *env.HistoryMax
	}
	return nil
}

// DefaultPath returns the path to the configuration file following OS conventions
func DefaultPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\fex\config.yaml
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, constants.VendorName)

	case "darwin":
		// macOS: ~/Library/Application Support/fex/config.yaml
		home, err := os.UserHomeDir()
		if err != nil {
			return constants.ConfigFileName
		}
		configDir = filepath.Join(home, "Library", "Application Support", constants.VendorName)

	default:
		// Linux/Unix: $XDG_CONFIG_HOME/fex/config.yaml or ~/.config/fex/config.yaml
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			xdgConfigHome = filepath.Join(home, ".config")
		}
		configDir = filepath.Join(xdgConfigHome, constants.VendorName)
	}

	return filepath.Join(configDir, constants.ConfigFileName)
}
