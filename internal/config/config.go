package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in defaults, matching the file names the extractor has always used.
const (
	DefaultInput   = "movie_ids_x_x_x.json"
	DefaultOutput  = "ids.txt"
	DefaultIDField = "id"
)

// DefaultListKeys are the object keys checked, in order, for the list of
// movies before falling back to every value of the object.
var DefaultListKeys = []string{"ids", "movies"}

// Config represents the complete configuration for movieids
type Config struct {
	Input    string    `yaml:"input"`
	Output   string    `yaml:"output"`
	IDField  string    `yaml:"id_field"`
	ListKeys []string  `yaml:"list_keys"`
	Dev      DevConfig `yaml:"dev"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Input:    DefaultInput,
		Output:   DefaultOutput,
		IDField:  DefaultIDField,
		ListKeys: append([]string(nil), DefaultListKeys...),
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".movieids.yml", ".movieids.yaml", "movieids.yml", "movieids.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that the configuration can drive an extraction
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("input path must not be empty")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if c.IDField == "" {
		return fmt.Errorf("id field must not be empty")
	}
	if len(c.ListKeys) == 0 {
		return fmt.Errorf("list_keys must name at least one key")
	}
	for i, key := range c.ListKeys {
		if key == "" {
			return fmt.Errorf("list_keys[%d] must not be empty", i)
		}
	}
	return nil
}

// Overrides holds the command-line values the user actually passed. A nil
// field leaves the config file (or built-in default) value in place.
type Overrides struct {
	Input   *string
	Output  *string
	IDField *string
	Debug   bool
}

// LoadConfigWithCLI loads config with CLI argument precedence: any flag the
// user passed wins over the config file, even when its value matches the
// built-in default.
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Input != nil {
		cfg.Input = *cli.Input
	}
	if cli.Output != nil {
		cfg.Output = *cli.Output
	}
	if cli.IDField != nil {
		cfg.IDField = *cli.IDField
	}
	// Debug can only be switched on from the command line
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}
