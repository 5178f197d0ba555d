package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DataDir  string         `json:"data_dir" mapstructure:"data_dir"`
	Generate GenerateConfig `json:"generate" mapstructure:"generate"`
	Import   ImportConfig   `json:"import" mapstructure:"import"`
	Log      LogConfig      `json:"log" mapstructure:"log"`
}

// GenerateConfig holds the target cardinality of every factory.
type GenerateConfig struct {
	Users       int    `json:"users" mapstructure:"users"`
	Theses      int    `json:"theses" mapstructure:"theses"`
	Submissions int    `json:"submissions" mapstructure:"submissions"`
	Reviews     int    `json:"reviews" mapstructure:"reviews"`
	Defenses    int    `json:"defenses" mapstructure:"defenses"`
	Archived    int    `json:"archived" mapstructure:"archived"`
	Seed        int64  `json:"seed" mapstructure:"seed"`                 // 0 = derive from clock
	Format      string `json:"format,omitempty" mapstructure:"format"` // json | extjson
}

type ImportConfig struct {
	URI         string   `json:"uri,omitempty" mapstructure:"uri"`
	URIEnv      string   `json:"uri_env" mapstructure:"uri_env"`
	Database    string   `json:"database" mapstructure:"database"`
	Collections []string `json:"collections,omitempty" mapstructure:"collections"`
	Drop        bool     `json:"drop" mapstructure:"drop"`
	Indexes     bool     `json:"indexes" mapstructure:"indexes"`
	IndexFile   string   `json:"index_file,omitempty" mapstructure:"index_file"`
}

type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

const DefaultMongoURI = "mongodb://localhost:27017"

var supportedFormats = []string{"json", "extjson"}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")

	v.SetDefault("generate.users", 100)
	v.SetDefault("generate.theses", 50)
	v.SetDefault("generate.submissions", 150)
	v.SetDefault("generate.reviews", 150)
	v.SetDefault("generate.defenses", 30)
	v.SetDefault("generate.archived", 20)
	v.SetDefault("generate.seed", 0)
	v.SetDefault("generate.format", "json")

	v.SetDefault("import.uri_env", "MONGODB_URI")
	v.SetDefault("import.database", "lvtn")
	v.SetDefault("import.drop", false)
	v.SetDefault("import.indexes", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --collections arrives as a single comma separated flag value
	if len(cfg.Import.Collections) == 1 && strings.Contains(cfg.Import.Collections[0], ",") {
		cfg.Import.Collections = strings.Split(cfg.Import.Collections[0], ",")
	}
	var cleaned []string
	for _, name := range cfg.Import.Collections {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, strings.TrimSuffix(name, ".json"))
		}
	}
	cfg.Import.Collections = cleaned

	return &cfg, nil
}

func (c *Config) Validate() error {
	counts := map[string]int{
		"users":       c.Generate.Users,
		"theses":      c.Generate.Theses,
		"submissions": c.Generate.Submissions,
		"reviews":     c.Generate.Reviews,
		"defenses":    c.Generate.Defenses,
		"archived":    c.Generate.Archived,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("%w: generate.%s must be >= 0, got %d", ErrInvalidConfig, name, n)
		}
	}

	supported := false
	for _, f := range supportedFormats {
		if c.Generate.Format == f {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: unsupported format %q. Supported formats: %v", ErrInvalidConfig, c.Generate.Format, supportedFormats)
	}

	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir cannot be empty", ErrInvalidConfig)
	}

	return nil
}

// GetMongoURI prefers an explicit uri, then the configured environment variable.
func (c *Config) GetMongoURI() string {
	if c.Import.URI != "" {
		return c.Import.URI
	}
	if c.Import.URIEnv != "" {
		if uri := os.Getenv(c.Import.URIEnv); uri != "" {
			return uri
		}
	}
	return DefaultMongoURI
}
