package config

import (
	"errors"
	"fmt"
	"os"

	"gossipc/internal/compliance"
	"gossipc/internal/generator"
	"gossipc/internal/schema"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath   = "gossipc.yaml"
	DefaultDBPath = "gossipc.db"
	envPrefix     = "GOSSIPC"
)

type Config struct {
	Metadata struct {
		Standard string `yaml:"standard"`
		Compiler string `yaml:"compiler"`
	} `yaml:"metadata"`
	Defaults schema.Defaults   `yaml:"defaults"`
	Policy   compliance.Policy `yaml:"policy"`
	Diagram  struct {
		Format string `yaml:"format"` // plantuml | mermaid
		Theme  string `yaml:"theme"`
	} `yaml:"diagram"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Scan struct {
		Include []string `yaml:"include"`
		Ignore  []string `yaml:"ignore"`
	} `yaml:"scan"`
}

// envOverrides are read from GOSSIPC_* variables and win over the file.
type envOverrides struct {
	Standard      string `split_words:"true"`
	Compiler      string `split_words:"true"`
	DBPath        string `split_words:"true"`
	LogLevel      string `split_words:"true"`
	DiagramFormat string `split_words:"true"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Metadata.Standard = "IWU_SAFE_HOUSING_v1"
	cfg.Metadata.Compiler = "SSL_v1.0"
	cfg.Defaults = schema.DefaultDefaults()
	cfg.Policy = compliance.PolicyFromDefaults(cfg.Defaults)
	cfg.Diagram.Format = string(generator.FormatPlantUML)
	cfg.Diagram.Theme = "blueprint"
	cfg.Storage.Path = DefaultDBPath
	cfg.Log.Level = "info"
	cfg.Scan.Include = []string{"**/*.gossip", "**/*.gs"}
	cfg.Scan.Ignore = []string{".git", "vendor", "node_modules", "testdata"}
	return cfg
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error; a malformed one is.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.Standard != "" {
		cfg.Metadata.Standard = env.Standard
	}
	if env.Compiler != "" {
		cfg.Metadata.Compiler = env.Compiler
	}
	if env.DBPath != "" {
		cfg.Storage.Path = env.DBPath
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.DiagramFormat != "" {
		cfg.Diagram.Format = env.DiagramFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Metadata.Standard == "" {
		errs = append(errs, errors.New("metadata.standard is empty"))
	}
	if c.Metadata.Compiler == "" {
		errs = append(errs, errors.New("metadata.compiler is empty"))
	}
	w, f := c.Defaults.Wall, c.Defaults.Foundation
	positive := []struct {
		name  string
		value float64
	}{
		{"defaults.wall.height", w.Height},
		{"defaults.wall.thickness", w.Thickness},
		{"defaults.wall.load_bearing_thickness", w.LoadBearingThickness},
		{"defaults.foundation.depth", f.Depth},
		{"defaults.foundation.isolated_depth", f.IsolatedDepth},
		{"defaults.foundation.width", f.Width},
		{"defaults.foundation.soil_bearing_capacity", f.SoilBearingCapacity},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", p.name, p.value))
		}
	}
	if w.FireRating < 0 {
		errs = append(errs, fmt.Errorf("defaults.wall.fire_rating must not be negative, got %d", w.FireRating))
	}
	if _, err := generator.ParseFormat(c.Diagram.Format); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DiagramOptions converts the diagram section for the exporter.
func (c *Config) DiagramOptions() (generator.Options, error) {
	f, err := generator.ParseFormat(c.Diagram.Format)
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{Format: f, Theme: c.Diagram.Theme}, nil
}
