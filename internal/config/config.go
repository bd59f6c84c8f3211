// Package config loads optional sfv settings from a YAML or TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"sfvtool/internal/digest"
	"sfvtool/internal/manifest"
	"sfvtool/internal/report"
)

type Config struct {
	ToolName    string `yaml:"tool_name" toml:"tool_name" validate:"required,nospace"`
	BufferSize  int    `yaml:"buffer_size" toml:"buffer_size" validate:"min=4096,max=16777216"`
	Workers     int    `yaml:"workers" toml:"workers" validate:"min=1,max=64"`
	Progress    bool   `yaml:"progress" toml:"progress"`
	LogLevel    string `yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`
	Report      Report `yaml:"report" toml:"report"`
}

type Report struct {
	Format   string `yaml:"format" toml:"format" validate:"oneof=text json"`
	Template string `yaml:"template" toml:"template"`
}

func Default() Config {
	return Config{
		ToolName:   manifest.DefaultToolName,
		BufferSize: digest.DefaultChunkSize,
		Workers:    1,
		Progress:   true,
		LogLevel:   "info",
		Report: Report{
			Format:   report.FormatText,
			Template: report.DefaultTemplate,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// The format is picked from the extension: .toml is TOML, anything else
// YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := decode(path, data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// The tool name ends up in the manifest header line.
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// ValidateToolName applies the tool_name rules to a name given outside a
// config file.
func ValidateToolName(name string) error {
	if err := validate.Var(name, "required,nospace"); err != nil {
		return fmt.Errorf("invalid tool name %q: %w", name, err)
	}
	return nil
}
