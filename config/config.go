// Package config defines the report destinations and worksheet layouts used by the
// regression-sheets commands.
//
// The embedded default.yaml carries the destination tables for the branch performance
// and board regression spreadsheets. A configuration file (YAML or TOML) overlays the
// defaults: scalar values replace them, destination and column maps are merged.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaults []byte

var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnsupportedFormat  = errors.New("unsupported configuration file format")
	ErrInvalidDestination = errors.New("destination requires exactly one of 'key' or 'name'")
)

type Config struct {
	Credentials string      `yaml:"credentials" toml:"credentials" json:"credentials,omitempty"`
	Workdir     string      `yaml:"workdir" toml:"workdir" json:"workdir,omitempty"`
	Lockfile    *string     `yaml:"lockfile" toml:"lockfile" json:"lockfile,omitempty"`
	Performance Performance `yaml:"performance" toml:"performance" json:"performance"`
	Regression  Regression  `yaml:"regression" toml:"regression" json:"regression"`
}

// Performance is the layout of a branch performance spreadsheet. The header row of the
// 'header' worksheet (Timestamps) is authoritative for the test columns.
type Performance struct {
	Header       string                 `yaml:"header" toml:"header" json:"header"`
	Runtime      string                 `yaml:"runtime" toml:"runtime" json:"runtime"`
	Status       Cell                   `yaml:"status" toml:"status" json:"status"`
	Propagate    []string               `yaml:"propagate" toml:"propagate" json:"propagate,omitempty"`
	Columns      map[string]Transform   `yaml:"columns" toml:"columns" json:"columns,omitempty"`
	Destinations map[string]Destination `yaml:"destinations" toml:"destinations" json:"destinations,omitempty"`
}

// Regression is the layout of a board regression spreadsheet. An empty header selects
// the first worksheet and an empty propagate list selects every worksheet.
type Regression struct {
	Header       string                 `yaml:"header" toml:"header" json:"header"`
	Results      string                 `yaml:"results" toml:"results" json:"results"`
	Propagate    []string               `yaml:"propagate" toml:"propagate" json:"propagate,omitempty"`
	Columns      map[string]Transform   `yaml:"columns" toml:"columns" json:"columns,omitempty"`
	Destinations map[string]Destination `yaml:"destinations" toml:"destinations" json:"destinations,omitempty"`
}

// Destination identifies a spreadsheet either by its stable key or by its display name.
type Destination struct {
	Key  string `yaml:"key" toml:"key" json:"key,omitempty"`
	Name string `yaml:"name" toml:"name" json:"name,omitempty"`
}

type Cell struct {
	Worksheet string `yaml:"worksheet" toml:"worksheet" json:"worksheet"`
	Row       int    `yaml:"row" toml:"row" json:"row"`
	Column    int    `yaml:"column" toml:"column" json:"column"`
}

// Transform maps a logical (header) column to the physical column on a worksheet that
// dedicates extra fixed columns to each test, i.e. physical = scale*column + offset.
// A zero scale is treated as 1.
type Transform struct {
	Scale  int `yaml:"scale" toml:"scale" json:"scale,omitempty"`
	Offset int `yaml:"offset" toml:"offset" json:"offset,omitempty"`
}

func (t Transform) Apply(column int) int {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}

	return scale*column + t.Offset
}

func (d Destination) String() string {
	if d.Key != "" {
		return fmt.Sprintf("key:%s", d.Key)
	}

	return fmt.Sprintf("name:%q", d.Name)
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(defaults, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing default configuration (%w)", err)
	}

	return &cfg, nil
}

// Load returns the embedded defaults overlaid with the (optional) configuration file. The
// file format is chosen by extension: .yaml/.yml or .toml. The merged configuration is
// validated before it is returned.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(path) != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file (%w)", err)
		}

		if err := decode(path, bytes, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %v (%w)", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(path string, bytes []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(bytes, cfg)

	case ".toml":
		return toml.Unmarshal(bytes, cfg)

	default:
		return fmt.Errorf("%w '%v'", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Validate checks the configuration against the embedded JSON schema and then checks the
// constraints the schema cannot express.
func (c *Config) Validate() error {
	bytes, err := json.Marshal(c)
	if err != nil {
		return err
	}

	if err := validateSchema(bytes); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for k, d := range c.Performance.Destinations {
		if (d.Key == "") == (d.Name == "") {
			return fmt.Errorf("%w: performance destination '%v' (%w)", ErrInvalidConfig, k, ErrInvalidDestination)
		}
	}

	for k, d := range c.Regression.Destinations {
		if (d.Key == "") == (d.Name == "") {
			return fmt.Errorf("%w: regression destination '%v' (%w)", ErrInvalidConfig, k, ErrInvalidDestination)
		}
	}

	return nil
}

// LockfilePath returns the configured lock file, falling back to a file in the working
// directory. An explicitly empty 'lockfile' disables locking.
func (c *Config) LockfilePath(workdir string) string {
	if c.Lockfile != nil {
		return *c.Lockfile
	}

	return filepath.Join(workdir, "regression-sheets.lock")
}
