// Package config loads the YAML configuration of the rdfgraph command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-graph/rdf"
	"github.com/geoknoesis/rdf-graph/store"
)

// Config is the root of the configuration file.
type Config struct {
	DefaultGraph string            `yaml:"default_graph" validate:"required,iri"`
	Prefixes     map[string]string `yaml:"prefixes" validate:"dive,keys,required,endkeys,iri"`
	Storage      Storage           `yaml:"storage"`
	Graphs       []GraphSource     `yaml:"graphs" validate:"dive"`
	URIPolicy    URIPolicy         `yaml:"uri_policy"`
	Logging      Logging           `yaml:"logging"`
}

// Storage selects the backend.
type Storage struct {
	Backend  string `yaml:"backend" validate:"oneof=memory badger"`
	Path     string `yaml:"path" validate:"required_if=Backend badger InMemory false"`
	InMemory bool   `yaml:"in_memory"`
}

// GraphSource is a file loaded into a named graph at startup.
type GraphSource struct {
	URI  string `yaml:"uri" validate:"required,iri"`
	File string `yaml:"file" validate:"required"`
}

// URIPolicy controls identities minted for new instances.
type URIPolicy struct {
	Namespace string `yaml:"namespace" validate:"required"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Environment variables that override file settings.
const (
	EnvLogLevel    = "RDFGRAPH_LOG_LEVEL"
	EnvStoragePath = "RDFGRAPH_STORAGE_PATH"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("iri", func(fl validator.FieldLevel) bool {
		return rdf.ValidateIRI(fl.Field().String()) == nil
	})
	return v
}

// Default returns an in-memory configuration with no graphs to load.
func Default() *Config {
	return &Config{
		DefaultGraph: store.DefaultGraph,
		Prefixes:     map[string]string{},
		Storage:      Storage{Backend: "memory"},
		URIPolicy:    URIPolicy{Namespace: store.DefaultURINamespace},
		Logging:      Logging{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. Relative graph files are resolved against the
// directory of path.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, g := range cfg.Graphs {
		if g.File != "" && !filepath.IsAbs(g.File) {
			cfg.Graphs[i].File = filepath.Join(dir, g.File)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.Storage.Path = v
	}
}

// Validate checks field constraints and that every graph is listed once.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Graphs))
	for _, g := range c.Graphs {
		key := g.URI + "\x00" + g.File
		if _, dup := seen[key]; dup {
			return fmt.Errorf("graph %s lists %s twice", g.URI, g.File)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Sources converts the graph list for store.LoadSources.
func (c *Config) Sources() []store.Source {
	out := make([]store.Source, len(c.Graphs))
	for i, g := range c.Graphs {
		out[i] = store.Source{Graph: g.URI, Path: g.File}
	}
	return out
}
