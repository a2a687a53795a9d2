// Package registry holds the named test bodies a host program registers in
// code and, when a yaml manifest is configured, selects and orders them
// from it.
package registry

import (
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/probeworks/gauntlet/suite"
	"github.com/probeworks/gauntlet/types"
)

type entry struct {
	name        string
	description string
	body        suite.Body
}

// Registry manages registered test bodies and the optional suite manifest.
type Registry struct {
	config   Config
	manifest *types.SuiteManifest

	mu      sync.RWMutex
	entries map[string]entry
	order   []string
}

// Config contains registry configuration.
type Config struct {
	Log          log.Logger
	ManifestFile string // optional; empty means run everything in registration order
}

// NewRegistry creates a new registry instance, loading the manifest when one
// is configured.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{
		config:  cfg,
		entries: make(map[string]entry),
	}

	if cfg.ManifestFile != "" {
		manifest, err := loadManifest(cfg.ManifestFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		r.manifest = manifest
		cfg.Log.Debug("Manifest loaded", "file", cfg.ManifestFile, "len(tests)", len(manifest.Tests))
	}

	return r, nil
}

func loadManifest(path string) (*types.SuiteManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file %s: %w", path, err)
	}
	var manifest types.SuiteManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file %s: %w", path, err)
	}
	if len(manifest.Tests) == 0 {
		return nil, fmt.Errorf("manifest %s selects no tests", path)
	}
	return &manifest, nil
}

// Register adds a named test body. Names must be unique within a registry.
func (r *Registry) Register(name, description string, body suite.Body) error {
	if name == "" {
		return fmt.Errorf("%w: test name is required", suite.ErrInvalidArgument)
	}
	if body == nil {
		return fmt.Errorf("%w: test body is required", suite.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: test %q already registered", suite.ErrInvalidArgument, name)
	}
	r.entries[name] = entry{name: name, description: description, body: body}
	r.order = append(r.order, name)
	return nil
}

// Manifest returns the loaded manifest, or nil when none was configured.
func (r *Registry) Manifest() *types.SuiteManifest {
	return r.manifest
}

// Runners materializes the selected tests as suite runners. With a manifest,
// selection follows manifest order and a manifest entry naming an
// unregistered test is an error; without one, all registered tests run in
// registration order.
func (r *Registry) Runners() ([]*suite.Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return nil, fmt.Errorf("no tests registered")
	}

	if r.manifest == nil {
		runners := make([]*suite.Runner, 0, len(r.order))
		for _, name := range r.order {
			e := r.entries[name]
			runner, err := suite.NewRunner(e.body, e.name, e.description)
			if err != nil {
				return nil, err
			}
			runners = append(runners, runner)
		}
		return runners, nil
	}

	runners := make([]*suite.Runner, 0, len(r.manifest.Tests))
	for _, tc := range r.manifest.Tests {
		e, ok := r.entries[tc.Name]
		if !ok {
			return nil, fmt.Errorf("manifest selects unknown test %q", tc.Name)
		}
		description := e.description
		if tc.Description != "" {
			description = tc.Description
		}
		runner, err := suite.NewRunner(e.body, e.name, description)
		if err != nil {
			return nil, err
		}
		runners = append(runners, runner)
	}
	return runners, nil
}
