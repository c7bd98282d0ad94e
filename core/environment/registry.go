package environment

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"envcompare/core/database"

	"gopkg.in/yaml.v3"
)

// ErrUnknownEnvironment is returned for names missing from the registry.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment is a named connection profile.
type Environment struct {
	// Name identifies the environment in requests and commands.
	Name string `yaml:"name" json:"name"`

	// Description is shown in listings.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Database holds the connection settings.
	Database database.Config `yaml:"database" json:"-"`

	// PasswordEnv names an environment variable that overrides Database.Password.
	PasswordEnv string `yaml:"password_env,omitempty" json:"-"`
}

// File is the layout of an environments YAML file.
type File struct {
	Environments []Environment `yaml:"environments"`
}

// Registry holds the known environments. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	envs map[string]Environment
}

// New creates a registry holding envs.
func New(envs ...Environment) (*Registry, error) {
	r := &Registry{envs: make(map[string]Environment)}
	for _, env := range envs {
		if err := r.Add(env); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Load reads a registry from a YAML file. A missing file yields an empty
// registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New()
		}
		return nil, fmt.Errorf("failed to read environments file: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML content.
func Parse(data []byte) (*Registry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse environments file: %w", err)
	}
	return New(file.Environments...)
}

// Add registers env. Names must be non-empty and unique.
func (r *Registry) Add(env Environment) error {
	env.Name = strings.TrimSpace(env.Name)
	if env.Name == "" {
		return errors.New("environment name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.envs[env.Name]; exists {
		return fmt.Errorf("duplicate environment %q", env.Name)
	}
	r.envs[env.Name] = env
	return nil
}

// Get returns the environment called name.
func (r *Registry) Get(name string) (Environment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	env, ok := r.envs[name]
	if !ok {
		return Environment{}, fmt.Errorf("%w: %s", ErrUnknownEnvironment, name)
	}
	return env, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.envs))
	for name := range r.envs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the registered environments sorted by name.
func (r *Registry) List() []Environment {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Environment, 0, len(names))
	for _, name := range names {
		out = append(out, r.envs[name])
	}
	return out
}

// Len returns the number of environments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.envs)
}

// Resolve returns the connection settings of name with defaults applied and
// the password taken from PasswordEnv when that variable is set.
// It satisfies database.Resolver.
func (r *Registry) Resolve(name string) (database.Config, error) {
	env, err := r.Get(name)
	if err != nil {
		return database.Config{}, err
	}

	cfg := env.Database
	if cfg.Driver == "" {
		cfg.Driver = database.DriverMySQL
	}
	if cfg.Driver == database.DriverMySQL {
		if cfg.Host == "" {
			cfg.Host = "localhost"
		}
		if cfg.Port == 0 {
			cfg.Port = 3306
		}
	}
	if env.PasswordEnv != "" {
		if pw, ok := os.LookupEnv(env.PasswordEnv); ok {
			cfg.Password = pw
		}
	}
	return cfg, nil
}
