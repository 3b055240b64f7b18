package suite

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wildme/testgate/internal/errors"
)

// Definition describes one named suite: the extra runner arguments that
// select its scenarios.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Args        []string `yaml:"args"`
}

// Registry holds the known named suites. Built once at startup from the
// built-in set plus an optional suites file; read-only afterwards.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// DefaultRegistry returns the built-in suites for the wildlife-platform
// stack. The tag expressions mirror the feature-file tags used by the BDD
// suites.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range []Definition{
		{Name: "health", Description: "service health checks", Args: []string{"--tags=health"}},
		{Name: "integration", Description: "cross-service integration scenarios", Args: []string{"--tags=integration"}},
		{Name: "wbia", Description: "ML service API scenarios", Args: []string{"--tags=wbia"}},
	} {
		// Registering built-ins cannot collide.
		_ = r.Register(def)
	}
	return r
}

// Register adds a suite definition. Registering a name twice is an error;
// use Merge to override.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return errors.Wrap(errors.ErrInvalidSelector, "suite definition requires a name")
	}
	if _, exists := r.defs[def.Name]; exists {
		return errors.Wrapf(errors.ErrRegistryDuplicate, "%q", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// Merge adds definitions, replacing any existing entry with the same name.
// This is how a project suites file overrides the built-ins.
func (r *Registry) Merge(defs []Definition) {
	for _, def := range defs {
		if def.Name == "" {
			continue
		}
		r.defs[def.Name] = def
	}
}

// Has reports whether name is a registered suite.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns all registered suite names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suitesFile is the on-disk shape of a project suites file.
type suitesFile struct {
	Suites []Definition `yaml:"suites"`
}

// LoadDefinitions reads suite definitions from a YAML file:
//
//	suites:
//	  - name: smoke
//	    description: fast sanity checks
//	    args: ["--tags=smoke"]
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from operator config
	if err != nil {
		return nil, errors.Wrapf(err, "reading suites file %s", path)
	}

	var f suitesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing suites file %s", path)
	}

	return f.Suites, nil
}
