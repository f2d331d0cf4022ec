package registry

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/banshee-data/explore.planner/internal/planning/generator"
	"github.com/banshee-data/explore.planner/internal/planning/oracle"
	"github.com/banshee-data/explore.planner/internal/planning/updater"
)

// ErrUnknownModule is returned when a name is not registered for the
// requested kind.
var ErrUnknownModule = errors.New("unknown module")

// Kind distinguishes generator modules from updater modules.
type Kind string

const (
	KindGenerator Kind = "generator"
	KindUpdater   Kind = "updater"
)

// Deps carries the collaborators a factory may need besides its options.
// The updater is normally given the same oracle as the generator.
type Deps struct {
	Oracle oracle.Oracle
	// Source drives sampling generators. Nil uses the global generator.
	Source rand.Source
}

// GeneratorFactory builds a generator from its option map.
type GeneratorFactory func(options map[string]interface{}, deps Deps) (generator.Expander, error)

// UpdaterFactory builds an updater from its option map.
type UpdaterFactory func(options map[string]interface{}, deps Deps) (updater.Updater, error)

// Definition describes a registered module. Exactly one of NewGenerator and
// NewUpdater is set, matching Kind.
type Definition struct {
	Name         string
	Kind         Kind
	Description  string
	NewGenerator GeneratorFactory
	NewUpdater   UpdaterFactory
}

// ModuleInfo is a summary of a registered module.
type ModuleInfo struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
}

// Registry holds module definitions keyed by name.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Definition)}
}

// Register adds a definition. A definition with the same name is replaced.
func (r *Registry) Register(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[def.Name] = def
}

// Get retrieves a definition by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.modules[name]
	return def, ok
}

// List returns every registered module sorted by name.
func (r *Registry) List() []ModuleInfo {
	r.mu.RLock()
	infos := make([]ModuleInfo, 0, len(r.modules))
	for _, def := range r.modules {
		infos = append(infos, ModuleInfo{Name: def.Name, Kind: def.Kind, Description: def.Description})
	}
	r.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// NewGenerator resolves name to a generator and constructs it.
func (r *Registry) NewGenerator(name string, options map[string]interface{}, deps Deps) (generator.Expander, error) {
	def, ok := r.Get(name)
	if !ok || def.Kind != KindGenerator || def.NewGenerator == nil {
		return nil, fmt.Errorf("%w: generator %q", ErrUnknownModule, name)
	}
	return def.NewGenerator(options, deps)
}

// NewUpdater resolves name to an updater and constructs it.
func (r *Registry) NewUpdater(name string, options map[string]interface{}, deps Deps) (updater.Updater, error) {
	def, ok := r.Get(name)
	if !ok || def.Kind != KindUpdater || def.NewUpdater == nil {
		return nil, fmt.Errorf("%w: updater %q", ErrUnknownModule, name)
	}
	return def.NewUpdater(options, deps)
}

var defaultRegistry = DefaultRegistry()

// NewGenerator constructs a generator from the built-in registry.
func NewGenerator(name string, options map[string]interface{}, deps Deps) (generator.Expander, error) {
	return defaultRegistry.NewGenerator(name, options, deps)
}

// NewUpdater constructs an updater from the built-in registry.
func NewUpdater(name string, options map[string]interface{}, deps Deps) (updater.Updater, error) {
	return defaultRegistry.NewUpdater(name, options, deps)
}

// List summarises the built-in registry.
func List() []ModuleInfo {
	return defaultRegistry.List()
}
