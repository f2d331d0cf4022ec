package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/banshee-data/explore.planner/internal/monitoring"
	"github.com/banshee-data/explore.planner/internal/planning/generator"
	"github.com/banshee-data/explore.planner/internal/planning/updater"
)

// Built-in module names as they appear in configuration.
const (
	RandomLinear     = "random_linear"
	ResetTree        = "reset_tree"
	UpdateNothing    = "update_nothing"
	RecheckCollision = "recheck_collision"
)

// DefaultRegistry returns a registry pre-loaded with the built-in modules.
func DefaultRegistry() *Registry {
	reg := NewRegistry()

	reg.Register(&Definition{
		Name: RandomLinear,
		Kind: KindGenerator,
		Description: "Samples straight-line motions of random direction and length " +
			"with a trapezoidal velocity profile, keeping collision-free ones.",
		NewGenerator: newRandomLinear,
	})

	reg.Register(&Definition{
		Name:        ResetTree,
		Kind:        KindUpdater,
		Description: "Discards the whole tree below the root every cycle.",
		NewUpdater: func(options map[string]interface{}, _ Deps) (updater.Updater, error) {
			ignoreOptions(ResetTree, options)
			return updater.ResetTree{}, nil
		},
	})

	reg.Register(&Definition{
		Name:        UpdateNothing,
		Kind:        KindUpdater,
		Description: "Keeps the previous tree unchanged.",
		NewUpdater: func(options map[string]interface{}, _ Deps) (updater.Updater, error) {
			ignoreOptions(UpdateNothing, options)
			return updater.UpdateNothing{}, nil
		},
	})

	reg.Register(&Definition{
		Name: RecheckCollision,
		Kind: KindUpdater,
		Description: "Re-validates every trajectory against the current map and " +
			"prunes colliding subtrees.",
		NewUpdater: func(options map[string]interface{}, deps Deps) (updater.Updater, error) {
			if deps.Oracle == nil {
				return nil, errors.New("recheck_collision requires a collision oracle")
			}
			ignoreOptions(RecheckCollision, options)
			return updater.NewRecheckCollision(deps.Oracle), nil
		},
	})

	return reg
}

func newRandomLinear(options map[string]interface{}, deps Deps) (generator.Expander, error) {
	cfg, err := generator.RandomLinearConfigFromOptions(options)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s options: %w", RandomLinear, err)
	}
	return generator.NewRandomLinear(cfg.Params(), deps.Oracle, deps.Source)
}

func ignoreOptions(name string, options map[string]interface{}) {
	if len(options) == 0 {
		return
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	monitoring.Debugf("%s: takes no options, ignoring %v", name, keys)
}
