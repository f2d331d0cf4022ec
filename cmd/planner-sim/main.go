// Command planner-sim grows and maintains an expansion tree in a simulated
// voxel world for a number of planning cycles, optionally plotting each cycle
// and storing tree snapshots in SQLite.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/banshee-data/explore.planner/internal/config"
	"github.com/banshee-data/explore.planner/internal/monitoring"
	"github.com/banshee-data/explore.planner/internal/planning/oracle"
	"github.com/banshee-data/explore.planner/internal/planning/pipeline"
	"github.com/banshee-data/explore.planner/internal/planning/registry"
	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"github.com/banshee-data/explore.planner/internal/planning/storage/sqlite"
	"github.com/banshee-data/explore.planner/internal/planning/visualiser"
	"github.com/banshee-data/explore.planner/internal/security"
	"github.com/banshee-data/explore.planner/internal/units"
	"github.com/banshee-data/explore.planner/internal/version"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("planner-sim", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "Planner configuration file (.json)")
	outDir := fs.String("out", "", "Directory for per-cycle plots and the final 3D view (empty: no plots)")
	dbPath := fs.String("db", "", "SQLite file for tree snapshots (empty: not stored)")
	seed := fs.Uint64("seed", 0, "Random seed, overrides the configured one")
	verbose := fs.Bool("v", false, "Enable debug logging")
	showVersion := fs.Bool("version", false, "Print version and exit")
	listModules := fs.Bool("list", false, "List available generator and updater modules and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("planner-sim"))
		return nil
	}
	if *listModules {
		for _, m := range registry.List() {
			fmt.Fprintf(stdout, "%-18s %-9s %s\n", m.Name, m.Kind, m.Description)
		}
		return nil
	}
	monitoring.SetVerbose(*verbose)

	cfg, err := config.LoadPlannerConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	seedSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if !seedSet {
		if s, ok := cfg.GetSeed(); ok {
			*seed = s
		} else {
			*seed = uint64(time.Now().UnixNano())
		}
	}
	monitoring.Logf("[planner-sim] config=%s generator=%s updater=%s cycles=%d seed=%d",
		*configPath, cfg.GetGenerator().Type, cfg.GetUpdater().Type, cfg.GetCycles(), *seed)

	world, err := newWorld(cfg)
	if err != nil {
		return err
	}

	deps := registry.Deps{
		Oracle: world,
		Source: rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15),
	}
	genCfg := cfg.GetGenerator()
	gen, err := registry.NewGenerator(genCfg.Type, genCfg.Options, deps)
	if err != nil {
		return fmt.Errorf("build generator: %w", err)
	}
	updCfg := cfg.GetUpdater()
	upd, err := registry.NewUpdater(updCfg.Type, updCfg.Options, deps)
	if err != nil {
		return fmt.Errorf("build updater: %w", err)
	}

	start := cfg.GetStart()
	p, err := pipeline.New(gen, upd, segment.Waypoint{
		Position: r3.Vec{X: start.X, Y: start.Y, Z: start.Z},
		Yaw:      units.NormalizeYaw(start.Yaw),
	}, cfg.GetExpansionsPerCycle())
	if err != nil {
		return err
	}

	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		p.SetSnapshotSink(sqlite.NewTreeStore(db))
		monitoring.Logf("[planner-sim] storing snapshots in %s", *dbPath)
	}

	var plotErr error
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		p.OnCycleComplete(func(root *segment.Segment, stats pipeline.CycleStats) {
			if plotErr != nil {
				return
			}
			path, err := security.OutputPath(*outDir, fmt.Sprintf("cycle_%03d.png", stats.Cycle))
			if err != nil {
				plotErr = err
				return
			}
			title := fmt.Sprintf("cycle %d: %d segments, %d pruned, %d added", stats.Cycle, stats.SegmentsAfter, stats.Pruned, stats.Added)
			plotErr = visualiser.SaveTopDownPNG(root, path, title)
		})
	}

	fmt.Fprintf(stdout, "%5s %8s %7s %6s %9s %10s %8s\n", "cycle", "before", "pruned", "added", "dead_ends", "expansions", "segments")
	for cycle := 1; cycle <= cfg.GetCycles(); cycle++ {
		applyObstacles(world, cfg, cycle)
		stats, err := p.RunCycle()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%5d %8d %7d %6d %9d %10d %8d\n", stats.Cycle, stats.SegmentsBefore,
			stats.Pruned, stats.Added, stats.DeadEnds, stats.Expansions, stats.SegmentsAfter)
	}
	if plotErr != nil {
		return fmt.Errorf("plot cycle: %w", plotErr)
	}

	if *outDir != "" {
		path, err := security.OutputPath(*outDir, "tree.html")
		if err != nil {
			return err
		}
		if err := visualiser.SaveScatter3DHTML(p.Root(), path, "Expansion tree"); err != nil {
			return err
		}
		monitoring.Logf("[planner-sim] wrote plots to %s", *outDir)
	}
	return nil
}

// newWorld builds the collision map. Inside configured bounds every voxel
// starts known free; without bounds the map is empty and only
// collision_optimistic makes it traversable.
func newWorld(cfg *config.PlannerConfig) (*oracle.VoxelMap, error) {
	bounds := cfg.GetBounds()
	world, err := oracle.NewVoxelMap(oracle.VoxelMapConfig{
		VoxelSize:       cfg.GetVoxelSize(),
		CollisionRadius: cfg.GetCollisionRadius(),
		Optimistic:      cfg.GetCollisionOptimistic(),
		Bounds:          bounds,
	})
	if err != nil {
		return nil, fmt.Errorf("build voxel map: %w", err)
	}
	if bounds.Empty() {
		if !cfg.GetCollisionOptimistic() {
			return nil, errors.New("an unbounded map needs collision_optimistic, otherwise nothing is traversable")
		}
		return world, nil
	}
	n := world.SetBox(bounds, oracle.VoxelFree)
	monitoring.Debugf("[planner-sim] marked %d voxels free", n)
	return world, nil
}

// applyObstacles brings the map to the obstacle layout of cycle. Vanished
// obstacles are cleared first so an active obstacle overlapping them stays.
func applyObstacles(world *oracle.VoxelMap, cfg *config.PlannerConfig, cycle int) {
	cleared := oracle.VoxelFree
	if cfg.GetBounds().Empty() {
		cleared = oracle.VoxelUnknown
	}
	for _, o := range cfg.Obstacles {
		if !o.ActiveAt(cycle) {
			world.SetBox(o.Box(), cleared)
		}
	}
	for _, o := range cfg.Obstacles {
		if o.ActiveAt(cycle) {
			world.SetBox(o.Box(), oracle.VoxelOccupied)
		}
	}
}
