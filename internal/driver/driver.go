// Package driver implements the top-level build orchestrator (§4.L of the
// build spec): the 12-step build sequence that wires the dependency graph,
// persistent cache, toolchain, and pipeline together into one invocation,
// plus --watch mode. Grounded on the teacher's cmd/nocc-daemon/main.go and
// internal/client/invocation.go (VKCOM/nocc's top-level per-invocation
// driving code), generalized from "compile one translation unit against a
// remote daemon" to "build an entire project locally from a clean or warm
// cache."
package driver

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/cache"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/depgraph"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/pipeline"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/toolchain"
)

// Driver owns the state of one build-system instance: the cache store lives
// across multiple Run calls (e.g. under --watch), while the graph is
// rebuilt fresh each time from the current filesystem state.
type Driver struct {
	Config *common.BuildConfig
	Log    *common.LoggerWrapper

	Store *cache.Store
	Chain *toolchain.Toolchain
}

// New constructs a Driver, loading the persistent cache and autodetecting
// the toolchain — steps 1-2 of spec §4.L's build sequence. Step (2), the
// output directory resolved to an absolute path relative to the source
// directory, happens here too so any caller of Driver (not just the CLI)
// gets it for free.
func New(cfg *common.BuildConfig, log *common.LoggerWrapper) (*Driver, error) {
	if !filepath.IsAbs(cfg.BuildDir) {
		cfg.BuildDir = filepath.Join(cfg.ProjectDir, cfg.BuildDir)
	}
	if cfg.Clean {
		if err := os.RemoveAll(cfg.BuildDir); err != nil {
			return nil, err
		}
	}

	store, err := cache.Load(cfg.ProjectDir, log)
	if err != nil {
		return nil, err
	}
	if cfg.Clean {
		store.Clear()
	}

	chain, err := toolchain.Autodetect(cfg)
	if err != nil {
		return nil, err
	}

	return &Driver{Config: cfg, Log: log, Store: store, Chain: chain}, nil
}

// Result is what one Run produces: final statistics plus whether the build
// succeeded overall.
type Result struct {
	RunID      string
	Stats      common.BuildStatistics
	Success    bool
	OutputPath string
}

// Run executes one full build: scan, order, decide+compile each unit under
// the pipeline's onion, link, save the cache, and report statistics — spec
// §4.L steps 3-12. In strict fault-tolerance mode (the only mode this build
// system has, per spec §5), the first failed compile aborts the remaining
// units, but the cache is still saved with whatever progress was made.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	runID := uuid.New().String()
	start := time.Now()

	graph := depgraph.New()
	for _, root := range d.Config.IncludeRoots {
		if err := graph.AddIncludeRoot(root); err != nil {
			return Result{RunID: runID}, err
		}
	}

	exclusions := depgraph.NewExclusions(d.Config.Exclusions)
	if err := depgraph.Walk(graph, d.Config.ProjectDir, exclusions); err != nil {
		return Result{RunID: runID}, err
	}

	order, err := depgraph.Sort(graph)
	if err != nil {
		return Result{RunID: runID}, err
	}

	d.Log.Info(1, "build order computed", logrus.Fields{"run_id": runID, "units": len(order.Units)})
	d.Log.Info(2, "dependency graph", logrus.Fields{"run_id": runID, "dump": graph.DebugString()})
	d.Log.Info(2, "build order", logrus.Fields{"run_id": runID, "dump": order.DebugString()})

	var stats common.BuildStatistics
	stats.TotalUnits = len(order.Units)

	var objectPaths []string
	var failure error

	onComplete := func(c *pipeline.Context, err error) {
		if err != nil {
			stats.FailedUnits++
			failure = err
			return
		}
		if c.Unit != nil {
			switch c.Verdict {
			case pipeline.HitSkip:
				stats.SkippedUnits++
			case pipeline.MissCompile:
				stats.CompiledUnits++
			}
		}
	}

	seenObjectPaths := make(map[string]string, len(order.Units))

	for _, unit := range order.Units {
		if failure != nil {
			break // strict fault-tolerance: first failure aborts remaining units
		}

		var objectPath string
		if unit.Kind == depgraph.Source {
			objectPath = pipeline.ObjectPathFor(d.Config.BuildDir, unit.Path)
			if prior, collides := seenObjectPaths[objectPath]; collides {
				d.Log.Warn("object path collision: two source units derive the same basename", logrus.Fields{
					"object_path": objectPath, "first_unit": prior, "second_unit": unit.Path,
				})
			}
			seenObjectPaths[objectPath] = unit.Path
			objectPaths = append(objectPaths, objectPath)
		}

		pc := &pipeline.Context{
			Go:         ctx,
			Config:     d.Config,
			Graph:      graph,
			Store:      d.Store,
			Chain:      d.Chain,
			Log:        d.Log,
			Unit:       unit,
			ObjectPath: objectPath,
		}

		stage := pipeline.BuildCompileStage(onComplete)
		_ = stage.Run(pc)
	}

	var linkSucceeded bool
	_, hasMain := graph.FindMain()
	if failure == nil && !hasMain {
		d.Log.Info(0, "no main() found, skipping link step", logrus.Fields{"run_id": runID})
	} else if failure == nil {
		outputPath := filepath.Join(d.Config.BuildDir, d.Config.OutputName)
		linkCtx := &pipeline.Context{Go: ctx, Config: d.Config, Graph: graph, Store: d.Store, Chain: d.Chain, Log: d.Log}

		linkStart := time.Now()
		linkStage := pipeline.BuildLinkStage(objectPaths, outputPath, func(c *pipeline.Context, err error) {
			if err != nil {
				failure = err
			}
		})
		_ = linkStage.Run(linkCtx)
		stats.LinkElapsedNano = time.Since(linkStart).Nanoseconds()
		linkSucceeded = failure == nil
	}
	stats.LinkSucceeded = linkSucceeded

	// Cache is saved regardless of outcome — progress made before a failure
	// is still worth keeping, per spec §5.
	if saveErr := d.Store.Save(); saveErr != nil && d.Log != nil {
		d.Log.Warn("failed to save build cache", logrus.Fields{"error": saveErr})
	}

	stats.CacheHits = d.Store.Hits()
	stats.CacheMisses = d.Store.Misses()
	stats.CacheHitRate = d.Store.HitRate()
	stats.CacheSizeBytes = d.Store.SizeBytes()
	stats.ElapsedNanos = time.Since(start).Nanoseconds()

	outputPath := ""
	if hasMain {
		outputPath = filepath.Join(d.Config.BuildDir, d.Config.OutputName)
	}
	return Result{RunID: runID, Stats: stats, Success: failure == nil, OutputPath: outputPath}, failure
}
