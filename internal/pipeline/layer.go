package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/depgraph"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
)

// TimingLayer measures the wrapped stage, records c.Elapsed if the stage did
// not set it itself, and logs it at verbosity 2 (spec §4.K, the innermost
// layer in the onion). When an outer layer returns early (a cache hit), this
// layer does not run and nothing is timed.
type TimingLayer struct{}

func (TimingLayer) Wrap(next Stage) Stage {
	return timingStage{next: next}
}

type timingStage struct{ next Stage }

func (t timingStage) Run(c *Context) error {
	start := time.Now()
	err := t.next.Run(c)
	if c.Elapsed == 0 {
		c.Elapsed = time.Since(start)
	}
	if c.Log != nil {
		c.Log.Info(2, "stage timing", logrus.Fields{
			"unit":    unitPathOf(c),
			"elapsed": c.Elapsed.String(),
		})
	}
	return err
}

// LoggingLayer reports the outcome of the wrapped stage at verbosity 1
// (success) or unconditionally (failure).
type LoggingLayer struct{}

func (LoggingLayer) Wrap(next Stage) Stage {
	return loggingStage{next: next}
}

type loggingStage struct{ next Stage }

func (l loggingStage) Run(c *Context) error {
	err := l.next.Run(c)
	if c.Log == nil {
		return err
	}
	if err != nil {
		c.Log.Error("stage failed", logrus.Fields{"unit": unitPathOf(c), "error": err})
	} else {
		c.Log.Info(1, "stage succeeded", logrus.Fields{"unit": unitPathOf(c)})
	}
	return err
}

// CacheLayer is the decision-consulting layer: for a CompileStage run, it
// consults the decision engine plus the object file's on-disk existence
// (the extra check spec §4.K assigns to this layer, not to Decide itself)
// and short-circuits straight to HitSkip without invoking the wrapped
// stage. On a cache miss that compiles successfully, it updates the store
// with a fresh entry and the unit's current transitive dependency hashes.
// A Header unit is unconditional success with cache_hit=true and never
// reaches the wrapped stage at all, per spec §4.K — headers are never
// compiled, only counted.
type CacheLayer struct{}

func (CacheLayer) Wrap(next Stage) Stage {
	return cacheStage{next: next}
}

type cacheStage struct{ next Stage }

func (cl cacheStage) Run(c *Context) error {
	if c.Unit == nil {
		// Not a per-unit stage (e.g. LinkStage) — caching doesn't apply.
		return cl.next.Run(c)
	}

	if c.Unit.Kind == depgraph.Header {
		c.Verdict = HitSkip
		c.Store.RecordHit()
		return nil
	}

	verdict := Decide(c.Store, c.Unit)
	if verdict == HitSkip && fsutil.Exists(c.ObjectPath) {
		c.Verdict = HitSkip
		c.Store.RecordHit()
		return nil
	}

	c.Verdict = MissCompile
	c.Store.RecordMiss()

	if err := cl.next.Run(c); err != nil {
		return err
	}

	info, statErr := fsutil.Stat(c.Unit.Path)
	mtime := int64(0)
	if statErr == nil {
		mtime = info.MTime
	}
	deps := CaptureDeps(c.Graph, c.Unit)
	c.Store.Update(c.Unit.Path, c.ObjectPath, deps, mtime)
	return nil
}

// StatisticsLayer is the outermost layer: it tallies compiled/skipped/failed
// counts by handing every finished Context and its error to the OnComplete
// callback, which the driver supplies to update its BuildStatistics, per
// spec §4.L. It is intentionally the outermost
// wrap so its counts reflect every unit the driver ever asked the pipeline
// to process, including ones that failed inside an inner layer.
type StatisticsLayer struct {
	OnComplete func(c *Context, err error)
}

func (s StatisticsLayer) Wrap(next Stage) Stage {
	return statisticsStage{next: next, onComplete: s.OnComplete}
}

type statisticsStage struct {
	next       Stage
	onComplete func(c *Context, err error)
}

func (s statisticsStage) Run(c *Context) error {
	err := s.next.Run(c)
	if s.onComplete != nil {
		s.onComplete(c, err)
	}
	return err
}

func unitPathOf(c *Context) string {
	if c.Unit == nil {
		return "(link)"
	}
	return c.Unit.Path
}

// BuildCompileStage assembles the full onion for one translation unit, in
// the order mandated by spec §4.K: Statistics (outermost) -> Logging ->
// Cache -> Timing (innermost) -> CompileStage.
func BuildCompileStage(onComplete func(c *Context, err error)) Stage {
	base := Stage(CompileStage{})
	base = TimingLayer{}.Wrap(base)
	base = CacheLayer{}.Wrap(base)
	base = LoggingLayer{}.Wrap(base)
	base = StatisticsLayer{OnComplete: onComplete}.Wrap(base)
	return base
}

// BuildLinkStage assembles the onion for the link step. Caching does not
// apply to linking (CacheLayer no-ops when c.Unit is nil), but timing,
// logging, and statistics still wrap it uniformly.
func BuildLinkStage(objectPaths []string, outputPath string, onComplete func(c *Context, err error)) Stage {
	base := Stage(LinkStage{ObjectPaths: objectPaths, OutputPath: outputPath})
	base = TimingLayer{}.Wrap(base)
	base = LoggingLayer{}.Wrap(base)
	base = StatisticsLayer{OnComplete: onComplete}.Wrap(base)
	return base
}
