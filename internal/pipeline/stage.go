package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/cache"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/depgraph"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/toolchain"
)

// Context carries everything a Stage or Layer needs for one translation
// unit's trip through the pipeline. Shared and mutated in place as it
// passes through the onion, the way the teacher's internal/client/
// invocation.go threads a single *Invocation value through its own
// sequence of steps.
type Context struct {
	Go context.Context

	Config *common.BuildConfig
	Graph  *depgraph.Graph
	Store  *cache.Store
	Chain  *toolchain.Toolchain
	Log    *common.LoggerWrapper

	Unit       *depgraph.SourceUnit
	ObjectPath string

	Verdict Verdict
	Output  string
	Elapsed time.Duration

	Err error
}

// Stage is one unit of pipeline work: compile, or link. Layers wrap a Stage
// to add a cross-cutting concern without the Stage itself knowing about it.
type Stage interface {
	Run(c *Context) error
}

// Layer decorates a Stage with one concern, in the onion-composition
// pattern of spec §4.K.
type Layer func(next Stage) Stage

// CompileStage runs the compiler for one translation unit. The decision of
// whether to compile at all is made upstream, by CacheLayer; by the time
// CompileStage.Run executes, the answer is always "compile."
type CompileStage struct{}

func (CompileStage) Run(c *Context) error {
	start := time.Now()
	result, err := c.Chain.Compile(c.Go, c.Config, c.Unit.Path, c.ObjectPath)
	c.Elapsed = time.Since(start)
	c.Output = result.Output

	if err != nil {
		return common.WrapError(common.KindCompileFailed, err, c.Unit.Path)
	}
	if result.ExitCode != 0 {
		return &common.CompileFailedError{
			SourcePath:     c.Unit.Path,
			ExitCode:       result.ExitCode,
			CapturedOutput: result.Output,
		}
	}
	return nil
}

// LinkStage runs the linker over a fixed set of object paths, producing the
// final build output.
type LinkStage struct {
	ObjectPaths []string
	OutputPath  string
}

func (l LinkStage) Run(c *Context) error {
	start := time.Now()
	result, err := c.Chain.Link(c.Go, c.Config, l.ObjectPaths, l.OutputPath)
	c.Elapsed = time.Since(start)
	c.Output = result.Output

	if err != nil {
		return common.WrapError(common.KindLinkFailed, err, l.OutputPath)
	}
	if result.ExitCode != 0 {
		return &common.LinkFailedError{ExitCode: result.ExitCode, CapturedOutput: result.Output}
	}
	return nil
}

// Compose builds one Stage out of base wrapped by layers in the order
// given: the first layer in the slice becomes the outermost wrapper.
func Compose(base Stage, layers ...Layer) Stage {
	s := base
	for i := len(layers) - 1; i >= 0; i-- {
		s = layers[i](s)
	}
	return s
}

// ObjectPathFor derives a unit's object file path under the build
// directory from its base name alone. This is deliberately lossy: two
// translation units with the same base name in different subdirectories
// (e.g. "src/foo.c" and "test/foo.c") derive the same object path and
// will overwrite one another, per spec §9's documented known limitation.
// The driver detects this case across a build order and logs a warning
// rather than silently avoiding it.
func ObjectPathFor(buildDir, sourcePath string) string {
	base := fsutil.ReplaceFileExt(filepath.Base(sourcePath), ".o")
	return filepath.Join(buildDir, base)
}
