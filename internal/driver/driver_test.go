package driver

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
)

// requireCompiler skips the test when no C compiler is reachable on $PATH,
// since Driver.Run shells out to a real toolchain (spec §4.J) rather than a
// fake one.
func requireCompiler(t *testing.T) {
	t.Helper()
	for _, name := range []string{"gcc", "clang", "cc"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no C compiler on PATH")
}

// writeTree lays out spec §8's S2 fixture: util.h (no includes), math.h
// (includes util.h), main.c (includes math.h, contains a main).
func writeTree(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.h"), []byte("#ifndef UTIL_H\n#define UTIL_H\n#endif\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math.h"), []byte("#include \"util.h\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), []byte("#include \"math.h\"\nint main(void){return 0;}\n"), 0644))
}

// TestDriverRun_S2_HeadersCountAsCachedInStatistics drives a real two-build
// sequence over spec §8's S2 fixture (scenario S4, "warm cache"): headers
// never compile, but must still be classified HitSkip and counted in the
// statistics on every build, not skipped out of the pipeline entirely.
func TestDriverRun_S2_HeadersCountAsCachedInStatistics(t *testing.T) {
	requireCompiler(t)

	dir := t.TempDir()
	writeTree(t, dir)

	log, err := common.MakeLogger("", 0, true)
	require.NoError(t, err)

	cfg := &common.BuildConfig{
		ProjectDir: dir,
		BuildDir:   "build",
		OutputName: "a.out",
	}

	d, err := New(cfg, log)
	require.NoError(t, err)

	first, err := d.Run(context.Background())
	require.NoError(t, err)
	require.True(t, first.Success)
	require.Equal(t, 3, first.Stats.TotalUnits)
	require.Equal(t, 1, first.Stats.CompiledUnits, "only main.c is a Source unit")
	require.Equal(t, 2, first.Stats.SkippedUnits, "both headers must be classified HitSkip on the first build too")

	second, err := d.Run(context.Background())
	require.NoError(t, err)
	require.True(t, second.Success)
	require.Equal(t, 0, second.Stats.CompiledUnits, "unchanged tree, warm cache: nothing recompiles")
	require.Equal(t, 3, second.Stats.SkippedUnits, "cached=3: one per unit, header-first, per spec S4")
}

// TestDriverRun_ResolvesBuildDirUnderProjectDir covers spec §4.L step (2):
// a relative BuildDir must resolve against ProjectDir, not the process's
// working directory, so builds are reproducible regardless of CWD.
func TestDriverRun_ResolvesBuildDirUnderProjectDir(t *testing.T) {
	requireCompiler(t)

	dir := t.TempDir()
	writeTree(t, dir)

	log, err := common.MakeLogger("", 0, true)
	require.NoError(t, err)

	cfg := &common.BuildConfig{
		ProjectDir: dir,
		BuildDir:   "build",
		OutputName: "a.out",
	}

	d, err := New(cfg, log)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "build"), cfg.BuildDir)

	result, err := d.Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, filepath.Join(dir, "build", "a.out"), result.OutputPath)

	_, statErr := os.Stat(result.OutputPath)
	require.NoError(t, statErr, "the linked binary must land under the project directory's build dir")
}
