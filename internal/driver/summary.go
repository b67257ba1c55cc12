package driver

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Summarize renders a human-facing build report (spec §6's terminal
// summary): unit counts, cache health, and elapsed time. Colorized when w
// is an attached terminal, plain otherwise — grounded on sysprogs-arduino-cli
// and mutagen-io-mutagen's pairing of fatih/color with an isatty check
// before deciding whether to colorize.
func Summarize(w io.Writer, result Result) {
	colorize := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	good := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	info := color.New(color.FgCyan).SprintFunc()
	if !colorize {
		good = fmt.Sprint
		bad = fmt.Sprint
		info = fmt.Sprint
	}

	s := result.Stats
	var b strings.Builder

	status := good("SUCCESS")
	if !result.Success {
		status = bad("FAILED")
	}
	fmt.Fprintf(&b, "build %s [%s]\n", status, result.RunID)
	fmt.Fprintf(&b, "  units:     %d total, %s compiled, %d skipped, %s failed\n",
		s.TotalUnits, info(s.CompiledUnits), s.SkippedUnits, conditionalColor(s.FailedUnits, bad))
	fmt.Fprintf(&b, "  cache:     %d hits, %d misses (%.1f%% hit rate), %s on disk\n",
		s.CacheHits, s.CacheMisses, s.CacheHitRate*100, humanize.Bytes(uint64(s.CacheSizeBytes)))
	fmt.Fprintf(&b, "  elapsed:   %s (link %s)\n",
		humanizeDuration(s.ElapsedNanos), humanizeDuration(s.LinkElapsedNano))
	if result.Success && result.OutputPath != "" {
		fmt.Fprintf(&b, "  output:    %s\n", result.OutputPath)
	}

	_, _ = io.WriteString(w, b.String())
}

func conditionalColor(n int, colorFn func(...interface{}) string) string {
	if n == 0 {
		return "0"
	}
	return colorFn(n)
}

func humanizeDuration(nanos int64) string {
	return time.Duration(nanos).Round(time.Millisecond).String()
}
