package common

// BuildConfig is the resolved set of options governing one build invocation
// (spec §3's BuildConfig, §6's CLI flag table). Populated by cmd/eventchains-build
// from cobra/viper and passed down through the driver.
type BuildConfig struct {
	ProjectDir    string
	BuildDir      string
	OutputName    string
	Jobs          int
	Verbosity     int64
	Debug         bool
	NoOptimize    bool
	Clean         bool
	Watch         bool
	Exclusions    []string
	IncludeRoots  []string
	LogFile       string
	NoLogsIfEmpty bool

	// CompilerKind picks the candidate list Autodetect probes ("gcc",
	// "clang", "cl") — empty means try all of them in spec §4.J's order.
	CompilerKind string
	// CompilerPath overrides autodetection entirely when set.
	CompilerPath string
	CompileFlags []string
	LinkFlags    []string
	LibraryRoots []string
	LibraryNames []string
}

// BuildStatistics accumulates the counters a build run reports in its final
// summary (spec §4.L/§6): unit counts by verdict, timings, and cache health.
type BuildStatistics struct {
	TotalUnits      int
	CompiledUnits   int
	SkippedUnits    int
	FailedUnits     int
	CacheHits       int64
	CacheMisses     int64
	CacheHitRate    float64
	CacheSizeBytes  int64
	ElapsedNanos    int64
	LinkSucceeded   bool
	LinkElapsedNano int64
}
