// Command eventchains-build is the CLI entry point (§6 of the build spec).
// Grounded on the teacher's cmd/nocc-daemon/main.go for the overall
// flag-parse-then-run shape, and on sysprogs-arduino-cli's cli/ package for
// using spf13/cobra + spf13/viper together (flags bindable by environment
// variable, per spec §6's "every flag has an ECB_* override").
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/driver"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := &common.BuildConfig{}
	var showVersion bool

	root := &cobra.Command{
		Use:           "eventchains-build [project-dir]",
		Short:         "Incremental build driver for C/C++ projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(common.GetVersion())
				return nil
			}

			cfg.ProjectDir = "."
			if len(args) == 1 {
				cfg.ProjectDir = args[0]
			}
			return runBuild(cfg)
		},
	}

	flags := root.Flags()
	flags.BoolVarP(&showVersion, "version", "V", false, "print version and exit")
	flags.Int64VarP(&cfg.Verbosity, "verbose", "v", 0, "verbosity level (0-2)")
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "compile with debug symbols (-g)")
	flags.BoolVar(&cfg.NoOptimize, "no-optimize", false, "disable optimization (-O0)")
	flags.BoolVar(&cfg.NoOptimize, "O0", false, "alias for --no-optimize")
	flags.StringVarP(&cfg.OutputName, "output", "o", "a.out", "output binary name")
	flags.StringVarP(&cfg.BuildDir, "build-dir", "b", "build", "build directory")
	flags.IntVarP(&cfg.Jobs, "jobs", "j", 1, "parallel compile jobs (reserved; units are compiled one at a time)")
	flags.BoolVarP(&cfg.Clean, "clean", "c", false, "remove the build directory and clear the persistent cache before building")
	flags.StringSliceVarP(&cfg.Exclusions, "exclude", "e", nil, "exclude a path name or glob pattern")
	flags.StringSliceVarP(&cfg.IncludeRoots, "include", "I", nil, "additional include root (repeatable)")
	flags.StringVar(&cfg.CompilerKind, "cc-kind", "", "compiler family to probe for (gcc, clang, cc, cl)")
	flags.StringVar(&cfg.CompilerPath, "cc", "", "explicit compiler binary path, skips autodetection")
	flags.StringSliceVar(&cfg.CompileFlags, "cflags", nil, "extra compiler flag (repeatable)")
	flags.StringSliceVar(&cfg.LinkFlags, "ldflags", nil, "extra linker flag (repeatable)")
	flags.StringSliceVar(&cfg.LibraryRoots, "libdir", nil, "library search root, passed as -L (repeatable)")
	flags.StringSliceVar(&cfg.LibraryNames, "lib", nil, "library to link, passed as -l (repeatable)")
	flags.BoolVarP(&cfg.Watch, "watch", "w", false, "rebuild on source changes")

	v := viper.New()
	v.SetEnvPrefix("ECB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	bindEnv(v, flags)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "eventchains-build:", err)
		return 1
	}
	return exitCodeFromState
}

// bindEnv lets every flag be overridden by an ECB_* environment variable,
// per spec §6: a flag left at its default is replaced by the matching
// ECB_* value, the way sysprogs-arduino-cli binds its own flag set to
// viper.
func bindEnv(v *viper.Viper, flags *pflag.FlagSet) {
	_ = v.BindPFlagSet(flags)
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			_ = f.Value.Set(v.GetString(f.Name))
		}
	})
}

var exitCodeFromState int

func runBuild(cfg *common.BuildConfig) error {
	normalized, err := resolveProjectDir(cfg.ProjectDir)
	if err != nil {
		exitCodeFromState = 1
		return err
	}
	cfg.ProjectDir = normalized

	// spec §4.L step (2): the output directory is resolved to an absolute
	// path relative to the source directory before anything is created in it.
	if !filepath.IsAbs(cfg.BuildDir) {
		cfg.BuildDir = filepath.Join(cfg.ProjectDir, cfg.BuildDir)
	}

	log, err := common.MakeLogger(cfg.LogFile, cfg.Verbosity, cfg.NoLogsIfEmpty)
	if err != nil {
		exitCodeFromState = 1
		return err
	}

	d, err := driver.New(cfg, log)
	if err != nil {
		exitCodeFromState = 1
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if cfg.Watch {
		exitCodeFromState = 0
		err := d.Watch(ctx, func(result driver.Result, runErr error) {
			driver.Summarize(os.Stdout, result)
			if runErr != nil {
				exitCodeFromState = 1
			}
		})
		return err
	}

	result, runErr := d.Run(ctx)
	driver.Summarize(os.Stdout, result)
	if runErr != nil {
		exitCodeFromState = 1
		return runErr
	}
	exitCodeFromState = 0
	return nil
}

func resolveProjectDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return abs, nil
}
