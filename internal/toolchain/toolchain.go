// Package toolchain drives the underlying C/C++ compiler and linker as
// subprocesses (§4.J of the build spec). Grounded on the teacher's
// compile-locally.go (VKCOM/nocc's LocalCxxLaunch, which shells out to the
// real compiler when a remote worker is unavailable), adapted here as the
// only compile path rather than a fallback.
package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"

	"github.com/RPDevJesco/EventChains-BuildSystem/internal/common"
	"github.com/RPDevJesco/EventChains-BuildSystem/internal/fsutil"
)

// candidateCompilers and candidateCxxCompilers name the compiler binaries
// probed by Autodetect, in preference order, per spec §4.J.
var candidateCompilers = []string{"gcc", "clang", "cc"}
var candidateCxxCompilers = []string{"g++", "clang++", "c++"}

// compilerKindCandidates narrows the candidate lists when BuildConfig.CompilerKind
// names a specific compiler family, rather than probing every candidate.
var compilerKindCandidates = map[string][2]string{
	"gcc":   {"gcc", "g++"},
	"clang": {"clang", "clang++"},
	"cc":    {"cc", "c++"},
	"cl":    {"cl.exe", "cl.exe"},
}

// Toolchain names the resolved compiler/linker executable for a build run.
type Toolchain struct {
	CC  string
	CXX string
}

// Autodetect resolves the compiler/linker to use for cfg, per spec §3's
// "compiler kind"/"compiler binary path" BuildConfig options and §4.J's
// "command exists" check:
//  1. cfg.CompilerPath, if set, is used directly as both CC and CXX.
//  2. cfg.CompilerKind, if set, narrows probing to that family's candidates.
//  3. Otherwise every candidate in preference order is probed on $PATH; on
//     Windows, cl.exe (MSVC) is additionally tried as a fallback.
func Autodetect(cfg *common.BuildConfig) (*Toolchain, error) {
	if cfg != nil && cfg.CompilerPath != "" {
		return &Toolchain{CC: cfg.CompilerPath, CXX: cfg.CompilerPath}, nil
	}

	ccCandidates := append([]string{}, candidateCompilers...)
	cxxCandidates := append([]string{}, candidateCxxCompilers...)
	if cfg != nil && cfg.CompilerKind != "" {
		if pair, ok := compilerKindCandidates[cfg.CompilerKind]; ok {
			ccCandidates = []string{pair[0]}
			cxxCandidates = []string{pair[1]}
		}
	}

	cc, ccErr := firstAvailable(ccCandidates)
	cxx, cxxErr := firstAvailable(cxxCandidates)

	if runtime.GOOS == "windows" {
		if ccErr != nil {
			if path, err := exec.LookPath("cl.exe"); err == nil {
				cc = path
				ccErr = nil
			}
		}
		if cxxErr != nil {
			if path, err := exec.LookPath("cl.exe"); err == nil {
				cxx = path
				cxxErr = nil
			}
		}
	}

	if ccErr != nil && cxxErr != nil {
		return nil, common.NewError(common.KindFileNotFound, "no C or C++ compiler found on PATH")
	}
	return &Toolchain{CC: cc, CXX: cxx}, nil
}

func firstAvailable(names []string) (string, error) {
	var lastErr error
	for _, n := range names {
		path, err := exec.LookPath(n)
		if err == nil {
			return path, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// compilerFor picks CC or CXX depending on the unit's file suffix.
func (t *Toolchain) compilerFor(sourcePath string) string {
	if hasCxxSuffix(sourcePath) {
		if t.CXX != "" {
			return t.CXX
		}
		return t.CC
	}
	return t.CC
}

func hasCxxSuffix(path string) bool {
	for _, s := range []string{".cpp", ".cc"} {
		if len(path) >= len(s) && path[len(path)-len(s):] == s {
			return true
		}
	}
	return false
}

// Result carries the captured outcome of running a subprocess, bounded to
// common.MaxCommandLen bytes of combined output per spec §7.
type Result struct {
	ExitCode int
	Output   string
}

// Compile runs the compiler on one translation unit, producing objectPath.
// The object path is derived by the caller via fsutil.ReplaceFileExt.
func (t *Toolchain) Compile(ctx context.Context, cfg *common.BuildConfig, unit, objectPath string) (Result, error) {
	if err := fsutil.MkdirForFile(objectPath); err != nil {
		return Result{}, common.WrapError(common.KindOutOfMemory, err, objectPath)
	}

	args := []string{"-c", unit, "-o", objectPath}
	for _, root := range cfg.IncludeRoots {
		args = append(args, "-I"+root)
	}
	if cfg.Debug {
		args = append(args, "-g")
	}
	if cfg.NoOptimize {
		args = append(args, "-O0")
	} else {
		args = append(args, "-O2")
	}
	args = append(args, cfg.CompileFlags...)

	compiler := t.compilerFor(unit)
	return run(ctx, compiler, args)
}

// Link runs the linker over a set of object files, producing outputPath.
// A ".exe" suffix is appended on Windows targets per spec §4.J. The command
// line follows spec §4.J's literal template:
// `<cc> <obj…> -o <bin> -L<root>… -l<lib>… <ldflags…>`.
func (t *Toolchain) Link(ctx context.Context, cfg *common.BuildConfig, objectPaths []string, outputPath string) (Result, error) {
	if runtime.GOOS == "windows" && (len(outputPath) < 4 || outputPath[len(outputPath)-4:] != ".exe") {
		outputPath += ".exe"
	}
	if err := fsutil.MkdirForFile(outputPath); err != nil {
		return Result{}, common.WrapError(common.KindOutOfMemory, err, outputPath)
	}

	args := append([]string{}, objectPaths...)
	args = append(args, "-o", outputPath)
	for _, root := range cfg.LibraryRoots {
		args = append(args, "-L"+root)
	}
	for _, lib := range cfg.LibraryNames {
		args = append(args, "-l"+lib)
	}
	args = append(args, cfg.LinkFlags...)

	linker := t.CC
	if t.CXX != "" {
		linker = t.CXX
	}
	return run(ctx, linker, args)
}

func run(ctx context.Context, name string, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	output := out.String()
	if len(output) > common.MaxCommandLen {
		output = output[:common.MaxCommandLen]
	}

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{ExitCode: -1, Output: output}, err
		}
	}
	return Result{ExitCode: exitCode, Output: output}, nil
}
