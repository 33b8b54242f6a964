//go:build ignore

// build.go - Interview Check build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, merge, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
)

const module = "interviewcheck"

var (
	distDir = "dist"

	// key = source dir under cmd/, value = output name without extension
	executables = map[string]string{
		"web":   "interviewcheck-web",
		"merge": "interviewcheck-merge",
	}
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	color.Cyan("===========================================")
	color.Cyan("       Interview Check - Build System      ")
	color.Cyan("===========================================")
	fmt.Println()

	start := time.Now()

	var err error
	switch *target {
	case "all":
		err = buildAll(*verbose)
	case "web", "merge":
		err = buildExecutable(*target, *verbose)
	case "test":
		err = runTests(*verbose)
	case "clean":
		err = clean()
	case "release":
		err = buildRelease(*verbose)
	default:
		printError(fmt.Sprintf("unknown target %q (all, web, merge, test, clean, release)", *target))
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(start).Round(time.Millisecond)))
}

func printInfo(msg string)    { fmt.Printf("%s %s\n", color.BlueString("[INFO]"), msg) }
func printSuccess(msg string) { fmt.Printf("%s %s\n", color.GreenString("[SUCCESS]"), msg) }
func printError(msg string)   { fmt.Printf("%s %s\n", color.RedString("[ERROR]"), msg) }

func buildAll(verbose bool) error {
	printInfo("Building all executables...")
	for _, name := range []string{"web", "merge"} {
		if err := buildExecutable(name, verbose); err != nil {
			return err
		}
	}
	return nil
}

func buildExecutable(name string, verbose bool) error {
	out := executables[name]
	if runtime.GOOS == "windows" || os.Getenv("GOOS") == "windows" {
		out += ".exe"
	}
	out = filepath.Join(distDir, out)

	printInfo(fmt.Sprintf("Building %s -> %s", name, out))

	args := []string{"build", "-trimpath", "-ldflags", ldflags(), "-o", out, "./cmd/" + name}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}
	if err := run("go", args...); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}
	return nil
}

func ldflags() string {
	pkg := module + "/pkg/contracts"
	flags := []string{
		"-s", "-w",
		fmt.Sprintf("-X %s.BuildTime=%s", pkg, time.Now().UTC().Format(time.RFC3339)),
	}
	if commit, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		flags = append(flags, fmt.Sprintf("-X %s.GitCommit=%s", pkg, strings.TrimSpace(string(commit))))
	}
	return strings.Join(flags, " ")
}

func runTests(verbose bool) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")
	if err := run("go", args...); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	printSuccess("All tests passed")
	return nil
}

func clean() error {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", distDir, err)
	}
	return nil
}

// buildRelease builds static executables and writes a version file next to them
func buildRelease(verbose bool) error {
	printInfo("Building release version...")
	if err := clean(); err != nil {
		return err
	}

	os.Setenv("CGO_ENABLED", "0")
	if err := buildAll(verbose); err != nil {
		return err
	}

	version, err := exec.Command("go", "run", "./cmd/merge", "--version").Output()
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	content := fmt.Sprintf("%sBuilt: %s\n", version, time.Now().Format("2006-01-02 15:04:05"))
	if err := os.WriteFile(filepath.Join(distDir, "VERSION.txt"), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write version file: %w", err)
	}

	printSuccess("Release build completed")
	return nil
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
