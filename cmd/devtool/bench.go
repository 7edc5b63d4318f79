package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	benchResultsDir  = "benchmarks/results"
	benchProfilesDir = "benchmarks/profiles"
	benchBaseline    = "baseline.txt"
	benchCurrent     = "current.txt"
	benchTime        = "-benchtime=2s"
)

// hotPaths are the benchmarks run by "bench hot" and "bench profile"
var hotPaths = []struct {
	label   string
	dir     string
	pattern string
}{
	{"Pipeline: compile once, execute per VM", "./benchmarks/pipeline", "BenchmarkPipeline"},
	{"ECS: sparse attach and query", "./internal/ecs", "Benchmark"},
	{"Inspect: views over a populated world", "./internal/inspect", "BenchmarkPass"},
}

type BenchCommand struct{}

func (c *BenchCommand) Name() string {
	return "bench"
}

func (c *BenchCommand) Description() string {
	return "Run and compare benchmarks (run|hot|save|baseline|compare|profile)"
}

func (c *BenchCommand) Run(args []string) error {
	if len(args) == 0 {
		return c.runAll()
	}

	switch args[0] {
	case "run":
		return c.runAll()
	case "hot":
		return c.runHot()
	case "save":
		return c.runAndSave(time.Now().Format("20060102-150405") + ".txt")
	case "baseline":
		return c.runAndSave(benchBaseline)
	case "compare":
		return c.compare()
	case "profile":
		return c.profile()
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func (c *BenchCommand) runAll() error {
	stdout.header("Running all benchmarks...")
	return run(os.Stdout, "go", "test", "-run=^$", "-bench=.", "-benchmem", benchTime, "./...")
}

func (c *BenchCommand) runHot() error {
	stdout.header("Running hot path benchmarks...")
	for _, hp := range hotPaths {
		fmt.Println("  → " + hp.label)
		if err := run(os.Stdout, "go", "test", "-run=^$", "-bench="+hp.pattern, "-benchmem", benchTime, hp.dir); err != nil {
			stdout.line(statusWarn, "%s failed: %v", hp.dir, err)
		}
	}
	return nil
}

func (c *BenchCommand) runAndSave(filename string) error {
	stdout.header("Running benchmarks and saving results...")
	if err := os.MkdirAll(benchResultsDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(benchResultsDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := run(io.MultiWriter(os.Stdout, f), "go", "test", "-run=^$", "-bench=.", "-benchmem", benchTime, "./..."); err != nil {
		return fmt.Errorf("benchmark execution failed: %w", err)
	}

	stdout.line(statusOK, "Results saved to %s", path)
	return nil
}

// compare runs the suite again and diffs it against the baseline with benchstat
func (c *BenchCommand) compare() error {
	baseline := filepath.Join(benchResultsDir, benchBaseline)
	if _, err := os.Stat(baseline); os.IsNotExist(err) {
		return fmt.Errorf("no baseline found. Run 'devtool bench baseline' first")
	}
	if err := c.runAndSave(benchCurrent); err != nil {
		stdout.line(statusWarn, "some benchmarks failed, comparing what ran: %v", err)
	}
	current := filepath.Join(benchResultsDir, benchCurrent)

	stdout.header("Comparing to baseline...")
	if _, err := output("go", "tool", "-n", "benchstat"); err == nil {
		return run(os.Stdout, "go", "tool", "benchstat", baseline, current)
	}
	if err := run(os.Stdout, "go", "run", "golang.org/x/perf/cmd/benchstat", baseline, current); err == nil {
		return nil
	}

	stdout.line(statusWarn, "benchstat unavailable, showing raw results")
	for _, path := range []string{baseline, current} {
		fmt.Println(strings.ToUpper(strings.TrimSuffix(filepath.Base(path), ".txt")) + ":")
		printBenchLines(path, 5)
	}
	return nil
}

func printBenchLines(path string, n int) {
	content, err := os.ReadFile(path)
	if err != nil {
		stdout.line(statusFail, "reading %s: %v", path, err)
		return
	}
	for _, line := range strings.Split(string(content), "\n") {
		if n == 0 {
			return
		}
		if strings.HasPrefix(line, "Benchmark") {
			fmt.Println(line)
			n--
		}
	}
}

func (c *BenchCommand) profile() error {
	stdout.header("Profiling hot paths...")
	if err := os.MkdirAll(benchProfilesDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	hp := hotPaths[0]
	cpu := filepath.Join(benchProfilesDir, "cpu.prof")
	mem := filepath.Join(benchProfilesDir, "mem.prof")

	fmt.Println("  → CPU profile: " + hp.label)
	if err := run(os.Stdout, "go", "test", "-run=^$", "-bench="+hp.pattern, "-cpuprofile="+cpu, hp.dir); err != nil {
		return fmt.Errorf("cpu profile: %w", err)
	}
	fmt.Println("  → Memory profile: " + hp.label)
	if err := run(os.Stdout, "go", "test", "-run=^$", "-bench="+hp.pattern, "-benchmem", "-memprofile="+mem, hp.dir); err != nil {
		return fmt.Errorf("memory profile: %w", err)
	}

	stdout.line(statusOK, "Profiles saved to %s", benchProfilesDir)
	fmt.Println("View with:")
	fmt.Println("  go tool pprof -http=:8080 " + cpu)
	fmt.Println("  go tool pprof -http=:8080 " + mem)
	return nil
}
