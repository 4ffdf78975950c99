// Package main provides a performance benchmarking tool for the bugcensus CLI.
// It generates synthetic corpora of increasing size, times each command several
// times with and without run tracking, and writes the averages to a CSV file.
//
// Prerequisites:
// - bugcensus binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic corpora are generated (default: a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the averaged timings of one command over one corpus.
type BenchmarkResult struct {
	Corpus      string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	CorpusSizes map[string]int // name -> number of commit directories
	Commands    []string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "bugcensus-bench-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		CorpusSizes: map[string]int{
			"small":  1_000,
			"medium": 10_000,
			"large":  50_000,
		},
		Commands: []string{"extract", "aggregate", "run"},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config.Commands)
}

// checkPrerequisites verifies that the bugcensus binary is available.
func checkPrerequisites() error {
	if _, err := exec.LookPath("bugcensus"); err != nil {
		return fmt.Errorf("bugcensus binary not found in PATH")
	}
	return nil
}

// runBenchmarks generates every corpus and times every command against it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d corpora, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.CorpusSizes), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, name := range []string{"small", "medium", "large"} {
		size, ok := config.CorpusSizes[name]
		if !ok {
			continue
		}
		corpusDir := filepath.Join(config.WorkDir, name)
		fmt.Printf("Generating %s corpus (%d commits)\n", name, size)
		if err := generateCorpus(corpusDir, size); err != nil {
			return nil, err
		}

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, name, corpusDir, command))
		}
	}

	return results, nil
}

// generateCorpus writes n commit directories spread over years and repositories.
// About one in ten annotations is rejected so every tally path is exercised.
func generateCorpus(root string, n int) error {
	rng := rand.New(rand.NewPCG(42, uint64(n)))
	repos := []string{"tokio", "serde", "rand", "hyper", "clap", "regex"}
	for i := range n {
		year := 2018 + i%6
		repo := repos[rng.IntN(len(repos))]
		dir := filepath.Join(root, fmt.Sprint(year), repo, fmt.Sprintf("%08x", i))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "class.txt"), []byte(syntheticAnnotation(rng)), 0o644); err != nil {
			return fmt.Errorf("failed to write annotation in %s: %w", dir, err)
		}
	}
	return nil
}

// syntheticAnnotation returns the text of one random annotation file.
func syntheticAnnotation(rng *rand.Rand) string {
	switch rng.IntN(20) {
	case 0:
		return "7\n"
	case 1:
		return "0 0\n"
	}
	cause := 1 + rng.IntN(12)
	symptom := 1 + rng.IntN(6)
	var first string
	if symptom == 3 && rng.IntN(2) == 0 {
		first = fmt.Sprintf("%d %d %d", cause, symptom, 1+rng.IntN(8))
	} else {
		first = fmt.Sprintf("%d %d", cause, symptom)
	}
	return fmt.Sprintf("%s\n%d %d\n%d\n%d\n%d %d\n",
		first,
		rng.IntN(200), rng.IntN(100),
		rng.IntN(2),
		rng.IntN(4),
		rng.IntN(2), rng.IntN(2),
	)
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, name, corpusDir, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, name)

	// Helper to run a benchmark phase
	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, corpusDir, command, backend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No run tracking
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: SQLite run tracking
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Corpus:      name,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a bugcensus command numRuns times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, corpusDir, command, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	outDir := filepath.Join(config.WorkDir, "out-"+filepath.Base(corpusDir))
	args := []string{
		command,
		"--store-backend", backend,
		"--store-db-connect", filepath.Join(outDir, "runs.db"),
		"--table-file", filepath.Join(outDir, "result_summary.csv"),
		"--views-dir", filepath.Join(outDir, "views"),
		"--log-level", "warn",
	}
	if command != "aggregate" {
		args = append(args, corpusDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, nil
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "bugcensus", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && isSuccess(output, command) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	if command == "aggregate" {
		return true
	}
	return strings.Contains(string(output), "valid")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("bugcensus_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"corpus", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Corpus, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult, commands []string) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-store: %s, Cold: %s, Warm: %s\n", result.Corpus, result.NoStoreTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
