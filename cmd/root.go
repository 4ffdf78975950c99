package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/internal/iostore"
	"github.com/huangsam/bugcensus/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// storeManager is the global run store manager instance.
var storeManager contract.StoreManager = iostore.Manager

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "bugcensus",
	Short: "Tabulate annotated bug-fix commits and compute summary views.",
	Long: `Bugcensus walks a corpus of annotated bug-fix commits laid out as
<root>/<year>/<repository>/<commit>/class.txt, flattens every valid
annotation into one table, and derives a fixed catalogue of statistical views.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSearch()

	// Set environment variable prefix
	viper.SetEnvPrefix("BUGCENSUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("annotation-file", schema.DefaultAnnotationFile)
	viper.SetDefault("table-file", schema.DefaultTableFile)
	viper.SetDefault("views-dir", contract.DefaultViewsDir)
	viper.SetDefault("output", schema.CSVOut)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("store-backend", schema.NoneBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("color", "yes")
}

// setConfigSearch points Viper at --config or the default .bugcensus.yaml locations.
func setConfigSearch() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".bugcensus") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigSearch()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and initializes the run store.
// Commands that read a corpus require the positional root to be a directory.
func sharedSetup(args []string, needsCorpus bool) error {
	if err := contract.ProcessProfilingConfig(profile, viper.GetString("profile")); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.CorpusRootStr = args[0]
	} else {
		input.CorpusRootStr = "."
	}

	// 4. Run all validation and complex parsing.
	validateFn := contract.ProcessTableConfig
	if needsCorpus {
		validateFn = contract.ProcessAndValidate
	}
	if err := validateFn(cfg, input); err != nil {
		return err
	}
	contract.InitLogger(os.Stderr, cfg.LogLevel)
	contract.SetColorEnabled(cfg.UseColors)

	// 5. Initialize persistence layer with validated config
	if err := iostore.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// corpusSetupWrapper provides PreRunE for commands that walk a corpus.
func corpusSetupWrapper(_ *cobra.Command, args []string) error {
	return sharedSetup(args, true)
}

// tableSetupWrapper provides PreRunE for commands that only read the flat table.
func tableSetupWrapper(_ *cobra.Command, args []string) error {
	return sharedSetup(args, false)
}

// Execute runs the root command with ctx as the root context.
func Execute(ctx context.Context) error {
	rootCtx = ctx
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
