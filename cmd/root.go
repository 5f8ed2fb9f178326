package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/ctmeta/core"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/ledger"
	"github.com/huangsam/ctmeta/schema"
	"github.com/joho/godotenv"
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

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "ctmeta",
	Short: "Merge X-ray/CT scan metadata and attribute scans to users.",
	Long: `ctmeta folds parser output into one deduplicated metadata store and exports
it as a flat table with every scan attributed to a user by its folder path.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in the .env file and ENV variables if set.
func initConfig() {
	// A missing .env file is fine
	_ = godotenv.Load()

	// Set environment variable prefix
	viper.SetEnvPrefix("CTMETA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("store", contract.DefaultStorePath)
	viper.SetDefault("roster", contract.DefaultRosterPath)
	viper.SetDefault("pattern", contract.DefaultInputPattern)
	viper.SetDefault("output", string(schema.CSVOut))
	viper.SetDefault("identity-column", schema.DefaultIdentityColumn)
	viper.SetDefault("cache-size", contract.DefaultCacheSize)
	viper.SetDefault("ledger-backend", string(schema.NoneBackend))
	viper.SetDefault("ledger-db-connect", "")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("color", "yes")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".ctmeta")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(roots []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.Roots = roots

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	contract.SetLogLevel(cfg.LogLevel)
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetupWrapper wraps sharedSetup for commands without input roots.
func sharedSetupWrapper(_ *cobra.Command, _ []string) error {
	return sharedSetup(nil)
}

// mergeSetupWrapper runs sharedSetup with the positional roots and opens the ledger.
func mergeSetupWrapper(_ *cobra.Command, args []string) error {
	if err := sharedSetup(args); err != nil {
		return err
	}
	if err := ledger.InitLedger(cfg.LedgerBackend, cfg.LedgerDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// storeCommandRun adapts a store executor to a cobra Run function.
func storeCommandRun(fn core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(rootCtx, cfg, ledger.Manager); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
