// Package cmd defines the command-line interface for ctmeta.
package cmd

import (
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(attributeCmd)
	rootCmd.AddCommand(wrapCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the ledger subcommands to the parent ledger command
	ledgerCmd.AddCommand(ledgerStatusCmd)
	ledgerCmd.AddCommand(ledgerClearCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)
	ledgerCmd.AddCommand(ledgerMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of input path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("log-level", "info", "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().Bool("log-matches", false, "Log every attribution decision at debug level")
	rootCmd.PersistentFlags().String("ledger-backend", string(schema.NoneBackend), "Ingestion ledger backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("ledger-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display in tables")
	rootCmd.PersistentFlags().Int("cache-size", contract.DefaultCacheSize, "Number of normalized candidate paths kept in memory")
	rootCmd.PersistentFlags().String("store", contract.DefaultStorePath, "Path of the metadata store")
	rootCmd.PersistentFlags().String("roster", contract.DefaultRosterPath, "Path of the folder to user roster")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of mergeCmd to Viper
	mergeCmd.Flags().String("pattern", contract.DefaultInputPattern, "Glob pattern selecting parser output files under each root")
	mergeCmd.Flags().Bool("allow-reset", false, "Discard a malformed store instead of failing")
	mergeCmd.Flags().Bool("dry-run", false, "Report what would be merged without writing the store")
	if err := viper.BindPFlags(mergeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding merge flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().String("output", string(schema.CSVOut), "Output format: csv or json or parquet or text")
	exportCmd.Flags().String("identity-column", schema.DefaultIdentityColumn, "Name of the attributed user column")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of attributeCmd to Viper
	attributeCmd.Flags().Bool("explain", false, "Show the weight, kind and key of each match")
	if err := viper.BindPFlags(attributeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding attribute flags", err)
	}

	// Bind all flags of ledgerMigrateCmd to Viper
	ledgerMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(ledgerMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ledger migrate flags", err)
	}
}
