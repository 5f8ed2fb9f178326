package contract

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/ctmeta/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultStorePath    = "data/metadata.json"
	DefaultRosterPath   = "users.csv"
	DefaultExportPath   = "data/metadata.csv"
	DefaultInputRoot    = "data"
	DefaultInputPattern = "**/*.json"
	DefaultResultLimit  = 25
	MaxResultLimit      = 100000
	DefaultCacheSize    = 4096
)

// AttributionConfig controls which record fields the matcher inspects.
type AttributionConfig struct {
	Fields       []string
	Bucket       string
	BucketFields []string
	CacheSize    int
}

// Config holds the runtime configuration shared by all commands.
// This struct remains the "final, validated" config.
type Config struct {
	Roots      []string
	StorePath  string
	Pattern    string
	Excludes   []string
	AllowReset bool
	DryRun     bool

	RosterPath       string
	Output           schema.OutputMode
	OutputFile       string
	IdentityColumn   string
	PreferredColumns []string

	Attribution AttributionConfig
	LogMatches  bool
	Explain     bool
	ResultLimit int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	LogLevel    logrus.Level

	LedgerBackend   schema.DatabaseBackend
	LedgerDBConnect string // Please use env var as this is plaintext
}

// AttributionRawInput holds attribution overrides from the YAML config file.
type AttributionRawInput struct {
	Fields       []string `mapstructure:"fields"`
	Bucket       *string  `mapstructure:"bucket"`
	BucketFields []string `mapstructure:"bucket_fields"`
}

// ExportRawInput holds export overrides from the YAML config file.
type ExportRawInput struct {
	Preferred []string `mapstructure:"preferred"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	Roots []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Exclude         string `mapstructure:"exclude"`
	Color           string `mapstructure:"color"`
	Width           int    `mapstructure:"width"`
	LogLevel        string `mapstructure:"log-level"`
	LogMatches      bool   `mapstructure:"log-matches"`
	LedgerBackend   string `mapstructure:"ledger-backend"`
	LedgerDBConnect string `mapstructure:"ledger-db-connect"`
	Limit           int    `mapstructure:"limit"`
	CacheSize       int    `mapstructure:"cache-size"`

	// --- Fields shared by merge, export and attribute ---
	Store string `mapstructure:"store"`

	// --- Fields from mergeCmd.Flags() ---
	Pattern    string `mapstructure:"pattern"`
	AllowReset bool   `mapstructure:"allow-reset"`
	DryRun     bool   `mapstructure:"dry-run"`

	// --- Fields from exportCmd.Flags() and attributeCmd.Flags() ---
	Roster         string `mapstructure:"roster"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	IdentityColumn string `mapstructure:"identity-column"`
	Explain        bool   `mapstructure:"explain"`

	// --- Overrides from config file ---
	Attribution AttributionRawInput `mapstructure:"attribution"`
	Export      ExportRawInput      `mapstructure:"export"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Roots = slices.Clone(c.Roots)
	clone.Excludes = slices.Clone(c.Excludes)
	clone.PreferredColumns = slices.Clone(c.PreferredColumns)
	clone.Attribution.Fields = slices.Clone(c.Attribution.Fields)
	clone.Attribution.BucketFields = slices.Clone(c.Attribution.BucketFields)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateLedgerConfig(cfg, input); err != nil {
		return err
	}
	processAttribution(cfg, input)
	processExport(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("ledger-db-connect is required when using %s backend", backend)
		}
		if _, err := mysql.ParseDSN(connStr); err != nil {
			return fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("ledger-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-ledger fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.AllowReset = input.AllowReset
	cfg.DryRun = input.DryRun
	cfg.LogMatches = input.LogMatches
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	cfg.StorePath = strings.TrimSpace(input.Store)
	if cfg.StorePath == "" {
		cfg.StorePath = DefaultStorePath
	}
	cfg.Pattern = strings.TrimSpace(input.Pattern)
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultInputPattern
	}
	cfg.RosterPath = strings.TrimSpace(input.Roster)
	if cfg.RosterPath == "" {
		cfg.RosterPath = DefaultRosterPath
	}
	cfg.OutputFile = strings.TrimSpace(input.OutputFile)
	cfg.IdentityColumn = strings.TrimSpace(input.IdentityColumn)
	if cfg.IdentityColumn == "" {
		cfg.IdentityColumn = schema.DefaultIdentityColumn
	}

	cfg.Roots = nil
	for _, r := range input.Roots {
		if r = strings.TrimSpace(r); r != "" {
			cfg.Roots = append(cfg.Roots, r)
		}
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{DefaultInputRoot}
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	level := strings.TrimSpace(input.LogLevel)
	if level == "" {
		level = logrus.InfoLevel.String()
	}
	cfg.LogLevel, err = logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(strings.TrimSpace(input.Output)))
	if cfg.Output == "" {
		cfg.Output = schema.CSVOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be csv, json, parquet, text", input.Output)
	}

	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}
	return nil
}

// validateLedgerConfig validates the ledger backend configuration.
// An empty backend disables the ledger.
func validateLedgerConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.LedgerBackend))
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.LedgerBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.LedgerBackend]; !ok {
		return fmt.Errorf("invalid ledger backend '%s'. must be sqlite, mysql, postgresql, none", input.LedgerBackend)
	}
	cfg.LedgerDBConnect = input.LedgerDBConnect
	return ValidateDatabaseConnectionString(cfg.LedgerBackend, cfg.LedgerDBConnect)
}

// processAttribution applies the config-file overrides of candidate fields.
func processAttribution(cfg *Config, input *ConfigRawInput) {
	attr := AttributionConfig{
		Fields:       slices.Clone(schema.DefaultCandidateFields),
		Bucket:       schema.CalibBucketField,
		BucketFields: slices.Clone(schema.DefaultBucketFields),
		CacheSize:    input.CacheSize,
	}
	if fields := trimAll(input.Attribution.Fields); len(fields) > 0 {
		attr.Fields = fields
	}
	if input.Attribution.Bucket != nil {
		attr.Bucket = strings.TrimSpace(*input.Attribution.Bucket)
	}
	if fields := trimAll(input.Attribution.BucketFields); len(fields) > 0 {
		attr.BucketFields = fields
	}
	if attr.CacheSize <= 0 {
		attr.CacheSize = DefaultCacheSize
	}
	cfg.Attribution = attr
}

// processExport applies the config-file override of the preferred column order.
func processExport(cfg *Config, input *ConfigRawInput) {
	cfg.PreferredColumns = slices.Clone(schema.DefaultPreferredColumns)
	if cols := trimAll(input.Export.Preferred); len(cols) > 0 {
		cfg.PreferredColumns = cols
	}
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
