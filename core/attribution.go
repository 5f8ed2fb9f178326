package core

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/huangsam/ctmeta/core/attrib"
	"github.com/huangsam/ctmeta/core/project"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/mdstore"
	"github.com/huangsam/ctmeta/internal/outwriter"
	"github.com/huangsam/ctmeta/internal/roster"
	"github.com/huangsam/ctmeta/schema"
	"github.com/sirupsen/logrus"
)

func executeExport(ctx context.Context, cfg *contract.Config, ow *outwriter.OutWriter) error {
	table, err := BuildTable(ctx, cfg)
	if err != nil {
		return err
	}
	exportCfg := cfg.Clone()
	exportCfg.OutputFile = ExportPath(cfg)
	return ow.WriteTable(table, exportCfg)
}

func executeAttribute(ctx context.Context, cfg *contract.Config, ow *outwriter.OutWriter) error {
	table, err := BuildTable(ctx, cfg)
	if err != nil {
		return err
	}
	return ow.WriteAttribution(table, cfg)
}

// ExportPath returns where the export is written. Text previews default to
// stdout; the other formats default to the standard export path with the
// extension of the chosen format.
func ExportPath(cfg *contract.Config) string {
	if cfg.OutputFile != "" || cfg.Output == schema.TextOut {
		return cfg.OutputFile
	}
	path := contract.DefaultExportPath
	if cfg.Output == schema.CSVOut || cfg.Output == "" {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(cfg.Output)
}

// BuildTable loads the store and projects it with roster attribution.
func BuildTable(ctx context.Context, cfg *contract.Config) (*project.Table, error) {
	records, err := mdstore.LoadStore(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matcher, err := BuildMatcher(cfg)
	if err != nil {
		return nil, err
	}
	return project.Project(records, matcher, project.Options{
		PreferredColumns: cfg.PreferredColumns,
		IdentityColumn:   cfg.IdentityColumn,
	}), nil
}

// BuildMatcher reads the roster and builds the attribution matcher.
// A missing or unreadable roster yields a matcher that attributes nothing.
func BuildMatcher(cfg *contract.Config) (*attrib.Matcher, error) {
	logger := contract.Logger()

	rows, info, err := roster.Read(cfg.RosterPath)
	switch {
	case err != nil:
		logger.WithError(err).WithField("roster", cfg.RosterPath).Warn("roster unreadable, records will not be attributed")
		rows = nil
	case info.FileIsMissing:
		logger.WithField("roster", cfg.RosterPath).Warn("roster not found, records will not be attributed")
	default:
		logger.WithFields(logrus.Fields{
			"roster":    cfg.RosterPath,
			"rows":      info.Rows,
			"skipped":   info.SkippedRows,
			"delimiter": string(info.Delimiter),
			"header":    info.HasHeader,
		}).Debug("loaded roster")
	}

	opts := attrib.Options{
		Fields:       cfg.Attribution.Fields,
		Bucket:       cfg.Attribution.Bucket,
		BucketFields: cfg.Attribution.BucketFields,
		CacheSize:    cfg.Attribution.CacheSize,
	}
	if cfg.LogMatches {
		opts.Logger = logger
	}
	return attrib.NewMatcher(attrib.BuildIndex(rows), opts)
}
