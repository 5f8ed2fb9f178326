package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/ctmeta/core/dedup"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/mdstore"
	"github.com/huangsam/ctmeta/internal/outwriter"
	"github.com/huangsam/ctmeta/schema"
	"github.com/sirupsen/logrus"
)

// ingestedEntry is one record a merge run folded into the store.
type ingestedEntry struct {
	key        string
	sourcePath string
	action     schema.MergeAction
}

func executeMerge(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager, ow *outwriter.OutWriter) error {
	start := time.Now()
	var store contract.LedgerStore
	if mgr != nil {
		store = mgr.GetLedgerStore()
	}
	summary, err := RunMerge(ctx, cfg, store)
	if err != nil {
		return err
	}
	return ow.WriteMergeSummary(summary, cfg, time.Since(start))
}

// RunMerge loads the store, ingests every discovered input file and, unless
// this is a dry run, rewrites the store and records the run in the ledger.
// A nil ledger store records nothing.
func RunMerge(ctx context.Context, cfg *contract.Config, ledgerStore contract.LedgerStore) (schema.MergeSummary, error) {
	logger := contract.Logger()
	summary := schema.MergeSummary{StorePath: cfg.StorePath, DryRun: cfg.DryRun}

	existing, err := mdstore.LoadStore(cfg.StorePath)
	if err != nil {
		if !errors.Is(err, mdstore.ErrMalformedStore) {
			return summary, err
		}
		if !cfg.AllowReset {
			return summary, fmt.Errorf("%w (rerun with --allow-reset to discard it)", err)
		}
		logger.WithError(err).WithField("store", cfg.StorePath).Error("discarding malformed store and starting empty")
		summary.StoreWasReset = true
	}
	summary.PriorRecords = len(existing)

	merger := dedup.NewMerger()
	merger.Seed(existing...)

	files, err := mdstore.DiscoverInputs(cfg.Roots, cfg.Pattern, cfg.Excludes, []string{cfg.StorePath, cfg.OutputFile})
	if err != nil {
		return summary, err
	}
	summary.FilesScanned = len(files)

	var entries []ingestedEntry
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		records, err := mdstore.ReadRecordFile(path)
		if err != nil {
			logger.WithError(err).WithField("path", path).Warn("skipping unreadable input")
			summary.FilesSkipped++
			continue
		}
		provenance := DisplayPath(path)
		for _, r := range records {
			key, action := merger.Ingest(r, provenance)
			summary.RecordsRead++
			if action == schema.ReplaceAction {
				summary.Replaced++
			} else {
				summary.Inserted++
			}
			entries = append(entries, ingestedEntry{key: key, sourcePath: provenance, action: action})
		}
	}
	summary.TotalWritten = merger.Len()

	if cfg.DryRun {
		return summary, nil
	}
	if err := mdstore.SaveStore(cfg.StorePath, merger.Records()); err != nil {
		return summary, fmt.Errorf("failed to write store: %w", err)
	}
	recordRun(ledgerStore, cfg, summary, entries)
	return summary, nil
}

// recordRun writes the run to the ledger. Failures only produce warnings.
func recordRun(store contract.LedgerStore, cfg *contract.Config, summary schema.MergeSummary, entries []ingestedEntry) {
	if store == nil {
		return
	}
	logger := contract.Logger().WithField("backend", cfg.LedgerBackend)

	runID, err := store.BeginRun(cfg.StorePath, map[string]any{
		"roots":       cfg.Roots,
		"pattern":     cfg.Pattern,
		"excludes":    cfg.Excludes,
		"allow_reset": cfg.AllowReset,
	})
	if err != nil {
		contract.LogWarn("failed to record merge run in ledger", err)
		return
	}
	for _, e := range entries {
		if err := store.RecordEntry(runID, e.key, e.sourcePath, e.action); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{"run_id": runID, "key": e.key}).Warn("failed to record ledger entry")
			break
		}
	}
	if err := store.EndRun(runID, summary); err != nil {
		logger.WithError(err).WithField("run_id", runID).Warn("failed to finish merge run in ledger")
	}
}

// DisplayPath returns path relative to the working directory when it lies
// beneath it, in forward-slash form.
func DisplayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
