// Package core has the orchestration logic for merging, attributing and exporting records.
package core

import (
	"context"

	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing the store commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error

// ExecuteMerge folds every discovered parser output file into the store and prints a summary.
// It serves as the main entry point for the 'merge' command.
func ExecuteMerge(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error {
	return executeMerge(ctx, cfg, mgr, outwriter.NewOutWriter())
}

// ExecuteExport projects the store into the configured output format.
// It serves as the main entry point for the 'export' command.
func ExecuteExport(ctx context.Context, cfg *contract.Config, _ contract.LedgerManager) error {
	return executeExport(ctx, cfg, outwriter.NewOutWriter())
}

// ExecuteAttribute prints the identity attributed to each stored record.
// It serves as the main entry point for the 'attribute' command.
func ExecuteAttribute(ctx context.Context, cfg *contract.Config, _ contract.LedgerManager) error {
	return executeAttribute(ctx, cfg, outwriter.NewOutWriter())
}
