package cmd

import (
	"github.com/huangsam/ctmeta/core"
	"github.com/spf13/cobra"
)

// mergeCmd folds parser output into the metadata store.
var mergeCmd = &cobra.Command{
	Use:   "merge [roots...]",
	Short: "Merge parser output files into the metadata store.",
	Long: `Scan the given roots (default: data) for parser output and fold every record
into the cumulative metadata store.

Records are deduplicated by the first present key among id, uuid, source,
source_path and filename, or by a content hash when none is present. A record
seen again replaces the stored one in place, so repeated runs over the same
inputs leave the store unchanged.

Records without a source_path get the path of the file they came from.
Unreadable files are skipped with a warning. The store file itself is never
ingested, even when it lives under a root.

Examples:
  # Merge everything under ./data into ./data/metadata.json
  ctmeta merge

  # Merge two parser output folders into a custom store
  ctmeta merge parsed/pca parsed/rtf --store archive/metadata.json

  # Preview the counts without writing
  ctmeta merge --dry-run

  # Record the run in the SQLite ingestion ledger
  ctmeta merge --ledger-backend sqlite`,
	PreRunE: mergeSetupWrapper,
	Run:     storeCommandRun(core.ExecuteMerge, "Cannot merge metadata"),
}
