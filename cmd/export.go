package cmd

import (
	"github.com/huangsam/ctmeta/core"
	"github.com/spf13/cobra"
)

// exportCmd projects the store into a flat table.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the metadata store as a flat, attributed table.",
	Long: `Flatten every stored record into dotted columns and attribute it to a user
from the roster.

Columns start with a fixed set of commonly used fields, followed by every
other field sorted by name, followed by the identity column. Nested values
such as calib_images.GainImg become their own columns.

A record is attributed to the roster entry whose folder name or folder path
matches the longest part of any of its path fields.

Examples:
  # Write data/metadata.csv using users.csv
  ctmeta export

  # Use a different roster and column name
  ctmeta export --roster rosters/2024.tsv --identity-column Owner

  # Export as Parquet for DuckDB or pandas
  ctmeta export --output parquet --output-file metadata.parquet

  # Preview the first rows in the terminal
  ctmeta export --output text --limit 10`,
	PreRunE: sharedSetupWrapper,
	Run:     storeCommandRun(core.ExecuteExport, "Cannot export metadata"),
}
