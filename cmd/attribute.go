package cmd

import (
	"github.com/huangsam/ctmeta/core"
	"github.com/spf13/cobra"
)

// attributeCmd shows who each record is attributed to.
var attributeCmd = &cobra.Command{
	Use:   "attribute",
	Short: "Show the user attributed to each stored record.",
	Long: `List stored records with the identity the roster attributes them to.

Use --explain to see why: the weight of the winning match, whether it matched
a single folder name (component) or a full folder path (path), and the
roster key that matched. Use --log-matches with --log-level debug to see every
candidate path that was considered.

Examples:
  # Check attribution for the first 25 records
  ctmeta attribute

  # Explain the matches for all records
  ctmeta attribute --explain --limit 100000`,
	PreRunE: sharedSetupWrapper,
	Run:     storeCommandRun(core.ExecuteAttribute, "Cannot attribute records"),
}
