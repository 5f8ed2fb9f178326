package cmd

import (
	"github.com/huangsam/ctmeta/core"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/spf13/cobra"
)

// wrapCmd turns any file into a mergeable record.
var wrapCmd = &cobra.Command{
	Use:   "wrap <input> <output>",
	Short: "Wrap any file in a JSON envelope that can be merged.",
	Long: `Describe an arbitrary file as a single JSON record with its path, name,
extension, size and SHA-256 digest. UTF-8 content is embedded as text and
anything else as base64.

Use this for instrument files that no parser understands yet so they still
show up in the store.

Examples:
  # Wrap an unparsed log next to the other parser output
  ctmeta wrap raw/session.log data/parsed/session.json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteWrap(rootCtx, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot wrap file", err)
		}
	},
}
