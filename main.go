// main is the entry point for the ctmeta CLI.
package main

import (
	"github.com/huangsam/ctmeta/cmd"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/internal/ledger"
)

func main() {
	err := cmd.Execute()
	ledger.CloseLedger()
	if err != nil {
		contract.LogFatal("ctmeta failed", err)
	}
}
