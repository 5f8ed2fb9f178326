package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/schema"
)

// WriteMergeSummary prints the counters of a merge run.
func WriteMergeSummary(w io.Writer, s schema.MergeSummary, useColors bool, duration time.Duration) error {
	if s.StoreWasReset {
		line := fmt.Sprintf("Existing store %s was malformed and has been reset\n", s.StorePath)
		if err := printColored(w, contract.WarnColor, useColors, line); err != nil {
			return err
		}
	}

	verb := "Merged into"
	if s.DryRun {
		verb = "Dry run, would merge into"
	}
	if s.PriorRecords > 0 {
		if _, err := fmt.Fprintf(w, "Loaded %d existing records from %s\n", s.PriorRecords, s.StorePath); err != nil {
			return err
		}
	}

	line := fmt.Sprintf("%s %s: files scanned %d, skipped %d, records read %d, inserted %d, replaced %d, total written %d\n",
		verb, s.StorePath, s.FilesScanned, s.FilesSkipped, s.RecordsRead, s.Inserted, s.Replaced, s.TotalWritten)
	if err := printColored(w, contract.SuccessColor, useColors, line); err != nil {
		return err
	}

	if s.FilesSkipped > 0 {
		line := fmt.Sprintf("%d input files could not be read; see warnings above\n", s.FilesSkipped)
		if err := printColored(w, contract.WarnColor, useColors, line); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Merge completed in %v\n", duration.Round(time.Millisecond))
	return err
}

func printColored(w io.Writer, c *color.Color, useColors bool, s string) error {
	var err error
	if useColors {
		_, err = c.Fprint(w, s)
	} else {
		_, err = fmt.Fprint(w, s)
	}
	return err
}
