package outwriter

import (
	"os"

	"github.com/huangsam/ctmeta/internal/contract"
	"golang.org/x/term"
)

// Column budgets used when fitting tables into the terminal.
const (
	minCellWidth = 15
	maxCellWidth = 70
)

// GetMaxTablePathWidth calculates the maximum width for record paths in the
// attribution table based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	// Reserve space for fixed columns with table formatting
	baseWidth := 10 // Row number with borders/padding
	baseWidth += 35 // Identity column with formatting

	// Add explain columns
	if cfg.Explain {
		baseWidth += 45 // Weight + Kind + Key with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	return clampWidth(terminalWidth(cfg) - baseWidth)
}

// GetMaxTableCellWidth calculates the width of each cell in a preview table
// that shows the given number of columns.
func GetMaxTableCellWidth(cfg *contract.Config, columns int) int {
	if columns <= 0 {
		return maxCellWidth
	}
	// Three characters of separator and padding per column
	return clampWidth(terminalWidth(cfg)/columns - 3)
}

// terminalWidth returns the width override from flag/env, the detected
// terminal width, or a conservative default.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

func clampWidth(available int) int {
	if available < minCellWidth {
		return minCellWidth
	}
	if available > maxCellWidth {
		return maxCellWidth
	}
	return available
}
