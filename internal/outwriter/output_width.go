package outwriter

import (
	"os"

	"github.com/huangsam/bugcensus/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableKeyWidth calculates the maximum width for key cells in table output
// based on terminal width and the number of columns in the table.
func GetMaxTableKeyWidth(cfg *contract.Config, keyCols, valueCols int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Value columns are short numbers; keep room for them plus borders
	reserved := valueCols*12 + 10
	if keyCols < 1 {
		keyCols = 1
	}
	available := (termWidth - reserved) / keyCols
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}
