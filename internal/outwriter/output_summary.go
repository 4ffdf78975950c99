package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
)

// PrintExtractSummary prints every tally counter and the identity that ties them together.
func PrintExtractSummary(w io.Writer, root string, tally schema.Tally, duration time.Duration) error {
	lines := []struct {
		label string
		value int
		color *color.Color
	}{
		{"valid", tally.Valid, contract.ValidColor},
		{string(schema.RejectUnchecked), tally.Unchecked, contract.RejectedColor},
		{string(schema.RejectNotGeneralBug), tally.NotGeneralBug, contract.RejectedColor},
		{string(schema.RejectMalformed), tally.Malformed, contract.RejectedColor},
		{string(schema.RejectMissingFile), tally.MissingFile, contract.RejectedColor},
		{string(schema.RejectIOFailure), tally.IOFailure, contract.FailureColor},
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", contract.HeaderColor.Sprint("📊 Extraction summary for"), root); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %-16s %s\n", l.label, l.color.Sprintf("%6d", l.value)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  %-16s %6d = valid + unchecked + not_general_bug + malformed + missing_file + io_failure\n", "seen", tally.Seen()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Extraction completed in %v\n", duration.Round(time.Millisecond))
	return err
}
