package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// StdoutDir is the views directory value that prints every view to stdout.
const StdoutDir = "-"

// ViewPath returns the file a view is written to.
func ViewPath(dir, name string, mode schema.OutputMode) string {
	return filepath.Join(dir, name+"."+mode.Extension())
}

// PrintViews writes every view in the configured output format, one file
// per view inside cfg.ViewsDir. Existing files are replaced.
// With StdoutDir the views are written to out one after another.
func PrintViews(out io.Writer, views []schema.View, cfg *contract.Config) error {
	if cfg.ViewsDir == StdoutDir {
		for _, v := range views {
			if err := WriteView(out, v, cfg); err != nil {
				return fmt.Errorf("error writing view %s: %w", v.Name, err)
			}
		}
		return nil
	}

	if err := os.MkdirAll(cfg.ViewsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create views directory %s: %w", cfg.ViewsDir, err)
	}
	for _, v := range views {
		path := ViewPath(cfg.ViewsDir, v.Name, cfg.Output)
		err := writeWithFile(path, func(w io.Writer) error {
			return WriteView(w, v, cfg)
		}, "Wrote "+v.Name)
		if err != nil {
			return fmt.Errorf("error writing view %s: %w", v.Name, err)
		}
	}
	return nil
}

// WriteView renders a single view to w in the configured output format.
func WriteView(w io.Writer, v schema.View, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, v)
	case schema.YAMLOut:
		return writeYAML(w, v)
	case schema.TextOut:
		return writeViewTable(w, v, cfg)
	default:
		return writeViewCSV(w, v)
	}
}

// writeViewCSV writes key cells followed by exact numeric cells.
func writeViewCSV(w io.Writer, v schema.View) error {
	return writeCSVWithHeader(w, v.Header(), func(cw *csv.Writer) error {
		for _, r := range v.Rows {
			if err := cw.Write(viewRowCells(r, formatExact, 0)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeViewTable renders the view as a human-readable table.
func writeViewTable(w io.Writer, v schema.View, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", contract.HeaderColor.Sprint("📈 "+v.Name), v.Title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header(v.Header())
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	keyWidth := GetMaxTableKeyWidth(cfg, len(v.KeyColumns), len(v.ValueColumns))
	fmtValue := createFormatter(v.Kind, cfg.Precision)
	data := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		data = append(data, viewRowCells(r, fmtValue, keyWidth))
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Sums of means or per-group maxima carry no meaning.
	if v.Kind == schema.CountView {
		_, err := fmt.Fprintf(w, "%d rows, total %s\n\n", len(v.Rows), formatExact(v.Total()))
		return err
	}
	_, err := fmt.Fprintf(w, "%d rows\n\n", len(v.Rows))
	return err
}

// viewRowCells flattens a row into cells. A positive keyWidth truncates key cells.
func viewRowCells(r schema.ViewRow, fmtValue func(float64) string, keyWidth int) []string {
	cells := make([]string, 0, len(r.Keys)+len(r.Values))
	for _, k := range r.Keys {
		if keyWidth > 0 {
			k = contract.TruncateCell(k, keyWidth)
		}
		cells = append(cells, k)
	}
	for _, val := range r.Values {
		cells = append(cells, fmtValue(val))
	}
	return cells
}
