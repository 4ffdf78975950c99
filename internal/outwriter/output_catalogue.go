package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintViewCatalogue lists the available views in the configured output format.
func PrintViewCatalogue(w io.Writer, infos []schema.ViewInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, infos)
	case schema.YAMLOut:
		return writeYAML(w, infos)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"name", "description"}, func(cw *csv.Writer) error {
			for _, info := range infos {
				if err := cw.Write([]string{info.Name, info.Description}); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			return nil
		})
	default:
		table := tablewriter.NewWriter(w)
		table.Header([]string{"View", "Description"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		data := make([][]string, 0, len(infos))
		for _, info := range infos {
			data = append(data, []string{info.Name, info.Description})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}
}
