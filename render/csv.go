package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
)

// WriteCSV writes a diffable report: a metadata block, every summary table,
// then a waterfall summary and detail table per capture. Each table is framed
// by ##BEGINTABLE / ##ENDTABLE marker records.
func WriteCSV(w io.Writer, source string, captures []*model.Capture) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"##BEGINMETADATA:"},
		{"HAR File::" + source},
		{"##ENDMETADATA:"},
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv metadata: %w", err)
	}

	for _, table := range motor.SummaryTables() {
		if table.Name == motor.TableWaterfallSummary {
			continue
		}
		if err := writeCSVTable(cw, strings.ToUpper(table.Title), table.Header(), table.Rows(captures)); err != nil {
			return err
		}
	}

	summary := motor.WaterfallSummaryTable()
	details := motor.WaterfallDetailsTable()
	for i, capture := range captures {
		name := fmt.Sprintf("%s %d", strings.ToUpper(summary.Title), i)
		if err := writeCSVTable(cw, name, summary.Header(), summary.Rows([]*model.Capture{capture})); err != nil {
			return err
		}
		name = fmt.Sprintf("%s %d", strings.ToUpper(details.Title), i)
		if err := writeCSVTable(cw, name, details.Header(), details.EntryRows(capture)); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeCSVTable(cw *csv.Writer, name string, header []string, rows [][]string) error {
	records := make([][]string, 0, len(rows)+3)
	records = append(records, []string{"##BEGINTABLE:" + name})
	records = append(records, header)
	records = append(records, rows...)
	records = append(records, []string{"##ENDTABLE:" + name})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv table %s: %w", name, err)
	}
	return nil
}
