package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table buffers rows and renders them without borders.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a new table writing to w.
func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Len is the number of buffered rows.
func (t *Table) Len() int { return len(t.rows) }

// Render outputs the table
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return err
	}
	return t.table.Render()
}
