package lat

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render writes the table of signed biases with input masks as rows and
// output masks as columns.
func (t *Table) Render(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"in\\out"}
	for b := range Size {
		header = append(header, fmt.Sprintf("%X", b))
	}
	tw.AppendHeader(header)

	for a := range uint8(Size) {
		row := table.Row{fmt.Sprintf("%X", a)}
		for b := range uint8(Size) {
			row = append(row, t.Bias(a, b))
		}
		tw.AppendRow(row)
	}

	tw.Render()
}

// RenderStrongest writes the n strongest non-trivial approximations.
func (t *Table) RenderStrongest(w io.Writer, n int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"in", "out", "count", "bias", "deviation"})

	for _, e := range t.Strongest(n) {
		tw.AppendRow(table.Row{
			fmt.Sprintf("%04b", e.In), fmt.Sprintf("%04b", e.Out),
			e.Count, e.Bias(),
			fmt.Sprintf("%+.4f", float64(e.Bias())/Size),
		})
	}

	tw.Render()
}
