package dataset

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// Records renders the table as text rows, header first
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Columns())
	for _, row := range t.rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = FormatValue(v)
		}
		out = append(out, rec)
	}
	return out
}

// String renders the table as aligned columns with a leading row index
func (t Table) String() string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	for i, rec := range t.Records() {
		if i == 0 {
			fmt.Fprint(w, "\t")
		} else {
			fmt.Fprintf(w, "%d\t", i-1)
		}
		for _, cell := range rec {
			fmt.Fprintf(w, "%s\t", cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return buf.String()
}
