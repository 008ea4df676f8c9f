package main

import (
	"io"

	"github.com/fwojciec/casescrape/crawl"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// renderSkipped prints skipped nodes as a table.
func renderSkipped(w io.Writer, skipped []crawl.NodeOutcome) {
	t := newTable(w)
	t.SetTitle("Skipped")
	t.AppendHeader(table.Row{"Level", "Name", "URL", "Error"})
	for _, o := range skipped {
		t.AppendRow(table.Row{o.Level, o.Name, crawl.TruncateURL(o.URL, 60), errorText(o.Err)})
	}
	t.Render()
}
