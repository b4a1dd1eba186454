package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableSpec collects rows for a rounded go-pretty table. Short rows are
// padded with empty cells.
type tableSpec struct {
	headers []string
	aligns  []columnAlignment
	rows    [][]string
}

func newTable(headers ...string) *tableSpec {
	return &tableSpec{headers: headers}
}

func (t *tableSpec) align(aligns ...columnAlignment) *tableSpec {
	t.aligns = aligns
	return t
}

func (t *tableSpec) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *tableSpec) render() string {
	columns := len(t.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range t.headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(t.aligns) && t.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
