package commands

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/alexeyco/simpletable"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/rudderlabs/metastore-builders/metastore"
)

func describeTable(t *metastore.Table) string {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Field"},
			{Align: simpletable.AlignCenter, Text: "Value"},
		},
	}

	row := func(field, value string) {
		table.Body.Cells = append(table.Body.Cells, []*simpletable.Cell{
			{Align: simpletable.AlignLeft, Text: field},
			{Align: simpletable.AlignLeft, Text: value},
		})
	}

	row("Name", t.TableName)
	row("Database", t.DbName)
	row("Catalog", lo.FromPtr(t.CatName))
	row("Type", t.TableType)
	row("Owner", lo.FromPtr(t.Owner))
	row("Owner type", t.OwnerType.String())
	if t.CreateTime != nil {
		row("Create time", strconv.Itoa(int(*t.CreateTime)))
	}
	row("Original text", lo.FromPtr(t.ViewOriginalText))
	row("Expanded text", lo.FromPtr(t.ViewExpandedText))
	if t.Sd != nil {
		row("Location", t.Sd.Location)
		for _, col := range t.Sd.Cols {
			row("Column", formatColumn(col))
		}
	}
	keys := lo.Keys(t.Parameters)
	slices.Sort(keys)
	for _, key := range keys {
		row("Parameter", key+"="+t.Parameters[key])
	}

	table.SetStyle(simpletable.StyleCompactLite)
	return table.String()
}

func renderViews(w io.Writer, views []*metastore.Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Owner", "Columns", "Original text"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, view := range views {
		var columns []string
		if view.Sd != nil {
			columns = lo.Map(view.Sd.Cols, func(col *metastore.FieldSchema, _ int) string {
				return formatColumn(col)
			})
		}
		table.Append([]string{
			view.TableName,
			lo.FromPtr(view.Owner),
			strings.Join(columns, ", "),
			lo.FromPtr(view.ViewOriginalText),
		})
	}
	table.Render()
}

func formatColumn(col *metastore.FieldSchema) string {
	if col.Comment == "" {
		return fmt.Sprintf("%s %s", col.Name, col.Type)
	}
	return fmt.Sprintf("%s %s (%s)", col.Name, col.Type, col.Comment)
}
