package sheets

import (
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

const (
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
	defaultReadRange    = "A1:Z1000"
)

func sheetPropertiesToInfo(props *sheets.SheetProperties) SheetInfo {
	si := SheetInfo{
		SheetID: props.SheetId,
		Title:   props.Title,
	}
	if props.GridProperties != nil {
		si.RowCount = props.GridProperties.RowCount
		si.ColCount = props.GridProperties.ColumnCount
	}
	return si
}

// formatRow renders one row of cell values as a pipe-separated line.
func formatRow(row []interface{}) string {
	cells := make([]string, 0, len(row))
	for _, cell := range row {
		cells = append(cells, fmt.Sprintf("%v", cell))
	}
	return strings.Join(cells, " | ")
}

func rowsToInterface(rows [][]string) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		out = append(out, cells)
	}
	return out
}
