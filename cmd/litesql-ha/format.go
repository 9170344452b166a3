package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/viant/litesql-ha/client"
)

// printResult renders a tabular result as a table followed by a row count,
// or the affected row count of an update.
func printResult(w io.Writer, result *client.Result) error {
	if !result.HasRows() {
		fmt.Fprintf(w, "%d row%s affected\n", result.RowsAffected, plural(result.RowsAffected))
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(result.Columns)
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		table.Append(cells)
	}
	table.Render()
	fmt.Fprintf(w, "(%d row%s)\n", len(result.Rows), plural(int64(len(result.Rows))))
	return nil
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strings.NewReplacer("\t", "\\t", "\n", "\\n").Replace(v)
	case []byte:
		return `\x` + hex.EncodeToString(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}
