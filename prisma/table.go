package prisma

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// TableFormatter renders resolved items as markdown tables.
type TableFormatter struct {
	// MaxWidth is the maximum width for a cell; 0 disables truncation
	MaxWidth int
	// TruncateString is the string to append when truncating
	TruncateString string
}

// NewTableFormatter creates a new table formatter with default settings
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		MaxWidth:       50,
		TruncateString: "...",
	}
}

// FormatItem formats a resolved result as a markdown table.
//
// A list of maps becomes one row per map, with the union of their keys as
// columns in first-seen order. A single map is one row. Anything else is
// shown in a single "value" column, one row per list element.
func (tf *TableFormatter) FormatItem(item Item) string {
	var rows []MapItem
	switch it := item.(type) {
	case nil:
		return "_Empty result_"
	case MapItem:
		rows = []MapItem{it}
	case ListItem:
		if len(it) == 0 {
			return "_Empty result_"
		}
		allMaps := true
		for _, child := range it {
			m, ok := child.(MapItem)
			if !ok {
				allMaps = false
				break
			}
			rows = append(rows, m)
		}
		if !allMaps {
			return tf.formatScalars(it)
		}
	default:
		return tf.formatScalars(ListItem{it})
	}

	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, key := range row.Entries.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	if len(columns) == 0 {
		return "_Empty result_"
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(columns))
		for j, col := range columns {
			if child, ok := row.Get(col); ok {
				cells[i][j] = tf.formatCell(child)
			}
		}
	}
	return tf.formatTable(columns, cells)
}

func (tf *TableFormatter) formatScalars(items ListItem) string {
	cells := make([][]string, len(items))
	for i, it := range items {
		cells[i] = []string{tf.formatCell(it)}
	}
	return tf.formatTable([]string{"value"}, cells)
}

// formatTable formats headers and rows as a markdown table
func (tf *TableFormatter) formatTable(headers []string, rows [][]string) string {
	tableString := &strings.Builder{}

	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	tableString.WriteString(fmt.Sprintf("\n_%d rows_\n", len(rows)))
	return tableString.String()
}

// formatCell converts an item to its cell text. Nested maps and lists are
// shown as compact JSON.
func (tf *TableFormatter) formatCell(item Item) string {
	var s string
	switch it := item.(type) {
	case nil:
		s = "null"
	case ValueItem:
		s = tf.formatValue(it.Value)
	default:
		data, err := it.MarshalJSON()
		if err != nil {
			s = fmt.Sprintf("<%v>", err)
		} else {
			s = string(data)
		}
	}
	return tf.truncate(s)
}

// formatValue converts a value to a string representation
func (tf *TableFormatter) formatValue(v Value) string {
	switch v := v.(type) {
	case nil, Null:
		return "null"
	case String:
		return string(v)
	case Enum:
		return string(v)
	case XML:
		return string(v)
	case Boolean:
		return fmt.Sprintf("%t", bool(v))
	case Int:
		return fmt.Sprintf("%d", int32(v))
	case BigInt:
		return fmt.Sprintf("%d", int64(v))
	case UUID:
		return v.String()
	case DateTime:
		return time.Time(v).Format(time.RFC3339Nano)
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		return string(data)
	}
}

func (tf *TableFormatter) truncate(s string) string {
	if tf.MaxWidth <= 0 || utf8.RuneCountInString(s) <= tf.MaxWidth {
		return s
	}
	keep := tf.MaxWidth - utf8.RuneCountInString(tf.TruncateString)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(s)[:keep]) + tf.TruncateString
}
