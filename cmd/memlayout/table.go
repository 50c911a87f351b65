package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/wippyai/memlayout/schema"
	"github.com/wippyai/memlayout/view"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	nestedStyle = cellStyle.
			Foreground(lipgloss.Color("#87CEEB"))

	captionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))
)

const defaultWidth = 100

// terminalWidth returns the width of stdout, or defaultWidth when stdout
// is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// layoutRow is one flattened field of a layout tree.
type layoutRow struct {
	field  schema.FieldLayout
	name   string
	nested bool
}

func flatten(l *schema.Layout, prefix string, depth int) []layoutRow {
	var rows []layoutRow
	for _, f := range l.Fields {
		name := prefix + f.Name
		rows = append(rows, layoutRow{field: f, name: name, nested: depth > 0})
		if f.Nested != nil {
			rows = append(rows, flatten(f.Nested, name+".", depth+1)...)
		}
	}
	return rows
}

func caption(l *schema.Layout) string {
	return captionStyle.Render(fmt.Sprintf("%s  width=%d  offset=%d  order=%s  format=%s",
		l.Name, l.Width, l.Offset, l.ByteOrder, l.Endianness.Symbol()+l.Format))
}

func renderTable(l *schema.Layout, width int) string {
	rows := flatten(l, "", 0)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Width(width).
		Headers("FIELD", "OFFSET", "WIDTH", "TYPE", "FORMAT", "ITEMS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && rows[row].nested {
				return nestedStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(
			r.name,
			strconv.Itoa(r.field.Offset),
			strconv.Itoa(r.field.Width),
			r.field.TypeName,
			r.field.Format,
			strconv.Itoa(r.field.Items),
		)
	}
	return caption(l) + "\n" + t.Render()
}

// renderValues prints the layout of v with the decoded value of every
// leaf field.
func renderValues(v *view.View, width int) string {
	l := v.Layout(true)
	rows := flatten(l, "", 0)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Width(width).
		Headers("FIELD", "OFFSET", "TYPE", "VALUE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	skip := ""
	for _, r := range rows {
		if skip != "" && strings.HasPrefix(r.name, skip) {
			continue
		}
		skip = ""
		value := ""
		switch {
		case r.field.Kind != schema.LeafComposite:
			value = formatValue(v, r.name)
		case len(r.field.Dims) > 0:
			// records inside arrays are addressed by index, not by
			// the flattened field name
			value = formatValue(v, r.name)
			skip = r.name + "."
		}
		t.Row(r.name, strconv.Itoa(r.field.Offset), r.field.TypeName, value)
	}
	return caption(l) + "\n" + t.Render()
}

func formatValue(v *view.View, path string) string {
	got, err := v.Get(path)
	if err != nil {
		return "error: " + err.Error()
	}
	if a, ok := got.(*view.Array); ok {
		values, err := a.Values()
		if err != nil {
			return "error: " + err.Error()
		}
		return fmt.Sprint(values)
	}
	if s, ok := got.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(got)
}
