package ui

import (
	"strings"

	"crmdash/internal/table"
)

// colorizeRow renders r as an indented JSON object in schema order, with the
// Placed projection filled in.
func colorizeRow(r table.Row, schema table.Schema, st Styles) string {
	var b strings.Builder
	b.WriteString(st.JSONPunct.Render("{"))
	if len(schema) > 0 {
		b.WriteString("\n")
	}
	for i, col := range schema {
		b.WriteString("  ")
		b.WriteString(st.JSONKey.Render("\"" + escapeString(col) + "\""))
		b.WriteString(st.JSONPunct.Render(": "))
		b.WriteString(st.JSONString.Render("\"" + escapeString(table.Value(r, col)) + "\""))
		if i < len(schema)-1 {
			b.WriteString(st.JSONPunct.Render(","))
		}
		b.WriteString("\n")
	}
	b.WriteString(st.JSONPunct.Render("}"))
	return b.String()
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
