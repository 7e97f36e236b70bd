package shoppinglist

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"foodgram/internal/repository"
)

const header = "Shopping list:\n"

// Line is one aggregated entry of a shopping list.
type Line struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"total"`
}

type lineKey struct {
	name string
	unit string
}

// Aggregate groups rows by (name, unit), sums their amounts and sorts the
// result by name, then unit.
func Aggregate(rows []repository.CartIngredientRow) []Line {
	totals := make(map[lineKey]int64, len(rows))
	for _, r := range rows {
		totals[lineKey{name: r.Name, unit: r.MeasurementUnit}] += r.Amount
	}

	lines := make([]Line, 0, len(totals))
	for k, total := range totals {
		lines = append(lines, Line{Name: k.name, MeasurementUnit: k.unit, Total: total})
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].MeasurementUnit < lines[j].MeasurementUnit
	})
	return lines
}

// Render formats lines as the downloadable text document. An empty list
// renders the header only.
func Render(lines []Line) string {
	var b strings.Builder
	b.WriteString(header)
	for i, l := range lines {
		fmt.Fprintf(&b, "%d. %s (%s) - %d;\n", i+1, capitalize(l.Name), l.MeasurementUnit, l.Total)
	}
	return b.String()
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(s)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
