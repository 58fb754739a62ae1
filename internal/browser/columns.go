package browser

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/Sternrassler/artic-selector/pkg/catalog"
)

type column struct {
	header string
	width  int // 0 means unbounded
	value  func(catalog.Item) string
}

var columns = []column{
	{"ID", 0, func(i catalog.Item) string { return strconv.Itoa(i.ID) }},
	{"Title", 32, func(i catalog.Item) string { return i.Title }},
	{"Origin", 16, func(i catalog.Item) string { return i.PlaceOfOrigin }},
	{"Artist", 28, func(i catalog.Item) string { return i.ArtistDisplay }},
	{"Inscriptions", 24, func(i catalog.Item) string { return i.InscriptionsText() }},
	{"Start", 0, func(i catalog.Item) string { return i.DateStartText() }},
	{"End", 0, func(i catalog.Item) string { return i.DateEndText() }},
}

// Headers returns the table header row, starting with the checkbox column.
func Headers() []string {
	return append([]string{""}, lo.Map(columns, func(c column, _ int) string { return c.header })...)
}

// Row returns the cells for item. Text is folded onto one line; with
// truncate set, columns are cut to their width in the interactive view.
func Row(item catalog.Item, selected, truncate bool) []string {
	check := "[ ]"
	if selected {
		check = "[x]"
	}
	return append([]string{check}, lo.Map(columns, func(c column, _ int) string {
		v := oneLine(c.value(item))
		if truncate && c.width > 0 {
			v = truncateText(v, c.width)
		}
		return v
	})...)
}

// PlainTable renders items as a borderless, uncolored table for output
// that is piped or read outside the interactive view.
func PlainTable(items []catalog.Item, selected func(id int) bool) string {
	rows := lo.Map(items, func(item catalog.Item, _ int) []string {
		return Row(item, selected(item.ID), false)
	})

	plain := lipgloss.NewStyle().PaddingRight(1)
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(lo.Map(Headers(), func(h string, _ int) string { return strings.ToUpper(h) })...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style { return plain }).
		String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateText(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
