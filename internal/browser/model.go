// Package browser is the terminal front end: a paginated artwork table with
// row selection, page navigation, and a "select first N" prompt.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Sternrassler/artic-selector/pkg/catalog"
	"github.com/Sternrassler/artic-selector/pkg/pagination"
	"github.com/Sternrassler/artic-selector/pkg/selection"
)

// pageLoadedMsg carries a finished fetch back to the event loop.
type pageLoadedMsg struct {
	done pagination.Completion
}

// Model is the bubbletea model for the artwork browser.
type Model struct {
	ctx       context.Context
	ctrl      *pagination.Controller
	selection *selection.Store
	keys      keyMap
	help      help.Model
	bulk      textinput.Model
	bulkOpen  bool
	cursor    int
	status    string
	logger    zerolog.Logger
}

// New creates a browser over ctrl and store. Fetches run with ctx.
func New(ctx context.Context, ctrl *pagination.Controller, store *selection.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "number of rows"
	ti.CharLimit = 6
	ti.Width = 16

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		selection: store,
		keys:      newKeyMap(),
		help:      help.New(),
		bulk:      ti,
		logger:    log.With().Str("component", "browser").Logger(),
	}
}

// Init requests the controller's current page.
func (m Model) Init() tea.Cmd {
	req, err := m.ctrl.GoToPage(m.ctrl.CurrentPage())
	if err != nil {
		return nil
	}
	return m.fetch(req)
}

func (m Model) fetch(req pagination.Request) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{done: ctrl.Fetch(ctx, req)}
	}
}

// Update handles key presses and fetch completions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		if m.ctrl.Complete(msg.done) && msg.done.Err == nil {
			m.cursor = 0
			m.status = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.bulkOpen {
			return m.updateBulk(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.ctrl.Page().Items

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if len(items) == 0 {
			return m, nil
		}
		m.toggle(items, items[min(m.cursor, len(items)-1)])

	case key.Matches(msg, m.keys.SelectAll):
		m.selection.Reconcile(items, items)

	case key.Matches(msg, m.keys.ClearPage):
		m.selection.Reconcile(items, nil)

	case key.Matches(msg, m.keys.Next):
		return m.goTo(m.ctrl.Next())

	case key.Matches(msg, m.keys.Prev):
		if m.ctrl.DisplayedPage() <= 1 && !m.ctrl.IsLoading() {
			return m, nil
		}
		return m.goTo(m.ctrl.Prev())

	case key.Matches(msg, m.keys.First):
		return m.goTo(m.ctrl.GoToPage(1))

	case key.Matches(msg, m.keys.Reload):
		return m.goTo(m.ctrl.GoToPage(m.ctrl.CurrentPage()))

	case key.Matches(msg, m.keys.Bulk):
		m.bulkOpen = true
		m.bulk.Reset()
		return m, m.bulk.Focus()
	}
	return m, nil
}

func (m Model) updateBulk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.status = ""
		if n, ok := selection.ParseCount(m.bulk.Value()); ok {
			added := m.selection.BulkSelectFirstN(m.ctrl.Page().Items, n)
			m.status = fmt.Sprintf("Selected %d more", added)
		}
		m.closeBulk()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.closeBulk()
		return m, nil
	}

	var cmd tea.Cmd
	m.bulk, cmd = m.bulk.Update(msg)
	return m, cmd
}

func (m *Model) closeBulk() {
	m.bulkOpen = false
	m.bulk.Reset()
	m.bulk.Blur()
}

// toggle flips item and hands the page's new visible selection to the store.
func (m Model) toggle(items []catalog.Item, item catalog.Item) {
	visible := m.selection.VisibleSelection(items)
	if m.selection.Contains(item.ID) {
		visible = lo.Reject(visible, func(it catalog.Item, _ int) bool { return it.ID == item.ID })
	} else {
		visible = append(visible, item)
	}
	m.selection.Reconcile(items, visible)
}

func (m Model) goTo(req pagination.Request, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.logger.Warn().Err(err).Msg("Page change rejected")
		return m, nil
	}
	return m, m.fetch(req)
}

// View renders the header, table, paginator, and help line.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Art Institute of Chicago"))
	b.WriteString("  ")
	b.WriteString(countStyle.Render(fmt.Sprintf("Selected: %d", m.selection.Count())))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderPaginator())
	b.WriteString("\n")

	if m.bulkOpen {
		b.WriteString(promptStyle.Render("Select first rows: " + m.bulk.View()))
		b.WriteString("\n")
		b.WriteString(m.help.View(bulkKeyMap{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) renderTable() string {
	items := m.ctrl.Page().Items

	rows := lo.Map(items, func(item catalog.Item, _ int) []string {
		return Row(item, m.selection.Contains(item.ID), true)
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(Headers()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == m.cursor:
				return cursorStyle
			case row >= 0 && row < len(items) && m.selection.Contains(items[row].ID):
				return selectedStyle
			default:
				return cellStyle
			}
		})

	if len(items) == 0 {
		return t.String() + "\n" + statusStyle.Render("No artworks on this page")
	}
	return t.String()
}

func (m Model) renderPaginator() string {
	parts := []string{m.ctrl.Window().String()}
	if pages := m.ctrl.TotalPages(); pages > 0 {
		parts = append(parts, fmt.Sprintf("Page %d of %d", m.ctrl.DisplayedPage(), pages))
	}
	line := statusStyle.Render(strings.Join(parts, "  ·  "))

	switch {
	case m.ctrl.IsLoading():
		line += "  " + statusStyle.Render("Loading…")
	case m.ctrl.Err() != nil:
		line += "  " + errorStyle.Render(errorText(m.ctrl.Err()))
	case m.status != "":
		line += "  " + statusStyle.Render(m.status)
	}
	return line
}

func errorText(err error) string {
	var fe *catalog.FetchError
	if errors.As(err, &fe) {
		switch fe.Class {
		case catalog.ErrorClassRateLimit:
			return "Rate limited, press r to retry"
		case catalog.ErrorClassNetwork:
			return "Network error, press r to retry"
		}
	}
	return "Failed to load page: " + err.Error()
}

// Selection returns the selected artwork ids.
func (m Model) Selection() []int {
	return m.selection.IDs()
}
