package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tokentrace/internal/adapters/tui/styles"
	"tokentrace/internal/domain"
)

// ResultsKeyMap defines key bindings for the results view
type ResultsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Copy   key.Binding
	Report key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var ResultsKeys = ResultsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Copy: key.NewBinding(
		key.WithKeys("enter", "y"),
		key.WithHelp("enter", "copy node ID"),
	),
	Report: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "open report"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// resultRow is one line of the results list: a variable header or a match
type resultRow struct {
	result *domain.SearchResult
	record *domain.BoundNodeInfo // nil for a header
}

// ResultsModel lists the match records of a finished search
type ResultsModel struct {
	ViewState

	results   []domain.SearchResult
	rows      []resultRow
	cancelled bool
	pager     *Paginator
	copy      func(string) error
}

// NewResultsModel creates a new results view
func NewResultsModel() *ResultsModel {
	return &ResultsModel{
		pager: NewPaginator(15),
		copy:  clipboard.WriteAll,
	}
}

// SetResults replaces the listed results
func (m *ResultsModel) SetResults(results []domain.SearchResult, cancelled bool) {
	m.results = results
	m.cancelled = cancelled
	m.rows = m.rows[:0]
	for i := range m.results {
		r := &m.results[i]
		m.rows = append(m.rows, resultRow{result: r})
		for j := range r.BoundNodes {
			m.rows = append(m.rows, resultRow{result: r, record: &r.BoundNodes[j]})
		}
	}
	m.pager.Reset()
	m.pager.SetTotal(len(m.rows))
	m.ClearMessage()
}

// Init initializes the results view
func (m *ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results view
func (m *ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, ResultsKeys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, ResultsKeys.Up):
		m.pager.CursorUp()

	case key.Matches(keyMsg, ResultsKeys.Down):
		m.pager.CursorDown()

	case key.Matches(keyMsg, ResultsKeys.Copy):
		m.copySelected()

	case key.Matches(keyMsg, ResultsKeys.Report):
		results := m.results
		return m, func() tea.Msg { return OpenReportMsg{Results: results} }

	case key.Matches(keyMsg, ResultsKeys.Back):
		return m, func() tea.Msg { return SwitchToPickerMsg{} }
	}

	return m, nil
}

func (m *ResultsModel) copySelected() {
	c := m.pager.Cursor()
	if c < 0 || c >= len(m.rows) {
		return
	}

	id := m.rows[c].result.Variable.ID
	if rec := m.rows[c].record; rec != nil {
		id = rec.Node.Header().ID
	}

	if err := m.copy(id); err != nil {
		m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	m.SetMessage(fmt.Sprintf("Copied %s", id), false)
}

// SetSize updates the view dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(m.listRows(10))
}

// View renders the results view
func (m *ResultsModel) View() string {
	v := NewViewBuilder().Title("Bound nodes")

	total := 0
	for _, r := range m.results {
		total += len(r.BoundNodes)
	}
	summary := fmt.Sprintf("%d matches across %d variables", total, len(m.results))
	if m.cancelled {
		summary += " (cancelled, partial results)"
	}
	v.Muted(summary).BlankLine()

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderRow(m.rows[i], i == m.pager.Cursor()))
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(ResultsKeys.Copy, ResultsKeys.Report, ResultsKeys.Back, ResultsKeys.Quit).
		String()
}

func (m *ResultsModel) renderRow(row resultRow, selected bool) string {
	var line string
	if row.record == nil {
		r := row.result
		line = styles.VariableHeader.Render(r.Variable.Name) + " " +
			RenderMuted(fmt.Sprintf("%d matches", r.Summary.TotalNodes))
	} else {
		rec := row.record
		h := rec.Node.Header()
		line = fmt.Sprintf("  %s %s  %s  %s",
			RenderKind(h.Kind),
			truncate(rec.PropertyPath, max(m.Width-50, 30)),
			RenderMuted(rec.PageName),
			styles.PropertyPath.Render(strings.Join(rec.BoundProperties, ", ")),
		)
	}

	if selected {
		return styles.RowSelected.Render("›") + line
	}
	return " " + line
}
