package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tokentrace/internal/adapters/tui/styles"
	"tokentrace/internal/application/commands"
	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// PickerSource is what the picker reads from the document
type PickerSource interface {
	commands.VariableSource
	ports.SceneGraph
}

// PickerKeyMap defines key bindings for the variable picker
type PickerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Mark     key.Binding
	Search   key.Binding
	Filter   key.Binding
	Scope    key.Binding
	AllNodes key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var PickerKeys = PickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "prev page"),
	),
	Mark: key.NewBinding(
		key.WithKeys(" ", "space", "x"),
		key.WithHelp("space", "mark"),
	),
	Search: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "find nodes"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Scope: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "page scope"),
	),
	AllNodes: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all nodes"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// PickerModel lists color variables and builds a search request
type PickerModel struct {
	ViewState

	src    PickerSource
	logger zerolog.Logger

	vars     []domain.ColorVariable
	visible  []int // indexes into vars after filtering
	marked   map[string]bool
	pages    []domain.PageInfo
	pageID   string
	scope    int // index into pages, -1 for every page
	allNodes bool

	filter    textinput.Model
	filtering bool
	pager     *Paginator
	loading   bool
}

// NewPickerModel creates a new variable picker
func NewPickerModel(src PickerSource, logger zerolog.Logger) *PickerModel {
	filter := textinput.New()
	filter.Placeholder = "Filter variables..."
	filter.Prompt = "/ "

	return &PickerModel{
		src:     src,
		logger:  logger,
		marked:  make(map[string]bool),
		scope:   -1,
		filter:  filter,
		pager:   NewPaginator(15),
		loading: true,
	}
}

type variablesLoadedMsg struct {
	vars        []domain.ColorVariable
	pages       []domain.PageInfo
	currentPage string
	err         error
}

// Init loads the variables and pages
func (m *PickerModel) Init() tea.Cmd {
	return m.load
}

func (m *PickerModel) load() tea.Msg {
	ctx := context.Background()
	vars, err := commands.NewListColorVariablesCommand(m.src, m.logger, "").Execute(ctx)
	if err != nil {
		return variablesLoadedMsg{err: err}
	}
	pages, err := commands.NewListPagesCommand(m.src).Execute(ctx)
	if err != nil {
		return variablesLoadedMsg{err: err}
	}
	return variablesLoadedMsg{vars: vars, pages: pages.Pages, currentPage: pages.CurrentPageID}
}

// Update handles messages for the picker
func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case variablesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.vars = msg.vars
		m.pages = msg.pages
		m.pageID = msg.currentPage
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *PickerModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ClearMessage()

	switch {
	case key.Matches(msg, PickerKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, PickerKeys.Up):
		m.pager.CursorUp()

	case key.Matches(msg, PickerKeys.Down):
		m.pager.CursorDown()

	case key.Matches(msg, PickerKeys.NextPage):
		m.pager.NextPage()

	case key.Matches(msg, PickerKeys.PrevPage):
		m.pager.PrevPage()

	case key.Matches(msg, PickerKeys.Mark):
		if v, ok := m.current(); ok {
			if m.marked[v.ID] {
				delete(m.marked, v.ID)
			} else {
				m.marked[v.ID] = true
			}
			m.pager.CursorDown()
		}

	case key.Matches(msg, PickerKeys.Filter):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, PickerKeys.Scope):
		m.scope++
		if m.scope >= len(m.pages) {
			m.scope = -1
		}

	case key.Matches(msg, PickerKeys.AllNodes):
		m.allNodes = !m.allNodes

	case key.Matches(msg, PickerKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, PickerKeys.Search):
		req, ok := m.Request()
		if !ok {
			m.SetMessage("No variable selected", true)
			return m, nil
		}
		return m, func() tea.Msg { return req }
	}

	return m, nil
}

// Request builds the search for the marked variables, or the one under the
// cursor when none is marked. Marked variables keep their listing order.
func (m *PickerModel) Request() (StartSearchMsg, bool) {
	req := StartSearchMsg{AllNodes: m.allNodes}
	if m.scope >= 0 && m.scope < len(m.pages) {
		req.PageID = m.pages[m.scope].ID
	}

	for _, v := range m.vars {
		if m.marked[v.ID] {
			req.VariableIDs = append(req.VariableIDs, v.ID)
			req.Names = append(req.Names, v.Name)
		}
	}
	if len(req.VariableIDs) == 0 {
		v, ok := m.current()
		if !ok {
			return req, false
		}
		req.VariableIDs = []string{v.ID}
		req.Names = []string{v.Name}
	}
	return req, true
}

func (m *PickerModel) current() (domain.ColorVariable, bool) {
	c := m.pager.Cursor()
	if c < 0 || c >= len(m.visible) {
		return domain.ColorVariable{}, false
	}
	return m.vars[m.visible[c]], true
}

func (m *PickerModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, v := range m.vars {
		if query == "" || strings.Contains(strings.ToLower(v.Name), query) {
			m.visible = append(m.visible, i)
		}
	}
	m.pager.SetTotal(len(m.visible))
}

// SetSize updates the view dimensions
func (m *PickerModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(m.listRows(12))
}

// View renders the picker
func (m *PickerModel) View() string {
	v := NewViewBuilder().Title("Color variables")

	if m.loading {
		return v.Muted("Loading variables...").String()
	}

	if m.filtering || m.filter.Value() != "" {
		v.Line(styles.InputFocused.Render(m.filter.View())).BlankLine()
	}

	if len(m.visible) == 0 {
		v.Muted("No color variables").BlankLine()
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderRow(m.vars[m.visible[i]], i == m.pager.Cursor()))
	}
	if len(m.visible) > end-start {
		v.Muted(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.visible)))
	}

	v.BlankLine().
		Line(RenderLabelValue("Scope", m.scopeLabel())).
		Line(RenderLabelValue("Mode", m.modeLabel())).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(PickerKeys.Mark, PickerKeys.Search, PickerKeys.Filter, PickerKeys.Scope, PickerKeys.AllNodes, PickerKeys.Help, PickerKeys.Quit)

	return v.String()
}

func (m *PickerModel) renderRow(v domain.ColorVariable, selected bool) string {
	mark := "[ ]"
	if m.marked[v.ID] {
		mark = styles.RowMarked.Render("[x]")
	}

	name := truncate(v.Name, max(m.Width-30, 20))
	if selected {
		name = styles.RowSelected.Render(name)
	}
	return fmt.Sprintf("%s %s  %s", mark, RenderValue(v.Values[v.DefaultModeID]), name)
}

func (m *PickerModel) scopeLabel() string {
	if m.scope < 0 || m.scope >= len(m.pages) {
		return "all pages"
	}
	p := m.pages[m.scope]
	if p.ID == m.pageID {
		return p.Name + " (current)"
	}
	return p.Name
}

func (m *PickerModel) modeLabel() string {
	if m.allNodes {
		return "every bound node"
	}
	return "component instances"
}
