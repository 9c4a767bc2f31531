package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tokentrace/internal/adapters/tui/styles"
	"tokentrace/internal/domain"
)

// ProgressKeyMap defines key bindings for the progress view
type ProgressKeyMap struct {
	Cancel key.Binding
}

var ProgressKeys = ProgressKeyMap{
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel search"),
	),
}

// recentLimit is how many streamed instances the view keeps on screen
const recentLimit = 8

// ProgressModel shows a running search
type ProgressModel struct {
	ViewState

	bar     progress.Model
	spinner spinner.Model

	request    StartSearchMsg
	latest     domain.Progress
	recent     []domain.StreamingResult
	found      int
	cancelling bool
}

// NewProgressModel creates a new progress view
func NewProgressModel() *ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Title.UnsetMarginBottom()

	return &ProgressModel{
		bar:     progress.New(progress.WithGradient(string(styles.Primary), string(styles.Secondary))),
		spinner: s,
	}
}

// Start resets the view for a new search
func (m *ProgressModel) Start(req StartSearchMsg) {
	m.request = req
	m.latest = domain.Progress{TotalVariables: len(req.VariableIDs)}
	m.recent = nil
	m.found = 0
	m.cancelling = false
	m.ClearMessage()
}

// Init starts the spinner
func (m *ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the progress view
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.latest = msg.Progress
		return m, nil

	case StreamingMsg:
		m.found++
		m.recent = append(m.recent, msg.Result)
		if len(m.recent) > recentLimit {
			m.recent = m.recent[len(m.recent)-recentLimit:]
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, ProgressKeys.Cancel) && !m.cancelling {
			m.cancelling = true
			return m, func() tea.Msg { return CancelSearchMsg{} }
		}
	}

	return m, nil
}

// Cancelling reports whether a cancel has been requested
func (m *ProgressModel) Cancelling() bool {
	return m.cancelling
}

// SetSize updates the view dimensions
func (m *ProgressModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.bar.Width = min(max(width-8, 20), 80)
}

// View renders the progress view
func (m *ProgressModel) View() string {
	v := NewViewBuilder().Title("Finding bound nodes")

	p := m.latest
	name := p.CurrentVariableName
	if name == "" && len(m.request.Names) > 0 {
		name = m.request.Names[0]
	}
	v.Line(fmt.Sprintf("%s %s  %s",
		m.spinner.View(),
		name,
		RenderMuted(fmt.Sprintf("variable %d of %d", p.CurrentVariableIndex+1, max(p.TotalVariables, 1))),
	))
	v.BlankLine()
	v.Line(m.bar.ViewAs(float64(p.Percentage) / 100))
	v.Muted(fmt.Sprintf("%d / %d nodes  •  %d found", p.Current, p.Total, p.NodesFound))
	v.BlankLine()

	if len(m.recent) > 0 {
		v.Line(styles.InputLabel.Render(fmt.Sprintf("Instances found (%d)", m.found)))
		for _, r := range m.recent {
			v.Line(fmt.Sprintf("  %s  %s", r.InstanceNode.Name, RenderMuted(r.InstanceNode.PageName)))
		}
		v.BlankLine()
	}

	if m.cancelling {
		v.Line(styles.WarningMsg.Render("Cancelling..."))
		return v.String()
	}
	return v.Help(ProgressKeys.Cancel).String()
}
