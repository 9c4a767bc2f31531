package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tokentrace/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, func() tea.Msg {
			return CloseHelpMsg{}
		}
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("tokentrace Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Find where color variables are used"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Variables"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("space / x", "Mark variable for the search"))
	b.WriteString(helpLine("/", "Filter by name"))
	b.WriteString(helpLine("p", "Cycle page scope"))
	b.WriteString(helpLine("a", "Toggle instances / every bound node"))
	b.WriteString(helpLine("Enter", "Find bound nodes"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Search"))
	b.WriteString("\n")
	b.WriteString(helpLine("esc", "Cancel, keeping what was found"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Results"))
	b.WriteString("\n")
	b.WriteString(helpLine("Enter / y", "Copy node ID to clipboard"))
	b.WriteString(helpLine("r", "Write report and open in $EDITOR"))
	b.WriteString(helpLine("esc", "Back to variables"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Matching"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Library copies of a variable share its key and count as the same variable."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  In instance mode each component instance name is reported once."))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
