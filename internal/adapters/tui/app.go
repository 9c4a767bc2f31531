// Package tui is the interactive terminal front end: pick color variables,
// watch the search run and browse the bound nodes.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tokentrace/internal/adapters/report"
	"tokentrace/internal/adapters/tui/views"
	"tokentrace/internal/application/commands"
	"tokentrace/internal/application/search"
	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewPicker ViewState = iota
	ViewProgress
	ViewResults
	ViewHelp
)

// App is the main TUI application model
type App struct {
	doc         ports.Document
	svc         *search.Service
	editor      ports.EditorOpener
	logger      zerolog.Logger
	reportWidth int

	events chan tea.Msg

	state    ViewState
	previous ViewState // view to return to from help
	picker   *views.PickerModel
	progress *views.ProgressModel
	results  *views.ResultsModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. ed may be nil, in which case the
// report is written but not opened.
func NewApp(doc ports.Document, svc *search.Service, ed ports.EditorOpener, logger zerolog.Logger, reportWidth int) *App {
	return &App{
		doc:         doc,
		svc:         svc,
		editor:      ed,
		logger:      logger,
		reportWidth: reportWidth,
		events:      make(chan tea.Msg, 256),
		state:       ViewPicker,
		picker:      views.NewPickerModel(doc, logger),
		progress:    views.NewProgressModel(),
		results:     views.NewResultsModel(),
		help:        views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.picker.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.picker.SetSize(msg.Width, msg.Height)
		a.progress.SetSize(msg.Width, msg.Height)
		a.results.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.StartSearchMsg:
		a.state = ViewProgress
		a.progress.Start(msg)
		return a, tea.Batch(a.progress.Init(), a.runSearch(msg), a.waitForEvent)

	case views.CancelSearchMsg:
		if _, err := commands.NewCancelSearchCommand(a.svc).Execute(context.Background()); err != nil {
			a.logger.Warn().Err(err).Msg("cancel failed")
		}
		return a, nil

	case views.ProgressMsg, views.StreamingMsg:
		_, cmd := a.progress.Update(msg)
		return a, tea.Batch(cmd, a.waitForEvent)

	case views.SearchDoneMsg:
		a.state = ViewResults
		a.results.SetResults(msg.Results, a.progress.Cancelling())
		if msg.Err != nil {
			a.results.SetMessage(msg.Err.Error(), true)
		}
		return a, nil

	case views.SwitchToPickerMsg:
		a.state = ViewPicker
		return a, nil

	case views.SwitchToHelpMsg:
		a.previous = a.state
		a.state = ViewHelp
		return a, nil

	case views.CloseHelpMsg:
		a.state = a.previous
		return a, nil

	case views.OpenReportMsg:
		return a, a.openReport(msg.Results)

	case editorFinishedMsg:
		if msg.err != nil {
			a.results.SetMessage(msg.err.Error(), true)
		} else if msg.path != "" {
			a.results.SetMessage("Report written to "+msg.path, false)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewPicker:
		_, cmd = a.picker.Update(msg)
	case ViewProgress:
		_, cmd = a.progress.Update(msg)
	case ViewResults:
		_, cmd = a.results.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// runSearch starts the search on its own goroutine. Events reach the app
// through a.events; the last one is a SearchDoneMsg.
func (a *App) runSearch(req views.StartSearchMsg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			obs := &eventObserver{events: a.events}
			cmd := commands.NewFindBoundNodesCommand(a.svc, obs, req.VariableIDs, req.PageID, req.AllNodes)
			results, err := cmd.Execute(context.Background())
			a.events <- views.SearchDoneMsg{Results: results, Err: err}
		}()
		return nil
	}
}

func (a *App) waitForEvent() tea.Msg {
	return <-a.events
}

// eventObserver forwards search events to the app. Progress is dropped
// when the app falls behind; streamed instances are not.
type eventObserver struct {
	events chan<- tea.Msg
}

func (o *eventObserver) OnProgress(p domain.Progress) {
	select {
	case o.events <- views.ProgressMsg{Progress: p}:
	default:
	}
}

func (o *eventObserver) OnStreamingResult(r domain.StreamingResult) {
	o.events <- views.StreamingMsg{Result: r}
}

// OnComplete is a no-op: the results arrive with SearchDoneMsg
func (o *eventObserver) OnComplete() {}

type editorFinishedMsg struct {
	path string
	err  error
}

// openReport writes the report to a temporary file and opens it
func (a *App) openReport(results []domain.SearchResult) tea.Cmd {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("tokentrace-report-%d.txt", os.Getpid()))
	if err := a.writeReport(path, results); err != nil {
		return func() tea.Msg { return editorFinishedMsg{err: err} }
	}

	if a.editor == nil {
		return func() tea.Msg { return editorFinishedMsg{path: path} }
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{path: path, err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

func (a *App) writeReport(path string, results []domain.SearchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	r := report.New(f, a.doc, a.logger, report.WithWidth(a.reportWidth))
	return r.Render(context.Background(), results)
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewProgress:
		return a.progress.View()
	case ViewResults:
		return a.results.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.picker.View()
	}
}
