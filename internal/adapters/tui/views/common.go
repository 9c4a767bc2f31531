package views

import (
	"tokentrace/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// listRows returns how many list rows fit below a header of headerLines
func (s *ViewState) listRows(headerLines int) int {
	rows := s.Height - headerLines
	if rows < 5 {
		return 5
	}
	return rows
}

// StartSearchMsg asks the app to run a search
type StartSearchMsg struct {
	VariableIDs []string
	Names       []string
	PageID      string
	AllNodes    bool
}

// CancelSearchMsg asks the app to cancel the running search
type CancelSearchMsg struct{}

// ProgressMsg carries a progress event from the running search
type ProgressMsg struct {
	Progress domain.Progress
}

// StreamingMsg carries a newly found instance from the running search
type StreamingMsg struct {
	Result domain.StreamingResult
}

// SearchDoneMsg is sent once the search has returned
type SearchDoneMsg struct {
	Results []domain.SearchResult
	Err     error
}

// SwitchToPickerMsg returns to the variable picker
type SwitchToPickerMsg struct{}

// SwitchToHelpMsg opens the help view
type SwitchToHelpMsg struct{}

// CloseHelpMsg leaves the help view
type CloseHelpMsg struct{}

// OpenReportMsg asks the app to write the results report and open it
type OpenReportMsg struct {
	Results []domain.SearchResult
}
