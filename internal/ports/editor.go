package ports

import "os/exec"

// EditorOpener opens a written report in an external editor
type EditorOpener interface {
	// OpenFile opens path in $EDITOR, $VISUAL or the first common editor found
	OpenFile(path string) error

	// Command returns the editor invocation without running it, for
	// bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
