package domain

import "time"

// Entry represents a named shell command that can be run from the UI
type Entry struct {
	Name        string
	Command     string
	Dir         string // working directory ("" means the config directory)
	Tags        []string
	Description string
}

// RunResult represents the outcome of executing an entry
type RunResult struct {
	Entry     Entry
	Output    string
	Err       string // error message if the command failed
	Duration  time.Duration
	StartedAt time.Time
}

// Failed reports whether the run ended in an error
func (r RunResult) Failed() bool {
	return r.Err != ""
}
