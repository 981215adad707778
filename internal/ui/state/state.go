package state

import (
	"refract/internal/domain"
)

// AppState contains the application state that is not owned by the reactive
// helpers (those keep their own observables).
type AppState struct {
	// Selection state
	SelectedIndex int // currently selected item in the visible list

	// UI state
	ViewportOffset int // offset for scrolling
	ViewportHeight int // available height for the entry list
	ShowHelp       bool
	StatusMessage  string // status bar message
	FilterActive   bool   // whether the filter input has focus

	// Run state
	LastRun *domain.RunResult // most recently completed run
	History []domain.RunResult
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		ViewportHeight: 20, // Default
	}
}

// RecordRun stores a completed run
func (s *AppState) RecordRun(result domain.RunResult) {
	s.LastRun = &result
	s.History = append(s.History, result)
}

// ClampSelection keeps the selection inside the visible list
func (s *AppState) ClampSelection(visible int) {
	if visible == 0 {
		s.SelectedIndex = 0
		return
	}
	if s.SelectedIndex >= visible {
		s.SelectedIndex = visible - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
}

// EnsureVisible scrolls the viewport so the selection stays on screen
func (s *AppState) EnsureVisible() {
	if s.SelectedIndex < s.ViewportOffset {
		s.ViewportOffset = s.SelectedIndex
	}
	if s.SelectedIndex >= s.ViewportOffset+s.ViewportHeight {
		s.ViewportOffset = s.SelectedIndex - s.ViewportHeight + 1
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}
