package views

import (
	"fmt"
	"strings"
	"time"

	"refract/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Entries        []domain.Entry // visible (filtered) entries
	TotalEntries   int            // entries before filtering
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	FilterActive   bool
	FilterQuery    string
	FilterInput    string // rendered text input while the filter has focus
	Pending        bool
	Spinner        string
	RunningName    string
	LastRun        *domain.RunResult
	LastError      string
	StatusMessage  string
	ShowHelp       bool
	ShowTimings    bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	// Title with a pending indicator while a run is in flight
	title := r.styles.Title.Render("refract")
	if state.Pending {
		title += " " + r.styles.Pending.Render(state.Spinner+" running "+state.RunningName)
	}
	content.WriteString(title)
	content.WriteString("\n")

	// Filter line
	if state.FilterActive {
		content.WriteString(r.styles.Filter.Render("Filter: ") + state.FilterInput)
		content.WriteString("\n")
	} else if state.FilterQuery != "" {
		indicator := fmt.Sprintf("[Filter: %s] %d/%d", state.FilterQuery, len(state.Entries), state.TotalEntries)
		content.WriteString(r.styles.Filter.Render(indicator))
		content.WriteString("\n")
	}

	content.WriteString(r.renderEntries(state))

	if state.ShowHelp {
		content.WriteString(r.renderHelp())
	}

	content.WriteString(r.renderStatusBar(state))

	return content.String()
}

// renderEntries renders the visible window of the entry list
func (r *Renderer) renderEntries(state ViewState) string {
	if len(state.Entries) == 0 {
		if state.FilterQuery != "" {
			return r.styles.Dim.Render("  no entries match the filter") + "\n"
		}
		return r.styles.Dim.Render("  no entries configured") + "\n"
	}

	nameWidth := 0
	for _, entry := range state.Entries {
		if len(entry.Name) > nameWidth {
			nameWidth = len(entry.Name)
		}
	}

	b := &strings.Builder{}
	end := state.ViewportOffset + state.ViewportHeight
	if end > len(state.Entries) {
		end = len(state.Entries)
	}

	for i := state.ViewportOffset; i < end; i++ {
		entry := state.Entries[i]
		line := fmt.Sprintf("%-*s  %s", nameWidth, entry.Name, entry.Command)

		if i == state.SelectedIndex {
			b.WriteString(r.styles.Selected.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}

		if len(entry.Tags) > 0 {
			b.WriteString("  " + r.styles.Tag.Render("#"+strings.Join(entry.Tags, " #")))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderStatusBar renders the bottom status line. Errors win over everything
// else, then transient status messages, then the last run summary.
func (r *Renderer) renderStatusBar(state ViewState) string {
	var line string
	switch {
	case state.LastError != "":
		line = r.styles.StatusError.Render("✗ " + state.LastError)
	case state.StatusMessage != "":
		line = state.StatusMessage
	case state.LastRun != nil:
		summary := fmt.Sprintf("✓ %s", state.LastRun.Entry.Name)
		if state.ShowTimings {
			summary += fmt.Sprintf(" (%s)", state.LastRun.Duration.Round(time.Millisecond))
		}
		if state.LastRun.Failed() {
			line = r.styles.StatusError.Render("✗ " + state.LastRun.Entry.Name + ": " + state.LastRun.Err)
		} else {
			line = r.styles.StatusSuccess.Render(summary)
		}
	default:
		line = r.styles.Dim.Render("enter: run  /: filter  o: output  ?: help  q: quit")
	}

	return r.styles.Status.Render(line)
}

func (r *Renderer) renderHelp() string {
	b := &strings.Builder{}
	b.WriteString("\n")
	for _, row := range [][2]string{
		{"↑/↓, j/k", "navigate"},
		{"g/G", "go to top/bottom"},
		{"enter", "run selected entry"},
		{"/", "filter entries"},
		{"esc", "clear filter"},
		{"o", "view last output in pager"},
		{"?", "toggle this help"},
		{"q", "quit"},
	} {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", row[0], r.styles.Help.Render(row[1])))
	}
	return b.String()
}
