// Package tui provides the terminal user interface for Attest: a live
// progress view for validation runs.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/attest-dev/attest/pkg/models"
)

// RunPoller reads run state for display. The validation itself happens
// elsewhere; the TUI only observes.
type RunPoller interface {
	GetRun(id string) (*models.ValidationRun, error)
	ListResults(runID string) ([]models.ValidationResult, error)
}

// tickMsg triggers the next poll.
type tickMsg time.Time

// runMsg carries freshly polled run state.
type runMsg struct {
	run     *models.ValidationRun
	results []models.ValidationResult
	err     error
}

// RunModel is the bubbletea model for watching one validation run.
type RunModel struct {
	poller  RunPoller
	runID   string
	refresh time.Duration

	spinner  spinner.Model
	progress progress.Model

	run     *models.ValidationRun
	results []models.ValidationResult
	err     error
	width   int
	done    bool
}

// NewRunModel creates a run progress view polling at the given rate.
func NewRunModel(poller RunPoller, runID string, refresh time.Duration) *RunModel {
	if refresh <= 0 {
		refresh = 250 * time.Millisecond
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return &RunModel{
		poller:   poller,
		runID:    runID,
		refresh:  refresh,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    80,
	}
}

// Init implements tea.Model.
func (m *RunModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll(), m.tick())
}

func (m *RunModel) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *RunModel) poll() tea.Cmd {
	return func() tea.Msg {
		run, err := m.poller.GetRun(m.runID)
		if err != nil {
			return runMsg{err: err}
		}
		msg := runMsg{run: run}
		if run != nil && run.Status.Terminal() {
			msg.results, msg.err = m.poller.ListResults(m.runID)
		}
		return msg
	}
}

// Update implements tea.Model.
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-8, 60)

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(m.poll(), m.tick())

	case runMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		m.run = msg.run
		if msg.results != nil {
			m.results = msg.results
		}
		if m.run != nil && m.run.Status.Terminal() {
			m.done = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *RunModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("run watch failed: %v", m.err)) + "\n"
	}
	if m.run == nil {
		return m.spinner.View() + " loading run...\n"
	}

	var b []byte
	b = append(b, titleStyle.Render(fmt.Sprintf("Validation run %s", shortID(m.run.ID)))...)
	b = append(b, '\n', '\n')

	switch m.run.Status {
	case models.RunPending:
		b = append(b, m.spinner.View()...)
		b = append(b, " waiting to start\n"...)

	case models.RunRunning:
		b = append(b, m.spinner.View()...)
		b = append(b, fmt.Sprintf(" validating %d/%d components\n\n",
			m.run.ValidatedComponents, m.run.TotalComponents)...)
		b = append(b, "  "...)
		b = append(b, m.progress.ViewAs(m.ratio())...)
		b = append(b, '\n')

	case models.RunCompleted:
		b = append(b, m.viewSummary()...)

	case models.RunFailed:
		b = append(b, errorStyle.Render("run FAILED")...)
		b = append(b, fmt.Sprintf(" after %d/%d components\n",
			m.run.ValidatedComponents, m.run.TotalComponents)...)
		b = append(b, m.viewResults()...)
	}

	b = append(b, helpStyle.Render("\nq to quit")...)
	b = append(b, '\n')
	return string(b)
}

// ratio is the run's completion fraction for the progress bar.
func (m *RunModel) ratio() float64 {
	if m.run == nil || m.run.TotalComponents == 0 {
		return 0
	}
	return float64(m.run.ValidatedComponents) / float64(m.run.TotalComponents)
}

func (m *RunModel) viewSummary() string {
	score := 0.0
	if m.run.Score != nil {
		score = *m.run.Score
	}
	out := fmt.Sprintf("run COMPLETED: %d components, score %s\n",
		m.run.ValidatedComponents, scoreStyle(score).Render(fmt.Sprintf("%.1f", score)))
	return out + m.viewResults()
}

func (m *RunModel) viewResults() string {
	if len(m.results) == 0 {
		return ""
	}
	out := "\n"
	for _, r := range m.results {
		out += fmt.Sprintf("  %s %s", statusBadge(r.Status), r.ComponentID)
		if n := len(r.Discrepancies); n > 0 {
			out += fmt.Sprintf("  (%d discrepanc%s)", n, pluralYIes(n))
		}
		out += "\n"
	}
	return out
}

func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
