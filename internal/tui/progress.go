// Package tui renders live pipeline progress in the terminal.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inksmith-ai/inksmith/internal/pipeline"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// ErrInterrupted is returned by Result when the user quit the progress
// view before the run finished.
var ErrInterrupted = errors.New("generation interrupted")

// PhaseEventMsg wraps a pipeline event for the TUI.
type PhaseEventMsg struct {
	Event pipeline.Event
}

// RunDoneMsg signals that the pipeline has finished.
type RunDoneMsg struct {
	Result *pipeline.Result
	Err    error
}

// phaseState tracks the display status of one phase.
type phaseState int

const (
	phasePending phaseState = iota
	phaseRunning
	phaseDone
	phaseFailed
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Italic(true)
)

// displayOrder is the phase list shown in the progress view.
var displayOrder = []models.Phase{
	models.PhaseSetup,
	models.PhaseResearch,
	models.PhaseSynthesis,
	models.PhaseWriting,
	models.PhaseAnalysis,
	models.PhaseValidation,
	models.PhaseIteration,
	models.PhaseDistribution,
	models.PhaseFinalize,
}

// Progress is the bubbletea model for a generation run.
type Progress struct {
	topic   string
	spinner spinner.Model
	states  map[models.Phase]phaseState
	details map[models.Phase]string
	done    bool
	err     error
	result  *pipeline.Result
}

// NewProgress creates a progress model for the given topic.
func NewProgress(topic string) *Progress {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return &Progress{
		topic:   topic,
		spinner: s,
		states:  make(map[models.Phase]phaseState),
		details: make(map[models.Phase]string),
	}
}

// Init implements tea.Model.
func (p *Progress) Init() tea.Cmd {
	return p.spinner.Tick
}

// Update implements tea.Model.
func (p *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// In raw mode ctrl+c arrives as a key, not a signal; the run is
		// still in flight, so record the interrupt for Result.
		if msg.String() == "ctrl+c" {
			p.done = true
			p.err = ErrInterrupted
			return p, tea.Quit
		}

	case PhaseEventMsg:
		p.apply(msg.Event)

	case RunDoneMsg:
		p.done = true
		p.result = msg.Result
		p.err = msg.Err
		if p.result == nil && p.err == nil {
			p.err = ErrInterrupted
		}
		return p, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// apply folds one pipeline event into the display state.
func (p *Progress) apply(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.PhaseStarted:
		p.states[ev.Phase] = phaseRunning
		if ev.Detail != "" {
			p.details[ev.Phase] = ev.Detail
		}
	case pipeline.PhaseCompleted:
		p.states[ev.Phase] = phaseDone
	case pipeline.PhaseFailed:
		p.states[ev.Phase] = phaseFailed
		if ev.Detail != "" {
			p.details[ev.Phase] = ev.Detail
		}
	case pipeline.Note:
		p.details[ev.Phase] = ev.Detail
	}
}

// View implements tea.Model.
func (p *Progress) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("inksmith: "+p.topic) + "\n\n")

	for _, phase := range displayOrder {
		state, seen := p.states[phase]
		if !seen && phase == models.PhaseIteration {
			// Revision rounds only show up if validation rejected.
			continue
		}

		var marker string
		switch state {
		case phaseRunning:
			marker = p.spinner.View()
		case phaseDone:
			marker = doneStyle.Render("✓")
		case phaseFailed:
			marker = failStyle.Render("✗")
		default:
			marker = pendingStyle.Render("·")
		}

		line := fmt.Sprintf("  %s %s", marker, phase)
		if detail := p.details[phase]; detail != "" && state != phaseDone {
			line += "  " + detailStyle.Render(detail)
		}
		b.WriteString(line + "\n")
	}

	if p.done {
		b.WriteString("\n")
		if p.err != nil {
			b.WriteString(failStyle.Render("run failed: "+p.err.Error()) + "\n")
		}
	}

	return b.String()
}

// Result returns the final pipeline result, once done.
func (p *Progress) Result() (*pipeline.Result, error) {
	return p.result, p.err
}

// NewProgram wraps the progress model in a bubbletea program that accepts
// messages via Send.
func NewProgram(topic string) (*tea.Program, *Progress) {
	model := NewProgress(topic)
	prog := tea.NewProgram(model)
	return prog, model
}

// Forward pumps pipeline events into the program until the channel closes.
func Forward(prog *tea.Program, events <-chan pipeline.Event) {
	for ev := range events {
		prog.Send(PhaseEventMsg{Event: ev})
	}
}
