package pipeline

import "github.com/inksmith-ai/inksmith/pkg/models"

// EventKind classifies pipeline progress events.
type EventKind int

const (
	// PhaseStarted fires when a phase begins.
	PhaseStarted EventKind = iota
	// PhaseCompleted fires when a phase succeeds.
	PhaseCompleted
	// PhaseFailed fires when a phase errors.
	PhaseFailed
	// Note carries progress detail within a phase.
	Note
)

// Event is one progress update emitted during a run. The TUI and the plain
// logger both consume this stream.
type Event struct {
	Kind  EventKind
	Phase models.Phase
	// Detail is a human-readable message.
	Detail string
}

// emit sends an event without blocking the pipeline when nobody listens.
func (p *Pipeline) emit(kind EventKind, phase models.Phase, detail string) {
	if p.events == nil {
		return
	}
	select {
	case p.events <- Event{Kind: kind, Phase: phase, Detail: detail}:
	default:
	}
}
