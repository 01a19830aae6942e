package models

import "time"

// Phase identifies one stage of the generation pipeline.
type Phase string

const (
	// PhaseSetup prepares the output bundle directory.
	PhaseSetup Phase = "setup"
	// PhaseResearch gathers knowledge-base and web sources.
	PhaseResearch Phase = "research"
	// PhaseSynthesis merges research into an outline and theme list.
	PhaseSynthesis Phase = "synthesis"
	// PhaseWriting produces the article body.
	PhaseWriting Phase = "writing"
	// PhaseAnalysis computes content metrics and SEO assets.
	PhaseAnalysis Phase = "analysis"
	// PhaseValidation runs the template gate and fact checker.
	PhaseValidation Phase = "validation"
	// PhaseIteration revises the article after a rejected validation.
	PhaseIteration Phase = "iteration"
	// PhaseDistribution generates social posts and the summary.
	PhaseDistribution Phase = "distribution"
	// PhaseFinalize writes files and the run record.
	PhaseFinalize Phase = "finalize"
)

// Valid returns true if the phase is a known value.
func (p Phase) Valid() bool {
	switch p {
	case PhaseSetup, PhaseResearch, PhaseSynthesis, PhaseWriting,
		PhaseAnalysis, PhaseValidation, PhaseIteration, PhaseDistribution,
		PhaseFinalize:
		return true
	default:
		return false
	}
}

// PhaseResult is the uniform envelope returned by every pipeline phase.
// Success implies Data is populated; failure implies Error is populated.
type PhaseResult struct {
	// Phase is the stage that produced this result.
	Phase Phase `json:"phase"`
	// Success indicates whether the phase completed.
	Success bool `json:"success"`
	// Data carries phase-specific output keyed by name.
	Data map[string]any `json:"data,omitempty"`
	// Error contains the failure description when Success is false.
	Error string `json:"error,omitempty"`
	// Duration is how long the phase took.
	Duration time.Duration `json:"duration"`
}

// PhaseOK builds a successful result for a phase.
func PhaseOK(phase Phase, data map[string]any) PhaseResult {
	if data == nil {
		data = map[string]any{}
	}
	return PhaseResult{Phase: phase, Success: true, Data: data}
}

// PhaseFail builds a failed result for a phase.
func PhaseFail(phase Phase, err error) PhaseResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return PhaseResult{Phase: phase, Success: false, Error: msg}
}
