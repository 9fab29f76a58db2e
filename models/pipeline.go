package models

import "fmt"

// PipelineError describes why a pipeline run failed, and at which step.
type PipelineError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// PipelineResult is the terminal output of one orchestrator run. Exactly one
// of the success payload (Response plus intent/entities) or Err is populated.
type PipelineResult struct {
	Response string     `json:"response,omitempty"`
	Intent   Intent     `json:"intent,omitempty"`
	Entities *EntityBag `json:"entities,omitempty"`
	Err      *PipelineError
}

// Failed reports whether the run ended in the failure state.
func (r PipelineResult) Failed() bool {
	return r.Err != nil
}

// FinalText renders the user-facing reply: the phrased response on success,
// or a single apology embedding the error description on failure.
func (r PipelineResult) FinalText() string {
	if r.Err != nil {
		return fmt.Sprintf("I apologize, but I encountered an issue: %s. Please try again or rephrase your request.", r.Err.Message)
	}
	return r.Response
}
