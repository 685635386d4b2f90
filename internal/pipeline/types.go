package pipeline

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/veritas/models"
)

// Outbound event types on the client stream.
const (
	EventThinking            = "thinking"
	EventClarification       = "clarification"
	EventResearchQuestion    = "research_question"
	EventResearchResult      = "research_result"
	EventAgentUpdate         = "agent_update"
	EventDraftReport         = "draft_report"
	EventObjectivityFeedback = "objectivity_feedback"
	EventVisualReport        = "visual_report"
	EventUserFeedback        = "user_feedback"
	EventFinalReport         = "final_report"
	EventFollowupResponse    = "followup_response"
	EventError               = "error"
)

// Event is one tagged record on the per-session stream. Research results
// carry numbering so the client can group answers under their question.
// The transport stamps SessionID on delivery; stages leave it empty.
type Event struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	SessionID      string `json:"session_id,omitempty"`
	Stage          string `json:"stage,omitempty"`
	Question       string `json:"question,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty"`
	AnswerNumber   int    `json:"answer_number,omitempty"`
	Source         string `json:"source,omitempty"`
	Title          string `json:"title,omitempty"`
}

// EventSink delivers events to the single subscribed client of a session.
// Send may block while the transport backpressures; a returned error means
// the event was lost, which never aborts the run.
type EventSink interface {
	Send(ev Event) error
}

// Stage is one ordered unit of pipeline work. Execute reads the context
// fields populated by its predecessors and writes its own designated
// fields. A stage whose required inputs are missing must log a warning and
// return nil without emitting events or touching the context (soft-skip).
type Stage interface {
	Name() string
	Execute(ctx context.Context, rc *models.Context, sink EventSink) error
}

// StageError marks an oracle failure inside a stage; it aborts the run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// State is the runner's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}
