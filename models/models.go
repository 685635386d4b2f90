package models

import (
	"errors"
	"strings"
	"time"
)

// ErrSessionNotFound is returned when no snapshot exists for a session id,
// either because the run never completed or the snapshot expired.
var ErrSessionNotFound = errors.New("session not found")

// Evidence is one retrieved search result. Immutable once created.
type Evidence struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Context is the shared record threading through the verification pipeline.
// Each field is written by exactly one stage and read-only afterward;
// ReasoningTrace is the only exception and grows append-only through
// AppendReasoning.
type Context struct {
	SessionID            string                `json:"session_id"`
	OriginalClaim        string                `json:"original_claim"`
	Clarification        string                `json:"clarification"`
	ReasoningTrace       string                `json:"reasoning_trace"`
	Subclaims            []string              `json:"subclaims"`
	ResearchQuestions    []string              `json:"research_questions"`
	ResearchResults      map[string][]Evidence `json:"research_results"`
	Analysis             string                `json:"analysis"`
	ArgumentAnalysis     string                `json:"argument_analysis"`
	DraftReport          string                `json:"draft_report"`
	ObjectivityFeedback  string                `json:"objectivity_feedback"`
	VisualizationPayload string                `json:"visualization_payload"`
	UserSummary          string                `json:"user_summary"`
	CreatedAt            time.Time             `json:"created_at"`
}

// NewContext creates a run context with only the claim and session populated.
func NewContext(sessionID, claim string) *Context {
	return &Context{
		SessionID:     sessionID,
		OriginalClaim: strings.TrimSpace(claim),
		CreatedAt:     time.Now().UTC(),
	}
}

// AppendReasoning adds an entry to the reasoning trace. Earlier entries are
// never rewritten.
func (c *Context) AppendReasoning(entry string) {
	if entry == "" {
		return
	}
	if c.ReasoningTrace == "" {
		c.ReasoningTrace = entry
		return
	}
	c.ReasoningTrace += "\n" + entry
}
