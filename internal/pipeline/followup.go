package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/veritas/internal/telemetry"
	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
	"github.com/mohammad-safakhou/veritas/repository"
	"github.com/mohammad-safakhou/veritas/tools/web_search"
)

// FollowupHandler answers questions against a completed run's stored
// snapshot. It reads the snapshot, optionally runs one more search inside
// the same trusted-domain allowlist, and makes one generation call. The
// stored snapshot is never mutated or re-persisted.
type FollowupHandler struct {
	sessions   repository.SessionRepository
	llm        provider.Provider
	model      string
	searcher   web_search.WebSearcher
	domains    []string
	maxResults int
	tele       *telemetry.Telemetry
	logger     *log.Logger
}

func NewFollowupHandler(sessions repository.SessionRepository, llm provider.Provider, model string, searcher web_search.WebSearcher, domains []string, maxResults int, tele *telemetry.Telemetry) *FollowupHandler {
	return &FollowupHandler{
		sessions:   sessions,
		llm:        llm,
		model:      model,
		searcher:   searcher,
		domains:    domains,
		maxResults: maxResults,
		tele:       tele,
		logger:     log.New(log.Writer(), "[FOLLOWUP] ", log.LstdFlags),
	}
}

// Handle answers one follow-up question for a session. A missing or expired
// session produces a single error event and no oracle calls.
func (h *FollowupHandler) Handle(ctx context.Context, sessionID, question string, sink EventSink) error {
	guarded := &guardedSink{inner: sink, tele: h.tele, logger: h.logger}

	snapshot, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			h.tele.RecordFollowup("session_not_found")
			guarded.Send(Event{Type: EventError, Content: "No existing session found for follow-up questions."})
			return err
		}
		h.tele.RecordFollowup("error")
		guarded.Send(Event{Type: EventError, Content: "An error occurred: " + err.Error()})
		return err
	}

	research := h.search(ctx, question)

	answer, err := h.llm.Generate(ctx, []provider.Message{
		{
			Role:    "system",
			Content: "You are an AI assistant providing accurate and unbiased answers to follow-up questions related to truth analysis reports. Utilize the initial report, objectivity feedback, and any additional research to formulate a comprehensive and relevant response grounded in evidence and presented neutrally.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf("Based on the previous analysis and any additional research, answer this follow-up question:\n\nPrevious Analysis:\n%s\nObjectivity Feedback:\n%s%s\nFollow-up Question:\n%s",
				snapshot.DraftReport, snapshot.ObjectivityFeedback, research, question),
		},
	}, provider.Options{Model: h.model, Temperature: 0.3, MaxTokens: 1500})
	if err != nil {
		h.tele.RecordFollowup("error")
		guarded.Send(Event{Type: EventError, Content: "An error occurred: " + err.Error()})
		return err
	}

	answer = strings.TrimSpace(answer)
	if !strings.HasPrefix(answer, "#") {
		answer = "# Follow-Up Response\n\n" + answer
	}

	h.tele.RecordFollowup("answered")
	guarded.Send(Event{Type: EventFollowupResponse, Content: answer})
	return nil
}

// search runs the optional extra research pass. Failures degrade to an
// answer without fresh evidence rather than failing the follow-up.
func (h *FollowupHandler) search(ctx context.Context, question string) string {
	if h.searcher == nil {
		return ""
	}
	if err := web_search.ValidateQuery(question); err != nil {
		h.logger.Printf("warning: follow-up question outside query policy, skipping search")
		return ""
	}

	hits, err := h.searcher.Search(ctx, question, h.maxResults, h.domains)
	if err != nil {
		h.logger.Printf("warning: follow-up search failed: %v", err)
		return ""
	}
	if len(hits) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n## Additional Research:\n\n")
	for _, hit := range hits {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", hit.Title, hit.Source, hit.URL)
		if hit.Snippet != "" {
			fmt.Fprintf(&b, "  > %s\n", hit.Snippet)
		}
	}
	return b.String()
}
