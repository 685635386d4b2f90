package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// SummarizeStage produces the user-facing summary of the whole run,
// chunking the accumulated material to stay inside the model's context
// window. Writes Context.UserSummary.
type SummarizeStage struct {
	stageBase
	chunkTokens int
}

func NewSummarizeStage(llm provider.Provider, model string, chunkTokens int) *SummarizeStage {
	if chunkTokens <= 0 {
		chunkTokens = 8000
	}
	return &SummarizeStage{
		stageBase:   newStageBase(llm, model, "[SUMMARIZE] "),
		chunkTokens: chunkTokens,
	}
}

func (s *SummarizeStage) Name() string { return "summarize" }

func (s *SummarizeStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if rc.DraftReport == "" {
		s.logger.Printf("warning: no draft report to summarize, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Providing Feedback & Explanation..."})

	chunks := s.chunk(rc)

	var summary strings.Builder
	for i, chunk := range chunks {
		part, err := s.generate(ctx,
			"You are an AI assistant creating a summary of the truth analysis, explaining the process and results in a user-friendly way. Include key insights, evidence, argument evaluation, objectivity feedback, and suggestions for improvement. Focus on clarity and conciseness.",
			fmt.Sprintf("Generate a summary of the following truth analysis (Chunk %d of %d):\n\n%s", i+1, len(chunks), chunk),
			0.5, 4000)
		if err != nil {
			return err
		}
		summary.WriteString(part)
		summary.WriteString("\n\n")
	}

	userSummary := "## Final Summary and User Feedback:\n\n" + strings.TrimSpace(summary.String())
	rc.UserSummary = userSummary
	sink.Send(Event{Type: EventUserFeedback, Content: userSummary})
	rc.AppendReasoning("- Generated final user feedback and explanations.")
	return nil
}

// chunk splits the run's material into pieces under the token budget.
func (s *SummarizeStage) chunk(rc *models.Context) []string {
	sections := []struct{ name, value string }{
		{"original_claim", rc.OriginalClaim},
		{"clarification", rc.Clarification},
		{"reasoning_trace", rc.ReasoningTrace},
		{"research_data", formatResearchData(rc.ResearchQuestions, rc.ResearchResults)},
		{"analysis", rc.Analysis},
		{"argument_analysis", rc.ArgumentAnalysis},
		{"draft_report", rc.DraftReport},
		{"objectivity_feedback", rc.ObjectivityFeedback},
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0
	for _, section := range sections {
		if section.value == "" {
			continue
		}
		piece := fmt.Sprintf("%s: %s\n\n", section.name, section.value)
		tokens := approxTokens(piece)
		if currentTokens+tokens > s.chunkTokens && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
		current.WriteString(piece)
		currentTokens += tokens
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
