package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// ObjectivityStage reviews the draft report for bias. Writes
// Context.ObjectivityFeedback.
type ObjectivityStage struct {
	stageBase
}

func NewObjectivityStage(llm provider.Provider, model string) *ObjectivityStage {
	return &ObjectivityStage{newStageBase(llm, model, "[OBJECTIVITY] ")}
}

func (s *ObjectivityStage) Name() string { return "check_objectivity" }

func (s *ObjectivityStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if rc.DraftReport == "" {
		s.logger.Printf("warning: no draft report provided, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Checking for bias and ensuring objectivity..."})

	feedback, err := s.generate(ctx,
		"You are an AI assistant trained to identify bias and promote objectivity in written reports. Your role is to meticulously analyze a report that evaluates the truthfulness of a claim. Focus on language bias, evidence selection bias, logical fallacies, and whether the report critically evaluates the credibility of its sources. Provide specific examples and concrete suggestions for improvement to ensure the report is as neutral and objective as possible.",
		fmt.Sprintf("Analyze the following report for objectivity, providing specific feedback and suggestions for improvement:\n\nOriginal Claim: %s\nClarification: %s\nChain of Thought: %s\nReport: %s",
			rc.OriginalClaim, rc.Clarification, rc.ReasoningTrace, rc.DraftReport),
		0.3, 2000)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(feedback, "#") {
		feedback = "# Objectivity Feedback\n\n" + feedback
	}

	rc.ObjectivityFeedback = feedback
	sink.Send(Event{Type: EventObjectivityFeedback, Content: feedback})
	rc.AppendReasoning("- Evaluated the report for objectivity and provided feedback.")
	return nil
}
