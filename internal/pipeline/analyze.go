package pipeline

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// AnalyzeStage evaluates the gathered evidence against the claim. Writes
// Context.Analysis.
type AnalyzeStage struct {
	stageBase
}

func NewAnalyzeStage(llm provider.Provider, model string) *AnalyzeStage {
	return &AnalyzeStage{newStageBase(llm, model, "[ANALYZE] ")}
}

func (s *AnalyzeStage) Name() string { return "analyze" }

func (s *AnalyzeStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if len(rc.ResearchResults) == 0 {
		s.logger.Printf("warning: no research data provided, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Analyzing research data..."})

	analysis, err := s.generate(ctx,
		"You are a truth-seeking analyst. Your role is to carefully examine research data gathered from various sources to determine the veracity of a claim. Consider the original claim, clarification, and chain of thought to provide a comprehensive analysis that highlights key insights, evidence supporting or refuting the claim, potential biases, and inconsistencies in the information. Present your analysis in a clear and concise manner.",
		fmt.Sprintf("Analyze the following research data to evaluate the truthfulness of the claim:\n\nOriginal Claim: %s\nClarification: %s\nChain of Thought: %s\n\nResearch Data:\n%s",
			rc.OriginalClaim, rc.Clarification, rc.ReasoningTrace,
			formatResearchData(rc.ResearchQuestions, rc.ResearchResults)),
		0.3, 2000)
	if err != nil {
		return err
	}

	rc.Analysis = analysis
	sink.Send(Event{Type: EventAgentUpdate, Stage: s.Name(), Content: analysis})
	rc.AppendReasoning("- Analyzed the research data and generated a comprehensive analysis.")
	return nil
}
