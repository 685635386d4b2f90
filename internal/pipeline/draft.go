package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// DraftStage writes the report evaluating the claim. Writes
// Context.DraftReport.
type DraftStage struct {
	stageBase
}

func NewDraftStage(llm provider.Provider, model string) *DraftStage {
	return &DraftStage{newStageBase(llm, model, "[DRAFT] ")}
}

func (s *DraftStage) Name() string { return "draft" }

func (s *DraftStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if rc.Analysis == "" || rc.ArgumentAnalysis == "" {
		s.logger.Printf("warning: missing analysis or argument analysis, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Drafting the truth analysis report..."})

	report, err := s.generate(ctx,
		"You are an AI assistant that drafts comprehensive truth analysis reports. Using the claim, its clarification, the analysis and the mined arguments, write a well-structured Markdown report that states the claim, walks through the evidence on each side, addresses counterarguments, and closes with a measured verdict on the claim's truthfulness. Cite the evidence sources by title and URL.",
		fmt.Sprintf("Draft a truth analysis report for the following claim:\n\nOriginal Claim: %s\nClarification: %s\nAnalysis: %s\nArgument Analysis: %s",
			rc.OriginalClaim, rc.Clarification, rc.Analysis, rc.ArgumentAnalysis),
		0.5, 3000)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(report, "#") {
		report = "# Truth Analysis Report\n\n" + report
	}

	rc.DraftReport = report
	sink.Send(Event{Type: EventDraftReport, Content: report})
	rc.AppendReasoning("- Drafted the truth analysis report.")
	return nil
}
