package pipeline

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// ArgumentsStage mines the analysis and evidence for the argument structure
// on each side of the claim. Writes Context.ArgumentAnalysis.
type ArgumentsStage struct {
	stageBase
}

func NewArgumentsStage(llm provider.Provider, model string) *ArgumentsStage {
	return &ArgumentsStage{newStageBase(llm, model, "[ARGUMENTS] ")}
}

func (s *ArgumentsStage) Name() string { return "mine_arguments" }

func (s *ArgumentsStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if len(rc.ResearchResults) == 0 || rc.Analysis == "" {
		s.logger.Printf("warning: insufficient data for argumentation mining, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Mining arguments and evidence..."})

	argumentAnalysis, err := s.generate(ctx,
		"You are an AI assistant specialized in argumentation mining. Your task is to identify the main arguments for and against the claim within the research data and analysis, map each argument to the evidence that supports or undermines it, and evaluate the strength of each argument based on the credibility and consistency of its evidence. Present the result as a structured list of arguments with their supporting and opposing evidence.",
		fmt.Sprintf("Mine the arguments related to the following claim from the research data and analysis:\n\nOriginal Claim: %s\nClarification: %s\nChain of Thought: %s\nAnalysis: %s\n\nResearch Data:\n%s",
			rc.OriginalClaim, rc.Clarification, rc.ReasoningTrace, rc.Analysis,
			formatResearchData(rc.ResearchQuestions, rc.ResearchResults)),
		0.3, 2000)
	if err != nil {
		return err
	}

	rc.ArgumentAnalysis = argumentAnalysis
	sink.Send(Event{Type: EventAgentUpdate, Stage: s.Name(), Content: argumentAnalysis})
	rc.AppendReasoning("- Mined arguments for and against the claim from the evidence.")
	return nil
}
