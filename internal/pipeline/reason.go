package pipeline

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// ReasonStage builds a structured chain of thought for the claim and then
// enhances it with cognitive reasoning elements. Seeds Context.ReasoningTrace.
type ReasonStage struct {
	stageBase
}

func NewReasonStage(llm provider.Provider, model string) *ReasonStage {
	return &ReasonStage{newStageBase(llm, model, "[REASON] ")}
}

func (s *ReasonStage) Name() string { return "reason" }

func (s *ReasonStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if rc.OriginalClaim == "" || rc.Clarification == "" {
		s.logger.Printf("warning: missing claim or clarification, skipping")
		return nil
	}

	initial, err := s.generate(ctx,
		"You are an AI assistant specializing in generating chains of thought for truth analysis. Your task is to create a structured thought process for analyzing the truthfulness of a claim, considering different perspectives, potential biases, relevant knowledge domains, and logical reasoning steps.",
		fmt.Sprintf("Generate a detailed chain of thought for analyzing the truthfulness of the following claim:\n\nClaim: %s\nClarification: %s", rc.OriginalClaim, rc.Clarification),
		0.3, 2000)
	if err != nil {
		return err
	}

	enhanced, err := s.generate(ctx,
		"You are an AI assistant specialized in applying cognitive reasoning principles to chains of thought. Enhance the provided chain of thought by incorporating deductive, inductive, analogical, abductive and causal reasoning where each applies to the claim and its evidence.",
		fmt.Sprintf("Enhance the following chain of thought by incorporating the cognitive reasoning elements described above:\n\n%s", initial),
		0.5, 2000)
	if err != nil {
		return err
	}

	trace := fmt.Sprintf(
		"## Chain of Thought:\n- **Original Claim:** %s\n- **Clarification:** %s\n- **Cognitive Reasoning:**\n%s",
		rc.OriginalClaim, rc.Clarification, enhanced)

	rc.AppendReasoning(trace)
	sink.Send(Event{Type: EventAgentUpdate, Stage: s.Name(), Content: trace})
	return nil
}
