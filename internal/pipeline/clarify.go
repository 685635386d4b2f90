package pipeline

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// ClarifyStage rephrases the claim neutrally and generates one argument for
// and one against it. Writes Context.Clarification.
type ClarifyStage struct {
	stageBase
}

func NewClarifyStage(llm provider.Provider, model string) *ClarifyStage {
	return &ClarifyStage{newStageBase(llm, model, "[CLARIFY] ")}
}

func (s *ClarifyStage) Name() string { return "clarify" }

func (s *ClarifyStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if rc.OriginalClaim == "" {
		s.logger.Printf("warning: no claim to clarify, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Clarifying and rephrasing the claim..."})

	rephrased, err := s.generate(ctx,
		"You are an AI assistant skilled in rephrasing statements for clarity and neutrality. Your task is to take a user's input and rephrase it in a clear, concise, and unbiased manner, ensuring that the essential meaning is preserved while removing any emotional charge or leading language.",
		fmt.Sprintf("Rephrase the following statement in a clear and neutral way, focusing on the core issue or question:\n\nStatement: %s", rc.OriginalClaim),
		0.3, 1000)
	if err != nil {
		return err
	}

	arguments, err := s.generate(ctx,
		"You are an AI assistant skilled in generating arguments for and against a claim. Your task is to provide a concise and persuasive argument in favor of the claim and a separate concise and persuasive argument against the claim. These arguments should be based on logical reasoning and common knowledge, avoiding any personal opinions or beliefs.",
		fmt.Sprintf("Generate one argument in favor of and one argument against the following claim:\n\nClaim: %s", rephrased),
		0.7, 1000)
	if err != nil {
		return err
	}

	clarification := fmt.Sprintf(
		"## Clarification:\n\n**Original Claim:** %s\n\n**Rephrased Claim:** %s\n\n**Arguments For and Against:**\n%s",
		rc.OriginalClaim, rephrased, arguments)

	rc.Clarification = clarification
	sink.Send(Event{Type: EventClarification, Content: clarification})
	return nil
}
