package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// DecomposeStage splits the claim into researchable sub-claims. Writes
// Context.Subclaims.
type DecomposeStage struct {
	stageBase
}

func NewDecomposeStage(llm provider.Provider, model string) *DecomposeStage {
	return &DecomposeStage{newStageBase(llm, model, "[DECOMPOSE] ")}
}

func (s *DecomposeStage) Name() string { return "decompose" }

func (s *DecomposeStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if rc.Clarification == "" || rc.ReasoningTrace == "" {
		s.logger.Printf("warning: missing clarification or reasoning trace, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Decomposing the claim into verifiable parts..."})

	text, err := s.generate(ctx,
		"You are an AI assistant specialized in decomposing complex claims into smaller, verifiable sub-claims. Consider the provided clarification and chain of thought to identify the most relevant aspects of the claim for decomposition. Focus on generating sub-claims that are specific, measurable, achievable, relevant, and time-bound (SMART).",
		fmt.Sprintf("Decompose the following claim into 5 specific, measurable, achievable, relevant, and time-bound (SMART) sub-claims that can be researched individually:\n\nOriginal Claim: %s\nClarification: %s\nChain of Thought: %s",
			rc.OriginalClaim, rc.Clarification, rc.ReasoningTrace),
		0.5, 1500)
	if err != nil {
		return err
	}

	subclaims := parseList(text)
	rc.Subclaims = subclaims

	var bullets []string
	for _, sc := range subclaims {
		bullets = append(bullets, "    - "+sc)
	}
	rc.AppendReasoning("- **Decomposed Claim into Sub-claims:**\n" + strings.Join(bullets, "\n"))

	sink.Send(Event{Type: EventAgentUpdate, Stage: s.Name(), Content: strings.Join(subclaims, "\n")})
	return nil
}
