package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
	"github.com/mohammad-safakhou/veritas/tools/web_search"
)

// QuestionsStage generates research questions for every sub-claim and
// filters them to the search-policy bounds before the research stage ever
// sees them. Writes Context.ResearchQuestions.
type QuestionsStage struct {
	stageBase
	maxQuestions int
}

func NewQuestionsStage(llm provider.Provider, model string, maxQuestions int) *QuestionsStage {
	return &QuestionsStage{
		stageBase:    newStageBase(llm, model, "[QUESTIONS] "),
		maxQuestions: maxQuestions,
	}
}

func (s *QuestionsStage) Name() string { return "generate_questions" }

func (s *QuestionsStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if len(rc.Subclaims) == 0 {
		s.logger.Printf("warning: no subclaims to generate questions for, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Generating insightful research questions..."})

	var questions []string
	for i, subclaim := range rc.Subclaims {
		text, err := s.generate(ctx,
			"You are a research assistant focused on crafting insightful research questions. Your task is to generate specific, unbiased research questions that can help investigate the truthfulness of a sub-claim, considering the overall context of the original claim, clarification, and chain of thought. Focus on generating questions that can be answered through research using publicly available information and data.",
			fmt.Sprintf("Generate 2 research questions for the following sub-claim:\n\nOriginal Claim: %s\nClarification: %s\nChain of Thought: %s\nSub-claim %d: %s",
				rc.OriginalClaim, rc.Clarification, rc.ReasoningTrace, i+1, subclaim),
			0.5, 1000)
		if err != nil {
			return err
		}
		questions = append(questions, parseList(text)...)
	}

	questions = FilterQuestions(questions, s.maxQuestions)
	rc.ResearchQuestions = questions

	var bullets []string
	for _, q := range questions {
		bullets = append(bullets, "    - "+q)
	}
	rc.AppendReasoning(fmt.Sprintf("- **Generated %d Research Questions:**\n%s", len(questions), strings.Join(bullets, "\n")))
	return nil
}

// FilterQuestions drops questions whose trimmed length is outside the
// search-policy bounds and caps the survivors at max, preserving order.
func FilterQuestions(questions []string, max int) []string {
	var valid []string
	for _, q := range questions {
		if web_search.ValidateQuery(q) != nil {
			continue
		}
		valid = append(valid, strings.TrimSpace(q))
		if len(valid) == max {
			break
		}
	}
	return valid
}
