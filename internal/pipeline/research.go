package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/tools/web_search"
)

// ResearchStage runs every research question against the search oracle,
// restricted to the trusted-domain allowlist. Writes Context.ResearchResults.
// A search failure aborts the run; there is no partial tolerance.
type ResearchStage struct {
	searcher   web_search.WebSearcher
	domains    []string
	maxResults int
	pause      time.Duration
	logger     *log.Logger
}

func NewResearchStage(searcher web_search.WebSearcher, domains []string, maxResults int, pause time.Duration) *ResearchStage {
	return &ResearchStage{
		searcher:   searcher,
		domains:    domains,
		maxResults: maxResults,
		pause:      pause,
		logger:     log.New(log.Writer(), "[RESEARCH] ", log.LstdFlags),
	}
}

func (s *ResearchStage) Name() string { return "research" }

func (s *ResearchStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if len(rc.ResearchQuestions) == 0 {
		s.logger.Printf("warning: no valid research questions, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Conducting research using trusted sources..."})

	results := make(map[string][]models.Evidence, len(rc.ResearchQuestions))
	for i, question := range rc.ResearchQuestions {
		if err := web_search.ValidateQuery(question); err != nil {
			// The questions stage filters these already; a stray invalid
			// question is dropped, not fatal.
			s.logger.Printf("warning: dropping invalid research question %q", question)
			continue
		}

		sink.Send(Event{Type: EventResearchQuestion, Content: question})

		hits, err := s.searcher.Search(ctx, question, s.maxResults, s.domains)
		if err != nil {
			return fmt.Errorf("search for %q failed: %w", question, err)
		}

		evidence := make([]models.Evidence, 0, len(hits))
		for j, hit := range hits {
			ev := models.Evidence{
				Title:   hit.Title,
				URL:     hit.URL,
				Snippet: hit.Snippet,
				Source:  hit.Source,
			}
			evidence = append(evidence, ev)
			sink.Send(Event{
				Type:           EventResearchResult,
				Content:        ev.Snippet,
				Question:       question,
				QuestionNumber: i + 1,
				AnswerNumber:   j + 1,
				Source:         ev.Source,
				Title:          ev.Title,
			})
		}
		results[question] = evidence

		// Pacing between questions keeps the search oracle off its rate limit.
		if s.pause > 0 && i < len(rc.ResearchQuestions)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.pause):
			}
		}
	}

	rc.ResearchResults = results
	rc.AppendReasoning(fmt.Sprintf("- Researched %d questions against the trusted-domain allowlist.", len(results)))
	return nil
}
