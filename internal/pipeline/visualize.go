package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/veritas/models"
)

// VisualizeStage builds a timeline payload from the claim and evidence for
// the client's d3 renderer. No oracle calls. Writes
// Context.VisualizationPayload.
type VisualizeStage struct {
	logger *log.Logger
}

func NewVisualizeStage() *VisualizeStage {
	return &VisualizeStage{logger: log.New(log.Writer(), "[VISUALIZE] ", log.LstdFlags)}
}

func (s *VisualizeStage) Name() string { return "visualize" }

type timelineEvent struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source"`
}

func (s *VisualizeStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	if len(rc.ResearchResults) == 0 {
		s.logger.Printf("warning: no research data to visualize, skipping")
		return nil
	}

	sink.Send(Event{Type: EventThinking, Content: "Creating Data Visualization & Report..."})

	events := []timelineEvent{{
		Date:        "Now",
		Type:        "claim",
		Title:       "Original Claim",
		Description: rc.OriginalClaim,
		Source:      "User",
	}}
	for _, question := range rc.ResearchQuestions {
		for _, ev := range rc.ResearchResults[question] {
			events = append(events, timelineEvent{
				Date:        "Unknown",
				Type:        "research",
				Title:       ev.Title,
				Description: ev.Snippet,
				URL:         ev.URL,
				Source:      ev.Source,
			})
		}
	}

	payload, err := json.Marshal(map[string]any{"events": events})
	if err != nil {
		return err
	}
	rc.VisualizationPayload = string(payload)

	report := fmt.Sprintf(
		"## Data Visualization and Report:\n\nAn interactive timeline of %d events related to the claim is available. Event markers represent the original claim and each research result, color-coded by type and grouped by source, with tooltips showing title, description, URL and source.",
		len(events))

	sink.Send(Event{Type: EventVisualReport, Content: report})
	rc.AppendReasoning("- Generated the timeline visualization payload.")
	return nil
}
