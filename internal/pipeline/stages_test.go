package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
	searchmodels "github.com/mohammad-safakhou/veritas/tools/web_search/models"
)

// stubLLM returns canned responses in order and counts calls.
type stubLLM struct {
	responses []string
	calls     int
	err       error
}

func (s *stubLLM) Generate(_ context.Context, _ []provider.Message, _ provider.Options) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "generated text", nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

// stubSearcher returns fixed hits and counts calls.
type stubSearcher struct {
	hits  []searchmodels.Result
	calls int
	err   error
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int, _ []string) ([]searchmodels.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

func TestStagesSoftSkipOnMissingInputs(t *testing.T) {
	llm := &stubLLM{err: errors.New("oracle must not be called")}
	searcher := &stubSearcher{err: errors.New("oracle must not be called")}

	stages := []Stage{
		NewClarifyStage(llm, "m"),
		NewReasonStage(llm, "m"),
		NewDecomposeStage(llm, "m"),
		NewQuestionsStage(llm, "m", 25),
		NewResearchStage(searcher, nil, 5, 0),
		NewAnalyzeStage(llm, "m"),
		NewArgumentsStage(llm, "m"),
		NewDraftStage(llm, "m"),
		NewObjectivityStage(llm, "m"),
		NewVisualizeStage(),
		NewSummarizeStage(llm, "m", 0),
	}

	for _, stage := range stages {
		t.Run(stage.Name(), func(t *testing.T) {
			rc := &models.Context{SessionID: "s"}
			before := *rc
			sink := &recordingSink{}
			if err := stage.Execute(context.Background(), rc, sink); err != nil {
				t.Fatalf("soft-skip must not fail: %v", err)
			}
			if !reflect.DeepEqual(before, *rc) {
				t.Fatalf("soft-skip must leave the context unchanged:\nbefore %+v\nafter  %+v", before, *rc)
			}
			if len(sink.events) != 0 {
				t.Fatalf("soft-skip must emit no events, got %v", sink.events)
			}
			if llm.calls != 0 || searcher.calls != 0 {
				t.Fatalf("soft-skip must not call oracles (llm=%d search=%d)", llm.calls, searcher.calls)
			}
		})
	}
}

func TestClarifyStageWritesClarification(t *testing.T) {
	llm := &stubLLM{responses: []string{"Neutral rephrasing.", "For: A. Against: B."}}
	stage := NewClarifyStage(llm, "m")
	rc := models.NewContext("s", "The earth is flat")
	sink := &recordingSink{}

	if err := stage.Execute(context.Background(), rc, sink); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if llm.calls != 2 {
		t.Fatalf("expected 2 generation calls, got %d", llm.calls)
	}
	if rc.Clarification == "" {
		t.Fatal("clarification not written")
	}
	if len(sink.events) != 2 || sink.events[0].Type != EventThinking || sink.events[1].Type != EventClarification {
		t.Fatalf("unexpected event sequence: %v", sink.events)
	}
}

func TestClarifyStagePropagatesOracleFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("rate limited")}
	stage := NewClarifyStage(llm, "m")
	rc := models.NewContext("s", "claim")

	if err := stage.Execute(context.Background(), rc, &recordingSink{}); err == nil {
		t.Fatal("expected oracle failure to propagate")
	}
	if rc.Clarification != "" {
		t.Fatal("failed stage must not write its field")
	}
}

func TestDecomposeStageParsesSubclaims(t *testing.T) {
	llm := &stubLLM{responses: []string{"1. First subclaim\n2. Second subclaim\n- Third subclaim\n"}}
	stage := NewDecomposeStage(llm, "m")
	rc := models.NewContext("s", "claim")
	rc.Clarification = "clarified"
	rc.AppendReasoning("## Chain of Thought:")

	if err := stage.Execute(context.Background(), rc, &recordingSink{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"First subclaim", "Second subclaim", "Third subclaim"}
	if !reflect.DeepEqual(rc.Subclaims, want) {
		t.Fatalf("subclaims = %v, want %v", rc.Subclaims, want)
	}
}

func TestQuestionsStageFiltersWhatItGenerates(t *testing.T) {
	llm := &stubLLM{responses: []string{"What is the actual figure?\nab\n"}}
	stage := NewQuestionsStage(llm, "m", 25)
	rc := models.NewContext("s", "claim")
	rc.Clarification = "clarified"
	rc.AppendReasoning("trace")
	rc.Subclaims = []string{"one subclaim"}

	if err := stage.Execute(context.Background(), rc, &recordingSink{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(rc.ResearchQuestions) != 1 || rc.ResearchQuestions[0] != "What is the actual figure?" {
		t.Fatalf("questions = %v", rc.ResearchQuestions)
	}
}

func TestResearchStageOrdersEventsAndCollectsEvidence(t *testing.T) {
	searcher := &stubSearcher{hits: []searchmodels.Result{
		{Title: "Report A", URL: "https://cdc.gov/a", Snippet: "snippet a", Source: "serper"},
		{Title: "Report B", URL: "https://nih.gov/b", Snippet: "snippet b", Source: "serper"},
	}}
	stage := NewResearchStage(searcher, []string{"cdc.gov"}, 5, 0)
	rc := models.NewContext("s", "claim")
	rc.ResearchQuestions = []string{"Is the figure accurate overall?"}
	sink := &recordingSink{}

	if err := stage.Execute(context.Background(), rc, sink); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if searcher.calls != 1 {
		t.Fatalf("expected one search call, got %d", searcher.calls)
	}
	if len(rc.ResearchResults["Is the figure accurate overall?"]) != 2 {
		t.Fatalf("evidence not collected: %v", rc.ResearchResults)
	}

	// thinking, then the question, then its results in order
	types := make([]string, len(sink.events))
	for i, ev := range sink.events {
		types[i] = ev.Type
	}
	want := []string{EventThinking, EventResearchQuestion, EventResearchResult, EventResearchResult}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("event order = %v, want %v", types, want)
	}
	if sink.events[2].QuestionNumber != 1 || sink.events[2].AnswerNumber != 1 || sink.events[3].AnswerNumber != 2 {
		t.Fatalf("result numbering wrong: %+v", sink.events[2:])
	}
}

func TestResearchStageAbortsOnSearchFailure(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("search timeout")}
	stage := NewResearchStage(searcher, nil, 5, 0)
	rc := models.NewContext("s", "claim")
	rc.ResearchQuestions = []string{"Is the figure accurate overall?"}

	if err := stage.Execute(context.Background(), rc, &recordingSink{}); err == nil {
		t.Fatal("expected search failure to propagate")
	}
	if rc.ResearchResults != nil {
		t.Fatal("failed stage must not write its field")
	}
}

func TestVisualizeStageBuildsTimelinePayload(t *testing.T) {
	stage := NewVisualizeStage()
	rc := models.NewContext("s", "claim")
	rc.ResearchQuestions = []string{"q1"}
	rc.ResearchResults = map[string][]models.Evidence{
		"q1": {{Title: "A", URL: "https://nasa.gov/a", Snippet: "sa", Source: "serper"}},
	}
	sink := &recordingSink{}

	if err := stage.Execute(context.Background(), rc, sink); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rc.VisualizationPayload == "" {
		t.Fatal("visualization payload not written")
	}
	if len(sink.byType(EventVisualReport)) != 1 {
		t.Fatalf("expected one visual_report event, got %v", sink.events)
	}
}

func TestSummarizeStageChunksLongMaterial(t *testing.T) {
	llm := &stubLLM{}
	stage := NewSummarizeStage(llm, "m", 50)
	rc := models.NewContext("s", "claim")
	rc.Clarification = "clarification text that is long enough to fill one chunk by itself for the test"
	rc.Analysis = "analysis text that is long enough to fill one chunk by itself for the test too"
	rc.DraftReport = "draft report text that is long enough to fill another chunk for the test"

	if err := stage.Execute(context.Background(), rc, &recordingSink{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if llm.calls < 2 {
		t.Fatalf("expected multiple chunked generation calls, got %d", llm.calls)
	}
	if rc.UserSummary == "" {
		t.Fatal("user summary not written")
	}
}
