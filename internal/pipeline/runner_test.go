package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/repository/inmemory"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSink) Send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("transport closed")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) byType(t string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fakeStage struct {
	name    string
	execute func(ctx context.Context, rc *models.Context, sink EventSink) error
}

func (f *fakeStage) Name() string { return f.name }
func (f *fakeStage) Execute(ctx context.Context, rc *models.Context, sink EventSink) error {
	return f.execute(ctx, rc, sink)
}

func TestRunnerExecutesStagesInDeclaredOrder(t *testing.T) {
	var order []string
	mk := func(name string) Stage {
		return &fakeStage{name: name, execute: func(_ context.Context, rc *models.Context, sink EventSink) error {
			order = append(order, name)
			sink.Send(Event{Type: EventThinking, Content: name})
			return nil
		}}
	}

	repo := inmemory.NewSessionRepository()
	runner := NewRunner([]Stage{mk("one"), mk("two"), mk("three")}, repo, time.Hour, nil)
	sink := &recordingSink{}

	rc, err := runner.Run(context.Background(), "s1", "claim", sink)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rc.OriginalClaim != "claim" || rc.SessionID != "s1" {
		t.Fatalf("unexpected context: %+v", rc)
	}
	if len(order) != 3 || order[0] != "one" || order[1] != "two" || order[2] != "three" {
		t.Fatalf("stages ran out of order: %v", order)
	}
}

func TestRunnerPersistsBeforeFinalReport(t *testing.T) {
	repo := inmemory.NewSessionRepository()
	var persistedAtFinal bool
	stage := &fakeStage{name: "draft", execute: func(_ context.Context, rc *models.Context, _ EventSink) error {
		rc.DraftReport = "report"
		return nil
	}}
	runner := NewRunner([]Stage{stage}, repo, time.Hour, nil)

	sink := &checkingSink{repo: repo, onFinal: &persistedAtFinal}
	if _, err := runner.Run(context.Background(), "s2", "claim", sink); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !persistedAtFinal {
		t.Fatal("final_report emitted before the snapshot was persisted")
	}

	snap, err := repo.Get(context.Background(), "s2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snap.DraftReport != "report" {
		t.Fatalf("snapshot missing draft report: %+v", snap)
	}
}

// checkingSink records whether the snapshot is readable at the moment the
// final_report event arrives.
type checkingSink struct {
	repo    *inmemory.Repository
	onFinal *bool
	finals  int
}

func (s *checkingSink) Send(ev Event) error {
	if ev.Type == EventFinalReport {
		s.finals++
		if _, err := s.repo.Get(context.Background(), "s2"); err == nil {
			*s.onFinal = true
		}
	}
	return nil
}

func TestRunnerAbortsOnStageFailure(t *testing.T) {
	repo := inmemory.NewSessionRepository()
	boom := errors.New("oracle timeout")
	stages := []Stage{
		&fakeStage{name: "ok", execute: func(_ context.Context, _ *models.Context, _ EventSink) error { return nil }},
		&fakeStage{name: "fails", execute: func(_ context.Context, _ *models.Context, _ EventSink) error { return boom }},
		&fakeStage{name: "never", execute: func(_ context.Context, _ *models.Context, _ EventSink) error {
			panic("stage after failure must not run")
		}},
	}
	runner := NewRunner(stages, repo, time.Hour, nil)
	sink := &recordingSink{}

	_, err := runner.Run(context.Background(), "s3", "claim", sink)
	if err == nil {
		t.Fatal("expected run to abort")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != "fails" {
		t.Fatalf("expected StageError from stage fails, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("stage error should wrap the cause, got %v", err)
	}

	if n := len(sink.byType(EventError)); n != 1 {
		t.Fatalf("expected exactly one error event, got %d", n)
	}
	if n := len(sink.byType(EventFinalReport)); n != 0 {
		t.Fatalf("aborted run must not emit final_report, got %d", n)
	}
	if _, err := repo.Get(context.Background(), "s3"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("aborted run must not persist a snapshot, got %v", err)
	}
}

func TestRunnerSurvivesTransportFailure(t *testing.T) {
	repo := inmemory.NewSessionRepository()
	stage := &fakeStage{name: "noisy", execute: func(_ context.Context, rc *models.Context, sink EventSink) error {
		sink.Send(Event{Type: EventThinking, Content: "still working"})
		rc.DraftReport = "report"
		return nil
	}}
	runner := NewRunner([]Stage{stage}, repo, time.Hour, nil)

	sink := &recordingSink{fail: true}
	if _, err := runner.Run(context.Background(), "s4", "claim", sink); err != nil {
		t.Fatalf("transport failure aborted the run: %v", err)
	}
	if _, err := repo.Get(context.Background(), "s4"); err != nil {
		t.Fatalf("snapshot should persist despite transport failure: %v", err)
	}
}

func TestRunnerRunsWithNilSink(t *testing.T) {
	repo := inmemory.NewSessionRepository()
	stage := &fakeStage{name: "quiet", execute: func(_ context.Context, rc *models.Context, sink EventSink) error {
		sink.Send(Event{Type: EventThinking, Content: "hello"})
		return nil
	}}
	runner := NewRunner([]Stage{stage}, repo, time.Hour, nil)
	if _, err := runner.Run(context.Background(), "s5", "claim", nil); err != nil {
		t.Fatalf("Run with nil sink: %v", err)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateIdle:      "idle",
		StateRunning:   "running",
		StateCompleted: "completed",
		StateAborted:   "aborted",
		State(42):      "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
