package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/mohammad-safakhou/veritas/internal/telemetry"
	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/repository"
)

// Runner sequences the pipeline stages for one session at a time. It owns
// the single authoritative Context for a run, invokes stages strictly in
// declared order, forwards their events, and persists the final snapshot.
// A stage failure aborts the run immediately; there are no retries.
type Runner struct {
	stages   []Stage
	sessions repository.SessionRepository
	ttl      time.Duration
	tele     *telemetry.Telemetry
	logger   *log.Logger
}

func NewRunner(stages []Stage, sessions repository.SessionRepository, ttl time.Duration, tele *telemetry.Telemetry) *Runner {
	return &Runner{
		stages:   stages,
		sessions: sessions,
		ttl:      ttl,
		tele:     tele,
		logger:   log.New(log.Writer(), "[RUNNER] ", log.LstdFlags),
	}
}

// Run drives a new claim through every stage. On success the snapshot is
// written to the session store before the final_report event goes out, so a
// client that sees final_report can always follow up. On abort exactly one
// error event is emitted and nothing is persisted.
func (r *Runner) Run(ctx context.Context, sessionID, claim string, sink EventSink) (*models.Context, error) {
	rc := models.NewContext(sessionID, claim)
	guarded := &guardedSink{inner: sink, tele: r.tele, logger: r.logger}

	state := StateRunning
	for i, stage := range r.stages {
		start := time.Now()
		err := stage.Execute(ctx, rc, guarded)
		r.tele.ObserveStage(stage.Name(), time.Since(start), err == nil)
		if err != nil {
			state = StateAborted
			r.logger.Printf("session %s: stage %d (%s) failed: %v", sessionID, i+1, stage.Name(), err)
			guarded.Send(Event{Type: EventError, Content: "An error occurred: " + err.Error()})
			r.tele.RecordRun(state.String())
			return nil, &StageError{Stage: stage.Name(), Err: err}
		}
	}

	// Persistence precedes the completion notice.
	if err := r.sessions.Save(ctx, *rc, r.ttl); err != nil {
		state = StateAborted
		r.logger.Printf("session %s: persisting snapshot failed: %v", sessionID, err)
		guarded.Send(Event{Type: EventError, Content: "An error occurred: " + err.Error()})
		r.tele.RecordRun(state.String())
		return nil, err
	}

	guarded.Send(Event{Type: EventFinalReport, Content: rc.DraftReport})
	state = StateCompleted
	r.tele.RecordRun(state.String())
	r.logger.Printf("session %s: run %s after %d stages", sessionID, state, len(r.stages))
	return rc, nil
}

// guardedSink makes delivery best-effort: transport errors are logged and
// counted, never propagated, so a disconnected client cannot abort a run.
type guardedSink struct {
	inner  EventSink
	tele   *telemetry.Telemetry
	logger *log.Logger
}

func (g *guardedSink) Send(ev Event) error {
	if g.inner == nil {
		return nil
	}
	if err := g.inner.Send(ev); err != nil {
		g.tele.RecordTransportFailure()
		g.logger.Printf("dropping %s event: %v", ev.Type, err)
	}
	return nil
}
