package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohammad-safakhou/veritas/models"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := NewSessionRepository()
	snapshot := models.NewContext("s1", "The moon landing was staged")
	snapshot.DraftReport = "# Truth Analysis Report"

	if err := repo.Save(context.Background(), *snapshot, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.OriginalClaim != snapshot.OriginalClaim || got.DraftReport != snapshot.DraftReport {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestGetUnknownSession(t *testing.T) {
	repo := NewSessionRepository()
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestExpiredSessionIsGone(t *testing.T) {
	repo := NewSessionRepository()
	snapshot := models.NewContext("s1", "claim")
	if err := repo.Save(context.Background(), *snapshot, time.Millisecond); err != nil {
		t.Fatalf("Save: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := repo.Get(context.Background(), "s1"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	repo := NewSessionRepository()
	first := models.NewContext("s1", "claim")
	first.DraftReport = "first"
	second := models.NewContext("s1", "claim")
	second.DraftReport = "second"

	if err := repo.Save(context.Background(), *first, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(context.Background(), *second, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DraftReport != "second" {
		t.Fatalf("last write must win, got %q", got.DraftReport)
	}
}

func TestDelete(t *testing.T) {
	repo := NewSessionRepository()
	snapshot := models.NewContext("s1", "claim")
	if err := repo.Save(context.Background(), *snapshot, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(context.Background(), "s1"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
