package service

import (
	"errors"
	"testing"
	"time"

	"contractpro/model"
)

func TestSessionManagerCreateAndGet(t *testing.T) {
	m := NewSessionManager(testUploadConfig(), scriptedOutcome{})

	s := m.Create()
	if s.ID == "" {
		t.Fatal("Expected a session id")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Expected the same session instance")
	}

	if _, err := m.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManagerRemove(t *testing.T) {
	m := NewSessionManager(testUploadConfig(), scriptedOutcome{})
	s := m.Create()

	if err := m.Remove(s.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Expected 0 sessions, got %d", m.Count())
	}

	if err := m.Remove(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManagerRemoveRejectsBusy(t *testing.T) {
	m := NewSessionManager(testUploadConfig(), scriptedOutcome{delay: 20 * time.Millisecond})
	s := m.Create()

	s.AddFiles([]FileInfo{pdf("a.pdf", 1)})
	s.UploadAll()

	if err := m.Remove(s.ID); !errors.Is(err, ErrSessionBusy) {
		t.Errorf("Expected ErrSessionBusy, got %v", err)
	}
	waitIdle(t, s)

	if err := m.Remove(s.ID); err != nil {
		t.Errorf("Expected idle session removable, got %v", err)
	}
}

func TestSessionManagerAttachesCompletionCallback(t *testing.T) {
	m := NewSessionManager(testUploadConfig(), scriptedOutcome{})

	done := make(chan model.UploadStats, 1)
	m.SetOnComplete(func(stats model.UploadStats) { done <- stats })

	s := m.Create()
	s.AddFiles([]FileInfo{pdf("a.pdf", 1)})
	s.UploadAll()

	select {
	case stats := <-done:
		if stats.Success != 1 {
			t.Errorf("Expected 1 success, got %+v", stats)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Completion callback never fired")
	}
}

func TestSessionManagerPrunesIdleSessions(t *testing.T) {
	m := NewSessionManager(testUploadConfig(), scriptedOutcome{})
	m.maxIdle = time.Nanosecond

	stale := m.Create()
	time.Sleep(time.Millisecond)

	// creating a new session prunes the stale one
	fresh := m.Create()

	if _, err := m.Get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected stale session evicted, got %v", err)
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("Expected fresh session kept, got %v", err)
	}
}
