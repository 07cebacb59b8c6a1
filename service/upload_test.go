package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"contractpro/config"
	"contractpro/model"
)

// scriptedOutcome is a deterministic outcome source: zero-delay steps
// and per-file results keyed by name
type scriptedOutcome struct {
	delay time.Duration
	fail  map[string]bool
}

func (o scriptedOutcome) StepDelay() time.Duration { return o.delay }
func (o scriptedOutcome) Succeeds(name string) bool {
	return !o.fail[name]
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxFileSize:       1024 * 1024, // 1MB
		MaxFilesPerUpload: 4,
		AllowedFileTypes:  []string{".pdf", ".docx", ".txt"},
	}
}

func waitIdle(t *testing.T, s *UploadSession) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for s.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("Session still busy after 5s")
		}
		time.Sleep(time.Millisecond)
	}
}

func pdf(name string, size int64) FileInfo {
	return FileInfo{Name: name, Size: size, MimeType: "application/pdf"}
}

func TestAddFilesValid(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	added, err := s.AddFiles([]FileInfo{pdf("a.pdf", 100), pdf("b.pdf", 200)})
	if err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("Expected 2 added files, got %d", len(added))
	}
	for _, f := range added {
		if f.Status != model.FileStatusPending {
			t.Errorf("Expected pending status, got %q", f.Status)
		}
		if f.ID == "" {
			t.Error("Expected a unique id to be assigned")
		}
	}

	stats := s.Stats()
	if stats.Total != 2 || stats.Pending != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestAddFilesBatchRejectionIsAtomic(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{}) // limit 4

	if _, err := s.AddFiles([]FileInfo{pdf("a.pdf", 1), pdf("b.pdf", 1), pdf("c.pdf", 1)}); err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}

	_, err := s.AddFiles([]FileInfo{pdf("d.pdf", 1), pdf("e.pdf", 1)})
	if !errors.Is(err, ErrBatchLimit) {
		t.Fatalf("Expected ErrBatchLimit, got %v", err)
	}

	stats := s.Stats()
	if stats.Total != 3 {
		t.Errorf("Expected the existing 3 files untouched, got total %d", stats.Total)
	}
}

func TestAddFilesSizeValidation(t *testing.T) {
	cfg := testUploadConfig()
	s := NewUploadSession(cfg, scriptedOutcome{})

	added, err := s.AddFiles([]FileInfo{pdf("big.pdf", cfg.MaxFileSize+1)})
	if err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}

	f := added[0]
	if f.Status != model.FileStatusError {
		t.Errorf("Expected error status, got %q", f.Status)
	}
	if len(f.Errors) != 1 || !strings.Contains(f.Errors[0], "size exceeds") {
		t.Errorf("Expected a size limit message, got %v", f.Errors)
	}
	if f.Retryable {
		t.Error("Validation failures must not be retryable")
	}
}

func TestAddFilesTypeValidation(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	added, err := s.AddFiles([]FileInfo{{Name: "contract.exe", Size: 100}})
	if err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}

	f := added[0]
	if f.Status != model.FileStatusError {
		t.Errorf("Expected error status, got %q", f.Status)
	}
	if len(f.Errors) != 1 || !strings.Contains(f.Errors[0], "unsupported file type") {
		t.Errorf("Expected an unsupported type message, got %v", f.Errors)
	}
}

func TestAddFilesExtensionCaseInsensitive(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	added, err := s.AddFiles([]FileInfo{pdf("REPORT.PDF", 100)})
	if err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}
	if added[0].Status != model.FileStatusPending {
		t.Errorf("Expected uppercase extension to pass validation, got %q with %v",
			added[0].Status, added[0].Errors)
	}
}

func TestAddFilesMultipleViolations(t *testing.T) {
	cfg := testUploadConfig()
	s := NewUploadSession(cfg, scriptedOutcome{})

	added, err := s.AddFiles([]FileInfo{{Name: "huge.exe", Size: cfg.MaxFileSize + 1}})
	if err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}

	f := added[0]
	if f.Status != model.FileStatusError {
		t.Errorf("Expected a single transition to error, got %q", f.Status)
	}
	if len(f.Errors) != 2 {
		t.Errorf("Expected both violation messages, got %v", f.Errors)
	}
}

func TestUploadAllConcurrentIndependence(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{
		fail: map[string]bool{"b.pdf": true},
	})

	added, err := s.AddFiles([]FileInfo{pdf("a.pdf", 1), pdf("b.pdf", 1), pdf("c.pdf", 1)})
	if err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}

	if started := s.UploadAll(); started != 3 {
		t.Fatalf("Expected 3 transfers started, got %d", started)
	}
	waitIdle(t, s)

	want := map[string]string{
		"a.pdf": model.FileStatusSuccess,
		"b.pdf": model.FileStatusError,
		"c.pdf": model.FileStatusSuccess,
	}
	for _, added := range added {
		f, err := s.File(added.ID)
		if err != nil {
			t.Fatalf("File lookup failed: %v", err)
		}
		if f.Status != want[f.Name] {
			t.Errorf("File %s: expected %q, got %q", f.Name, want[f.Name], f.Status)
		}
		switch f.Status {
		case model.FileStatusSuccess:
			if f.Progress != 100 {
				t.Errorf("File %s: expected progress 100, got %d", f.Name, f.Progress)
			}
		case model.FileStatusError:
			if f.Progress != 0 {
				t.Errorf("File %s: expected progress reset to 0, got %d", f.Name, f.Progress)
			}
			if !f.Retryable {
				t.Errorf("File %s: transfer failure should be retryable", f.Name)
			}
			if len(f.Errors) == 0 {
				t.Errorf("File %s: expected a transfer error message", f.Name)
			}
		}
	}

	stats := s.Stats()
	if stats.Success != 2 || stats.Error != 1 || stats.Pending != 0 || stats.Uploading != 0 {
		t.Errorf("Unexpected final stats: %+v", stats)
	}
}

func TestUploadAllNoPendingIsNoop(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	if started := s.UploadAll(); started != 0 {
		t.Errorf("Expected no transfers started, got %d", started)
	}
	if s.Busy() {
		t.Error("Session should not be busy")
	}
}

func TestRetryTransition(t *testing.T) {
	outcome := &togglingOutcome{fail: true}
	s := NewUploadSession(testUploadConfig(), outcome)

	added, _ := s.AddFiles([]FileInfo{pdf("a.pdf", 1)})
	s.UploadAll()
	waitIdle(t, s)

	f, _ := s.File(added[0].ID)
	if f.Status != model.FileStatusError {
		t.Fatalf("Expected forced failure, got %q", f.Status)
	}

	outcome.setFail(false)
	if err := s.RetryFile(added[0].ID); err != nil {
		t.Fatalf("RetryFile failed: %v", err)
	}
	waitIdle(t, s)

	f, _ = s.File(added[0].ID)
	if f.Status != model.FileStatusSuccess {
		t.Errorf("Expected success after retry, got %q", f.Status)
	}
	if f.Progress != 100 {
		t.Errorf("Expected progress 100 after retry, got %d", f.Progress)
	}
	if len(f.Errors) != 0 {
		t.Errorf("Expected errors cleared after successful retry, got %v", f.Errors)
	}
}

func TestRetryRejectsValidationFailures(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	added, _ := s.AddFiles([]FileInfo{{Name: "contract.exe", Size: 1}})
	err := s.RetryFile(added[0].ID)
	if !errors.Is(err, ErrNotRetryable) {
		t.Errorf("Expected ErrNotRetryable for validation failure, got %v", err)
	}
}

func TestRetryRejectsNonErrorStates(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	added, _ := s.AddFiles([]FileInfo{pdf("a.pdf", 1)})
	if err := s.RetryFile(added[0].ID); !errors.Is(err, ErrNotRetryable) {
		t.Errorf("Expected ErrNotRetryable for pending file, got %v", err)
	}

	if err := s.RetryFile("missing"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestRemoveFile(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	added, _ := s.AddFiles([]FileInfo{pdf("a.pdf", 1), pdf("b.pdf", 1)})
	if _, err := s.RemoveFile(added[0].ID); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
	if s.Stats().Total != 1 {
		t.Errorf("Expected 1 file left, got %d", s.Stats().Total)
	}

	if _, err := s.RemoveFile("missing"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestRemoveFileRejectedWhileUploading(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{delay: 20 * time.Millisecond})

	added, _ := s.AddFiles([]FileInfo{pdf("a.pdf", 1)})
	s.UploadAll()

	if _, err := s.RemoveFile(added[0].ID); !errors.Is(err, ErrFileUploading) {
		t.Errorf("Expected ErrFileUploading, got %v", err)
	}
	waitIdle(t, s)

	// terminal files can be removed
	if _, err := s.RemoveFile(added[0].ID); err != nil {
		t.Errorf("Expected terminal file removable, got %v", err)
	}
}

func TestRemoveFileRejectedWhileSessionBusy(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{delay: 20 * time.Millisecond})

	s.AddFiles([]FileInfo{pdf("a.pdf", 1)})
	s.UploadAll()

	// b.pdf arrives mid-batch and stays pending
	queued, _ := s.AddFiles([]FileInfo{pdf("b.pdf", 1)})
	if _, err := s.RemoveFile(queued[0].ID); !errors.Is(err, ErrSessionBusy) {
		t.Errorf("Expected ErrSessionBusy removing pending file mid-batch, got %v", err)
	}
	waitIdle(t, s)

	// the batch settled; pending files are removable again
	if _, err := s.RemoveFile(queued[0].ID); err != nil {
		t.Errorf("Expected pending file removable when idle, got %v", err)
	}
}

func TestBusyTracksInFlightTransfers(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{delay: 10 * time.Millisecond})

	s.AddFiles([]FileInfo{pdf("a.pdf", 1), pdf("b.pdf", 1)})
	s.UploadAll()

	if !s.Busy() {
		t.Error("Expected session busy while transfers run")
	}
	waitIdle(t, s)

	if s.Stats().Uploading != 0 {
		t.Errorf("Expected no uploading files when idle, got %+v", s.Stats())
	}
}

func TestOnCompleteFiresWithSuccesses(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{})

	done := make(chan model.UploadStats, 1)
	s.OnComplete(func(stats model.UploadStats) { done <- stats })

	s.AddFiles([]FileInfo{pdf("a.pdf", 1), pdf("b.pdf", 1)})
	s.UploadAll()

	select {
	case stats := <-done:
		if stats.Success != 2 {
			t.Errorf("Expected 2 successes in completion stats, got %+v", stats)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Completion callback never fired")
	}
}

func TestOnCompleteSkippedWhenAllFail(t *testing.T) {
	s := NewUploadSession(testUploadConfig(), scriptedOutcome{
		fail: map[string]bool{"a.pdf": true},
	})

	fired := make(chan struct{}, 1)
	s.OnComplete(func(model.UploadStats) { fired <- struct{}{} })

	s.AddFiles([]FileInfo{pdf("a.pdf", 1)})
	s.UploadAll()
	waitIdle(t, s)

	select {
	case <-fired:
		t.Error("Completion callback fired with zero successes")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRandomOutcomeBounds(t *testing.T) {
	o := NewRandomOutcome(&config.UploadConfig{
		FailureRate:    0,
		StepDelayMinMs: 5,
		StepDelayMaxMs: 10,
	})

	for i := 0; i < 50; i++ {
		d := o.StepDelay()
		if d < 5*time.Millisecond || d >= 10*time.Millisecond {
			t.Fatalf("Step delay %v out of configured bounds", d)
		}
		if !o.Succeeds("x") {
			t.Fatal("Zero failure rate must always succeed")
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{10 * 1024 * 1024, "10.0 MB"},
		{1536, "1.5 KB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// togglingOutcome flips between forced failure and forced success
type togglingOutcome struct {
	mu   sync.Mutex
	fail bool
}

func (o *togglingOutcome) StepDelay() time.Duration { return 0 }

func (o *togglingOutcome) Succeeds(string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.fail
}

func (o *togglingOutcome) setFail(fail bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fail = fail
}
