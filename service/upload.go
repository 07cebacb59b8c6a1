package service

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"contractpro/config"
	"contractpro/model"

	"github.com/google/uuid"
)

// Upload session errors
var (
	ErrBatchLimit    = errors.New("batch exceeds the file limit")
	ErrFileNotFound  = errors.New("file not found in session")
	ErrFileUploading = errors.New("file transfer is in progress")
	ErrNotRetryable  = errors.New("file cannot be retried")
)

const progressStep = 10

// Outcome decides the pacing and terminal result of a simulated transfer.
// Production sessions use a seeded random source; tests inject a
// deterministic one.
type Outcome interface {
	// StepDelay returns the pause before the next progress increment
	StepDelay() time.Duration
	// Succeeds decides the terminal result once progress reaches 100
	Succeeds(name string) bool
}

// RandomOutcome emulates network variance: bounded random step delays
// and a configurable failure probability
type RandomOutcome struct {
	mu          sync.Mutex
	rng         *rand.Rand
	failureRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
}

func NewRandomOutcome(cfg *config.UploadConfig) *RandomOutcome {
	return &RandomOutcome{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		failureRate: cfg.FailureRate,
		minDelay:    time.Duration(cfg.StepDelayMinMs) * time.Millisecond,
		maxDelay:    time.Duration(cfg.StepDelayMaxMs) * time.Millisecond,
	}
}

func (o *RandomOutcome) StepDelay() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	spread := o.maxDelay - o.minDelay
	if spread <= 0 {
		return o.minDelay
	}
	return o.minDelay + time.Duration(o.rng.Int63n(int64(spread)))
}

func (o *RandomOutcome) Succeeds(string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rng.Float64() >= o.failureRate
}

// FileInfo describes a file handed to the session at intake. Content is
// staged separately; the session never inspects it.
type FileInfo struct {
	Name     string
	Size     int64
	MimeType string
}

// UploadSession manages one batch upload from file intake through
// terminal per-file outcome. All mutation happens through its methods
// under a single mutex, so Stats is consistent at any point.
type UploadSession struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	files      []*model.UploadFile
	inFlight   int
	cfg        config.UploadConfig
	outcome    Outcome
	onComplete func(model.UploadStats)
}

// NewUploadSession creates a session. A nil outcome gets the random
// default from the upload configuration.
func NewUploadSession(cfg config.UploadConfig, outcome Outcome) *UploadSession {
	if outcome == nil {
		outcome = NewRandomOutcome(&cfg)
	}
	return &UploadSession{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		cfg:       cfg,
		outcome:   outcome,
	}
}

// OnComplete registers a callback fired when the session goes idle with
// at least one successful file
func (s *UploadSession) OnComplete(fn func(model.UploadStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// AddFiles validates and appends the selected files. The whole batch is
// rejected, adding nothing, when it would push the session past the
// per-upload file limit. Individually invalid files are still added, in
// status error with their validation messages, so the caller can render
// them.
func (s *UploadSession) AddFiles(infos []FileInfo) ([]model.UploadFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.files)+len(infos) > s.cfg.MaxFilesPerUpload {
		return nil, fmt.Errorf("%w: %d files selected, %d already queued, limit is %d",
			ErrBatchLimit, len(infos), len(s.files), s.cfg.MaxFilesPerUpload)
	}

	added := make([]model.UploadFile, 0, len(infos))
	for _, info := range infos {
		f := &model.UploadFile{
			ID:       uuid.New().String(),
			Name:     info.Name,
			Size:     info.Size,
			MimeType: info.MimeType,
			Status:   model.FileStatusPending,
		}
		if msgs := s.validate(info); len(msgs) > 0 {
			f.Status = model.FileStatusError
			f.Errors = msgs
			// validation failures cannot succeed on retry
			f.Retryable = false
		}
		s.files = append(s.files, f)
		added = append(added, *f)
	}

	return added, nil
}

func (s *UploadSession) validate(info FileInfo) []string {
	var msgs []string

	if info.Size > s.cfg.MaxFileSize {
		msgs = append(msgs, fmt.Sprintf("file size exceeds %s limit", formatBytes(s.cfg.MaxFileSize)))
	}

	ext := strings.ToLower(filepath.Ext(info.Name))
	allowed := false
	for _, a := range s.cfg.AllowedFileTypes {
		if ext == strings.ToLower(a) {
			allowed = true
			break
		}
	}
	if !allowed {
		msgs = append(msgs, fmt.Sprintf("unsupported file type, allowed: %s",
			strings.Join(s.cfg.AllowedFileTypes, ", ")))
	}

	return msgs
}

// MarkStaged records where a file's content was staged
func (s *UploadSession) MarkStaged(id, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return ErrFileNotFound
	}
	f.ObjectKey = objectKey
	return nil
}

// FailIntake marks a file as failed before any transfer started, e.g.
// when staging its content did not complete. Not retryable: the content
// is gone.
func (s *UploadSession) FailIntake(id, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return ErrFileNotFound
	}
	f.Status = model.FileStatusError
	f.Errors = append(f.Errors, msg)
	f.Retryable = false
	return nil
}

// RemoveFile removes a file from the session. Nothing can be removed
// while transfers are in flight: files in transfer run to a terminal
// state (there is no cancellation), and the rest of the batch stays
// intact until the session settles.
func (s *UploadSession) RemoveFile(id string) (model.UploadFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.ID != id {
			continue
		}
		if f.Status == model.FileStatusUploading {
			return model.UploadFile{}, ErrFileUploading
		}
		if s.inFlight > 0 {
			return model.UploadFile{}, ErrSessionBusy
		}
		removed := *f
		s.files = append(s.files[:i], s.files[i+1:]...)
		return removed, nil
	}
	return model.UploadFile{}, ErrFileNotFound
}

// UploadAll starts a concurrent simulated transfer for every pending
// file and returns how many were started. Each file progresses
// independently; the session is busy until all of them terminate.
func (s *UploadSession) UploadAll() int {
	s.mu.Lock()

	var started []string
	for _, f := range s.files {
		if f.Status == model.FileStatusPending {
			f.Status = model.FileStatusUploading
			f.Progress = 0
			started = append(started, f.ID)
		}
	}
	s.inFlight += len(started)
	s.mu.Unlock()

	for _, id := range started {
		go s.transfer(id)
	}
	return len(started)
}

// RetryFile re-runs the transfer for a single failed file. Only transfer
// failures are retryable; validation failures are final for the file.
// A retry is independent of any running batch.
func (s *UploadSession) RetryFile(id string) error {
	s.mu.Lock()

	f := s.find(id)
	if f == nil {
		s.mu.Unlock()
		return ErrFileNotFound
	}
	if f.Status != model.FileStatusError {
		s.mu.Unlock()
		return fmt.Errorf("%w: status is %q", ErrNotRetryable, f.Status)
	}
	if !f.Retryable {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotRetryable, strings.Join(f.Errors, "; "))
	}

	f.Status = model.FileStatusUploading
	f.Progress = 0
	f.Errors = nil
	s.inFlight++
	s.mu.Unlock()

	go s.transfer(id)
	return nil
}

// transfer simulates one file moving to a terminal state. Progress
// advances in fixed steps with outcome-provided pacing; the terminal
// result comes from the outcome source once progress reaches 100.
func (s *UploadSession) transfer(id string) {
	var name string
	s.mu.Lock()
	if f := s.find(id); f != nil {
		name = f.Name
	}
	s.mu.Unlock()

	for p := progressStep; p <= 100; p += progressStep {
		time.Sleep(s.outcome.StepDelay())

		s.mu.Lock()
		f := s.find(id)
		if f == nil || f.Status != model.FileStatusUploading {
			// file vanished underneath us; count the flight as done
			s.settleLocked()
			s.mu.Unlock()
			return
		}
		f.Progress = p
		s.mu.Unlock()
	}

	success := s.outcome.Succeeds(name)

	s.mu.Lock()
	if f := s.find(id); f != nil {
		if success {
			f.Status = model.FileStatusSuccess
			f.Progress = 100
			f.Errors = nil
		} else {
			f.Status = model.FileStatusError
			f.Progress = 0
			f.Errors = append(f.Errors, "transfer failed, retry to attempt again")
			f.Retryable = true
		}
	}
	s.settleLocked()
	s.mu.Unlock()
}

// settleLocked decrements the in-flight count and fires the completion
// callback when the session goes idle with at least one success.
// Must be called with the mutex held.
func (s *UploadSession) settleLocked() {
	s.inFlight--
	if s.inFlight > 0 {
		return
	}
	stats := s.statsLocked()
	if s.onComplete != nil && stats.Success > 0 {
		go s.onComplete(stats)
	}
}

// Busy reports whether at least one transfer is in flight
func (s *UploadSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Stats recomputes aggregate counts from the file list every call, so
// they can never drift from the per-file states
func (s *UploadSession) Stats() model.UploadStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *UploadSession) statsLocked() model.UploadStats {
	stats := model.UploadStats{Total: len(s.files)}
	for _, f := range s.files {
		switch f.Status {
		case model.FileStatusPending:
			stats.Pending++
		case model.FileStatusUploading:
			stats.Uploading++
		case model.FileStatusSuccess:
			stats.Success++
		case model.FileStatusError:
			stats.Error++
		}
	}
	return stats
}

// Files returns copies of the session's files in intake order
func (s *UploadSession) Files() []model.UploadFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.UploadFile, len(s.files))
	for i, f := range s.files {
		out[i] = *f
	}
	return out
}

// File returns a copy of one file by id
func (s *UploadSession) File(id string) (model.UploadFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return model.UploadFile{}, ErrFileNotFound
	}
	return *f, nil
}

// find must be called with the mutex held
func (s *UploadSession) find(id string) *model.UploadFile {
	for _, f := range s.files {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
