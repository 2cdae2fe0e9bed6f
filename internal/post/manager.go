// Package post orchestrates post creation: media processing, per-file
// progress aggregation and the final submission request.
package post

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/model"
)

// FileProcessor validates and transforms one attachment.
type FileProcessor interface {
	ProcessFile(f model.MediaFile) (*model.ProcessedFile, error)
}

// Submitter sends the finished post to the backend.
type Submitter interface {
	SubmitPost(ctx context.Context, draft model.PostDraft, files []model.ProcessedFile) (*model.PostRecord, error)
}

// ProgressFunc observes aggregate submission progress.
type ProgressFunc func(model.UploadProgress)

// Manager runs post submissions. The per-filename task map covers one
// submission at a time; concurrent CreatePost calls on the same manager
// interleave their progress reporting.
type Manager struct {
	proc FileProcessor
	api  Submitter
	log  *zap.Logger

	mu         sync.Mutex
	tasks      map[string]*model.UploadTask
	onProgress ProgressFunc
}

// NewManager creates a post manager.
func NewManager(proc FileProcessor, api Submitter, log *zap.Logger) *Manager {
	return &Manager{
		proc:  proc,
		api:   api,
		log:   log,
		tasks: make(map[string]*model.UploadTask),
	}
}

// OnProgress registers the progress observer (replaces the UI progress bar).
func (m *Manager) OnProgress(fn ProgressFunc) {
	m.mu.Lock()
	m.onProgress = fn
	m.mu.Unlock()
}

// Per-file progress checkpoints within one submission.
const (
	progressStart     = 0
	progressProcessed = 50
	progressUploading = 75
	progressDone      = 100
)

// CreatePost processes every attachment sequentially, then submits the post
// in a single request. The first file failure aborts the whole operation with
// that file's error; nothing is persisted before the final submission, so
// there is no rollback.
func (m *Manager) CreatePost(ctx context.Context, draft model.PostDraft) (*model.PostRecord, error) {
	if draft.Audience == "" {
		draft.Audience = model.AudiencePublic
	}
	if !draft.Audience.Valid() {
		return nil, fmt.Errorf("invalid audience %q", draft.Audience)
	}

	m.mu.Lock()
	m.tasks = make(map[string]*model.UploadTask, len(draft.Files))
	for _, f := range draft.Files {
		m.tasks[f.Name] = &model.UploadTask{FileID: uuid.New().String(), Progress: progressStart}
	}
	m.mu.Unlock()
	m.publishProgress()

	processed := make([]model.ProcessedFile, 0, len(draft.Files))
	for _, f := range draft.Files {
		out, err := m.proc.ProcessFile(f)
		if err != nil {
			m.setTask(f.Name, progressStart, model.UploadStatusFailed)
			m.log.Warn("file processing failed", zap.String("file", f.Name), zap.Error(err))
			return nil, err
		}
		processed = append(processed, *out)
		m.setTask(f.Name, progressProcessed, model.UploadStatusProcessed)
	}

	for _, f := range draft.Files {
		m.setTask(f.Name, progressUploading, model.UploadStatusUploading)
	}

	rec, err := m.api.SubmitPost(ctx, draft, processed)
	if err != nil {
		for _, f := range draft.Files {
			m.setTask(f.Name, progressUploading, model.UploadStatusFailed)
		}
		return nil, fmt.Errorf("submit post: %w", err)
	}

	for _, f := range draft.Files {
		m.setTask(f.Name, progressDone, model.UploadStatusProcessed)
	}
	m.log.Info("post created",
		zap.String("post_id", rec.ID),
		zap.Int("files", len(processed)))
	return rec, nil
}

// Progress returns the current aggregate progress snapshot.
func (m *Manager) Progress() model.UploadProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	pct := aggregateLocked(m.tasks)
	return model.UploadProgress{Percent: pct, Band: StatusBand(pct)}
}

func (m *Manager) setTask(name string, progress int, status model.UploadStatus) {
	m.mu.Lock()
	if t, ok := m.tasks[name]; ok {
		t.Progress = progress
		t.Status = status
	}
	m.mu.Unlock()
	m.publishProgress()
}

func (m *Manager) publishProgress() {
	m.mu.Lock()
	fn := m.onProgress
	pct := aggregateLocked(m.tasks)
	m.mu.Unlock()
	if fn != nil {
		fn(model.UploadProgress{Percent: pct, Band: StatusBand(pct)})
	}
}

func aggregateLocked(tasks map[string]*model.UploadTask) int {
	if len(tasks) == 0 {
		return 0
	}
	sum := 0
	for _, t := range tasks {
		sum += t.Progress
	}
	return int(math.Round(float64(sum) / float64(len(tasks))))
}

// AggregateProgress is the integer-rounded arithmetic mean of per-file
// progress values.
func AggregateProgress(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// StatusBand maps an aggregate percentage to its human-readable band.
func StatusBand(pct int) string {
	switch {
	case pct >= 100:
		return "complete"
	case pct >= 75:
		return "finalizing"
	case pct >= 50:
		return "uploading"
	case pct >= 25:
		return "processing"
	default:
		return "preparing"
	}
}
