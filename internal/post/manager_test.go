package post

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// ---- fakes ----

type fakeProcessor struct {
	failOn string
	calls  []string
}

func (f *fakeProcessor) ProcessFile(file model.MediaFile) (*model.ProcessedFile, error) {
	f.calls = append(f.calls, file.Name)
	if file.Name == f.failOn {
		return nil, errs.ErrUnsupportedFormat
	}
	return &model.ProcessedFile{
		Name:        file.Name,
		Data:        file.Data,
		ContentType: "image/jpeg",
		Kind:        model.MediaKindImage,
	}, nil
}

type fakeSubmitter struct {
	err       error
	calls     int
	lastFiles []model.ProcessedFile
	lastDraft model.PostDraft
}

func (f *fakeSubmitter) SubmitPost(_ context.Context, draft model.PostDraft, files []model.ProcessedFile) (*model.PostRecord, error) {
	f.calls++
	f.lastDraft = draft
	f.lastFiles = files
	if f.err != nil {
		return nil, f.err
	}
	return &model.PostRecord{ID: "post-1", Caption: draft.Caption}, nil
}

func newTestManager(proc FileProcessor, sub Submitter) *Manager {
	return NewManager(proc, sub, zap.NewNop())
}

// ---- progress math ----

func TestAggregateProgress(t *testing.T) {
	require.Equal(t, 100, AggregateProgress([]int{100, 100, 100}))
	require.Equal(t, 0, AggregateProgress([]int{0, 0}))
	require.Equal(t, 0, AggregateProgress(nil))
	require.Equal(t, 50, AggregateProgress([]int{0, 100}))
	require.Equal(t, 67, AggregateProgress([]int{100, 100, 0}))
}

func TestStatusBand(t *testing.T) {
	require.Equal(t, "preparing", StatusBand(0))
	require.Equal(t, "preparing", StatusBand(24))
	require.Equal(t, "processing", StatusBand(40))
	require.Equal(t, "uploading", StatusBand(50))
	require.Equal(t, "finalizing", StatusBand(75))
	require.Equal(t, "finalizing", StatusBand(99))
	require.Equal(t, "complete", StatusBand(100))
}

// ---- create post ----

func TestCreatePostProcessesSequentiallyAndSubmitsOnce(t *testing.T) {
	proc := &fakeProcessor{}
	sub := &fakeSubmitter{}
	m := newTestManager(proc, sub)

	draft := model.PostDraft{
		Caption:  "beach day",
		Audience: model.AudienceFollowers,
		Files: []model.MediaFile{
			{Name: "a.jpg", Data: []byte("a")},
			{Name: "b.jpg", Data: []byte("b")},
		},
	}
	rec, err := m.CreatePost(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, "post-1", rec.ID)

	require.Equal(t, []string{"a.jpg", "b.jpg"}, proc.calls)
	require.Equal(t, 1, sub.calls)
	require.Len(t, sub.lastFiles, 2)

	p := m.Progress()
	require.Equal(t, 100, p.Percent)
	require.Equal(t, "complete", p.Band)
}

func TestCreatePostFailsWholeOperationOnSingleFileError(t *testing.T) {
	proc := &fakeProcessor{failOn: "b.jpg"}
	sub := &fakeSubmitter{}
	m := newTestManager(proc, sub)

	draft := model.PostDraft{
		Files: []model.MediaFile{
			{Name: "a.jpg"},
			{Name: "b.jpg"},
			{Name: "c.jpg"},
		},
	}
	_, err := m.CreatePost(context.Background(), draft)
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)

	// Processing stops at the failing file; nothing reaches the backend.
	require.Equal(t, []string{"a.jpg", "b.jpg"}, proc.calls)
	require.Zero(t, sub.calls)
}

func TestCreatePostSubmitFailurePropagates(t *testing.T) {
	boom := errors.New("backend down")
	m := newTestManager(&fakeProcessor{}, &fakeSubmitter{err: boom})

	_, err := m.CreatePost(context.Background(), model.PostDraft{
		Files: []model.MediaFile{{Name: "a.jpg"}},
	})
	require.ErrorIs(t, err, boom)
}

func TestCreatePostDefaultsAudienceToPublic(t *testing.T) {
	sub := &fakeSubmitter{}
	m := newTestManager(&fakeProcessor{}, sub)

	_, err := m.CreatePost(context.Background(), model.PostDraft{})
	require.NoError(t, err)
	require.Equal(t, model.AudiencePublic, sub.lastDraft.Audience)
}

func TestCreatePostRejectsUnknownAudience(t *testing.T) {
	m := newTestManager(&fakeProcessor{}, &fakeSubmitter{})

	_, err := m.CreatePost(context.Background(), model.PostDraft{Audience: "everyone"})
	require.Error(t, err)
}

func TestProgressCallbackReachesComplete(t *testing.T) {
	m := newTestManager(&fakeProcessor{}, &fakeSubmitter{})

	var last model.UploadProgress
	m.OnProgress(func(p model.UploadProgress) { last = p })

	_, err := m.CreatePost(context.Background(), model.PostDraft{
		Files: []model.MediaFile{{Name: "a.jpg"}},
	})
	require.NoError(t, err)
	require.Equal(t, 100, last.Percent)
	require.Equal(t, "complete", last.Band)
}
