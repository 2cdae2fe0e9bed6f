package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/model"
)

// ---- fakes ----

type fakeAPI struct {
	res         *model.NotificationsResponse
	fetchErr    error
	markErr     error
	markAllErr  error
	markedIDs   []string
	markAllHits int
}

func (f *fakeAPI) FetchNotifications(_ context.Context) (*model.NotificationsResponse, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.res, nil
}

func (f *fakeAPI) MarkNotificationRead(_ context.Context, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

func (f *fakeAPI) MarkAllNotificationsRead(_ context.Context) error {
	if f.markAllErr != nil {
		return f.markAllErr
	}
	f.markAllHits++
	return nil
}

type fakeNotifier struct {
	granted bool
	shown   []string
}

func (f *fakeNotifier) RequestPermission() bool { return f.granted }
func (f *fakeNotifier) PermissionGranted() bool { return f.granted }
func (f *fakeNotifier) Notify(_, body string) error {
	f.shown = append(f.shown, body)
	return nil
}

func sample(id string, unread bool) model.Notification {
	return model.Notification{
		ID:        id,
		Type:      model.NotificationLike,
		SenderID:  "u2",
		Message:   "liked your post",
		Timestamp: time.Now(),
		Unread:    unread,
	}
}

func TestLoadReplacesSequenceAndCounter(t *testing.T) {
	api := &fakeAPI{res: &model.NotificationsResponse{
		Notifications: []model.Notification{sample("n1", true), sample("n2", false)},
		UnreadCount:   1,
	}}
	m := NewManager(api, nil, zap.NewNop())

	items, err := m.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, m.UnreadCount())

	api.res = &model.NotificationsResponse{UnreadCount: 0}
	_, err = m.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, m.Notifications())
	require.Zero(t, m.UnreadCount())
}

func TestMarkAsReadDecrementsByExactlyOne(t *testing.T) {
	api := &fakeAPI{res: &model.NotificationsResponse{
		Notifications: []model.Notification{sample("n1", true), sample("n2", true)},
		UnreadCount:   2,
	}}
	m := NewManager(api, nil, zap.NewNop())
	_, err := m.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.MarkAsRead(context.Background(), "n1"))
	require.Equal(t, 1, m.UnreadCount())
	require.Equal(t, []string{"n1"}, api.markedIDs)
	require.False(t, m.Notifications()[0].Unread)
}

func TestMarkAsReadFlooredAtZero(t *testing.T) {
	api := &fakeAPI{res: &model.NotificationsResponse{
		Notifications: []model.Notification{sample("n1", false)},
		UnreadCount:   0,
	}}
	m := NewManager(api, nil, zap.NewNop())
	_, err := m.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.MarkAsRead(context.Background(), "n1"))
	require.Zero(t, m.UnreadCount())
}

func TestMarkAsReadBackendFailureLeavesCounter(t *testing.T) {
	api := &fakeAPI{
		res: &model.NotificationsResponse{
			Notifications: []model.Notification{sample("n1", true)},
			UnreadCount:   1,
		},
		markErr: errors.New("backend down"),
	}
	m := NewManager(api, nil, zap.NewNop())
	_, err := m.Load(context.Background())
	require.NoError(t, err)

	require.Error(t, m.MarkAsRead(context.Background(), "n1"))
	require.Equal(t, 1, m.UnreadCount())
}

func TestMarkAllAsReadZeroesCounter(t *testing.T) {
	api := &fakeAPI{res: &model.NotificationsResponse{
		Notifications: []model.Notification{sample("n1", true), sample("n2", true)},
		UnreadCount:   2,
	}}
	m := NewManager(api, nil, zap.NewNop())
	_, err := m.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.MarkAllAsRead(context.Background()))
	require.Zero(t, m.UnreadCount())
	require.Equal(t, 1, api.markAllHits)
	for _, n := range m.Notifications() {
		require.False(t, n.Unread)
	}
}

func TestHandleRealtimePrependsAndNotifies(t *testing.T) {
	notifier := &fakeNotifier{granted: true}
	m := NewManager(&fakeAPI{}, notifier, zap.NewNop())

	var rendered []string
	m.OnRender(func(n model.Notification) { rendered = append(rendered, n.ID) })

	m.HandleRealtime(sample("n1", false))
	m.HandleRealtime(sample("n2", false))

	items := m.Notifications()
	require.Equal(t, "n2", items[0].ID) // newest first
	require.Equal(t, 2, m.UnreadCount())
	require.True(t, items[0].Unread)
	require.Len(t, notifier.shown, 2)
	require.Equal(t, []string{"n1", "n2"}, rendered)
}

func TestHandleRealtimeSkipsDesktopWithoutPermission(t *testing.T) {
	notifier := &fakeNotifier{granted: false}
	m := NewManager(&fakeAPI{}, notifier, zap.NewNop())

	m.HandleRealtime(sample("n1", false))
	require.Empty(t, notifier.shown)
	require.Equal(t, 1, m.UnreadCount())
}
