// Package notification keeps the newest-first notification sequence and the
// unread counter in sync with the backend.
package notification

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/model"
)

// API is the backend surface the manager needs.
type API interface {
	FetchNotifications(ctx context.Context) (*model.NotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// DesktopNotifier shows local system notifications.
type DesktopNotifier interface {
	// RequestPermission asks the platform for notification permission and
	// reports whether it was granted.
	RequestPermission() bool
	PermissionGranted() bool
	Notify(title, body string) error
}

// RenderFunc receives each realtime notification for display.
type RenderFunc func(model.Notification)

// Manager owns the ordered notification list and the unread counter.
//
// MarkAsRead and MarkAllAsRead mutate the counter optimistically after the
// backend call; on failure the counter is not reconciled against the server
// count until the next Load.
type Manager struct {
	api      API
	notifier DesktopNotifier
	render   RenderFunc
	log      *zap.Logger

	mu     sync.Mutex
	items  []model.Notification
	unread int
}

// NewManager creates a notification manager.
func NewManager(api API, notifier DesktopNotifier, log *zap.Logger) *Manager {
	return &Manager{api: api, notifier: notifier, log: log}
}

// RequestPermission asks the desktop collaborator for notification
// permission. Without permission, realtime items skip the desktop alert but
// are still recorded.
func (m *Manager) RequestPermission() bool {
	if m.notifier == nil {
		return false
	}
	return m.notifier.RequestPermission()
}

// OnRender registers the display sink for realtime notifications.
func (m *Manager) OnRender(fn RenderFunc) {
	m.mu.Lock()
	m.render = fn
	m.mu.Unlock()
}

// Load replaces the whole sequence and counter from one backend call.
func (m *Manager) Load(ctx context.Context) ([]model.Notification, error) {
	res, err := m.api.FetchNotifications(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.items = res.Notifications
	m.unread = res.UnreadCount
	m.mu.Unlock()
	return res.Notifications, nil
}

// MarkAsRead acknowledges one notification and decrements the local unread
// counter by exactly one, floored at zero.
func (m *Manager) MarkAsRead(ctx context.Context, id string) error {
	if err := m.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Unread = false
			break
		}
	}
	if m.unread > 0 {
		m.unread--
	}
	m.mu.Unlock()
	return nil
}

// MarkAllAsRead acknowledges every notification and zeroes the counter.
func (m *Manager) MarkAllAsRead(ctx context.Context) error {
	if err := m.api.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	for i := range m.items {
		m.items[i].Unread = false
	}
	m.unread = 0
	m.mu.Unlock()
	return nil
}

// HandleRealtime ingests one pushed notification: prepend, bump the counter,
// fire the desktop notifier when permitted and hand the item to the render
// sink. The three effects are unconditional.
func (m *Manager) HandleRealtime(n model.Notification) {
	n.Unread = true
	m.mu.Lock()
	m.items = append([]model.Notification{n}, m.items...)
	m.unread++
	render := m.render
	m.mu.Unlock()

	if m.notifier != nil && m.notifier.PermissionGranted() {
		if err := m.notifier.Notify("Mira", n.Message); err != nil {
			m.log.Warn("desktop notification failed", zap.Error(err))
		}
	}
	if render != nil {
		render(n)
	}
}

// Notifications returns a copy of the current sequence, newest first.
func (m *Manager) Notifications() []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Notification, len(m.items))
	copy(out, m.items)
	return out
}

// UnreadCount returns the local unread counter.
func (m *Manager) UnreadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unread
}
