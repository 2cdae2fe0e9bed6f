package notification

import "go.uber.org/zap"

// LogNotifier is the built-in DesktopNotifier: permission is always granted
// and notifications are written to the log. Platform integrations replace it
// with a real system-notification bridge.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// RequestPermission always grants.
func (n *LogNotifier) RequestPermission() bool { return true }

// PermissionGranted always reports true.
func (n *LogNotifier) PermissionGranted() bool { return true }

// Notify writes the notification to the log.
func (n *LogNotifier) Notify(title, body string) error {
	n.log.Info("desktop notification", zap.String("title", title), zap.String("body", body))
	return nil
}
