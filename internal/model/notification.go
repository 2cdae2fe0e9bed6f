package model

import "time"

// NotificationType classifies who did what.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
)

// Notification is one item in the newest-first notification sequence.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	SenderID  string           `json:"sender_id"`
	PostID    string           `json:"post_id,omitempty"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Unread    bool             `json:"unread"`
}

// NotificationsResponse is the backend response for GET /notifications.
type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
