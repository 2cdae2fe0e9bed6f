package api

import (
	"context"
	"net/http"

	"github.com/mirasocial/mira-client/internal/model"
)

// FetchNotifications loads the full notification sequence and the
// authoritative unread count.
func (c *Client) FetchNotifications(ctx context.Context) (*model.NotificationsResponse, error) {
	var res model.NotificationsResponse
	if err := c.Do(ctx, http.MethodGet, "/notifications", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkNotificationRead acknowledges one notification.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodPost, "/notifications/"+id+"/read", nil, nil)
}

// MarkAllNotificationsRead acknowledges every notification.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/notifications/read-all", nil, nil)
}
