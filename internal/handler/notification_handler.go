package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirasocial/mira-client/internal/notification"
)

// NotificationHandler handles the notification list on the control API.
type NotificationHandler struct {
	mgr *notification.Manager
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(mgr *notification.Manager) *NotificationHandler {
	return &NotificationHandler{mgr: mgr}
}

// List handles GET /notifications: reloads from the backend and returns the
// sequence plus the unread counter.
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.mgr.Load(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": items,
		"unread_count":  h.mgr.UnreadCount(),
	})
}

// MarkRead handles POST /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification id required"})
		return
	}
	if err := h.mgr.MarkAsRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": h.mgr.UnreadCount()})
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.mgr.MarkAllAsRead(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": h.mgr.UnreadCount()})
}
