package controller

import (
	"net/http"

	"github.com/Freeeeeet/counseling_portal/internal/service"
)

// HandleNotifications GET /api/{student|counselor}/notifications.
// Студент получает ленту без сообщений.
func (c *PortalController) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	feed, err := c.notifications.GetFeed(r.Context(), sess)
	if err != nil {
		c.fail(w, r, err, "An internal server error occurred.", envelope{
			"notifications": []interface{}{},
			"unread_count":  0,
		})
		return
	}

	feed = service.ForRole(sess.Role, feed)
	c.success(w, envelope{
		"notifications": feed.Notifications,
		"unread_count":  feed.UnreadCount,
	})
}

// HandleMarkRead POST /api/{student|counselor}/notifications/read
func (c *PortalController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := c.notifications.MarkRead(r.Context(), sess); err != nil {
		c.fail(w, r, err, "Failed to mark notifications as read", nil)
		return
	}

	c.success(w, envelope{"message": "Notifications marked as read by updating last activity time."})
}

// HandleUnreadCount GET /api/student/notifications/unread-count
func (c *PortalController) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	count, err := c.notifications.GetUnreadCount(r.Context(), sess)
	if err != nil {
		c.fail(w, r, err, "Failed to get unread count", nil)
		return
	}

	c.success(w, envelope{"unread_count": count})
}
