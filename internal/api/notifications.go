package api

import (
	"mobilestore/internal/auth"
	"mobilestore/internal/notify"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
)

// listNotifications returns one user's notification inbox
func (h *Handler) listNotifications(c *gin.Context) {
	notifications, err := h.notifications.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get notifications successfully", notifications)
}

// markNotificationRead flags one notification as read
func (h *Handler) markNotificationRead(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	err := h.notifications.MarkRead(c.Request.Context(), c.Param("notificationId"), claims.UserID, claims.IsAdmin)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Notification marked as read", nil)
}

// subscribe registers a web-push subscription and greets it
func (h *Handler) subscribe(c *gin.Context) {
	var sub webpush.Subscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondBadRequest(c, err)
		return
	}

	h.subscriptions.Add(sub)

	if h.push != nil {
		go func() {
			_ = h.push.SendTo(sub, notify.PushMessage{
				Title: "MobileStore",
				Body:  "Notifications enabled for this device.",
			})
		}()
	}
	respondOK(c, "Subscribed successfully", gin.H{"subscribers": h.subscriptions.Len()})
}

// broadcastNotification fans a push message out to every subscriber (admin)
func (h *Handler) broadcastNotification(c *gin.Context) {
	var msg notify.PushMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		respondBadRequest(c, err)
		return
	}

	if h.push != nil {
		go h.push.Broadcast(msg)
	}
	respondOK(c, "Notification broadcast started", gin.H{"subscribers": h.subscriptions.Len()})
}
