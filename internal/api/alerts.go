package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const streamKeepAlive = 25 * time.Second

func (h *handler) listAlerts(c *gin.Context) {
	limit, ok := queryInt(c, "limit", maxLimit)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))

	alerts, err := h.Alerts.List(c.Request.Context(), currentUser(c), unreadOnly, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *handler) unreadCount(c *gin.Context) {
	n, err := h.Alerts.UnreadCount(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *handler) markAlertRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Alerts.MarkRead(c.Request.Context(), id, currentUser(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) markAllAlertsRead(c *gin.Context) {
	n, err := h.Alerts.MarkAllRead(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}

// streamAlerts pushes the caller's alerts as server-sent events until the
// client disconnects.
func (h *handler) streamAlerts(c *gin.Context) {
	if h.Stream == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Error: "alert stream unavailable"})
		return
	}

	sub := h.Stream.Subscribe(currentUser(c))
	defer sub.Close()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case alert, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("alert", alert)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
