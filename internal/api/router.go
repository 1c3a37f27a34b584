// Package api exposes the tutoring services over a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handler struct {
	Deps
	logger *zap.Logger
}

// NewRouter builds the gin engine with every /api/v1 route.
func NewRouter(deps Deps, logger *zap.Logger) *gin.Engine {
	h := &handler{Deps: deps, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	v1.POST("/users", h.register)

	authed := v1.Group("")
	authed.Use(RequireUser())
	{
		authed.GET("/users/me", h.me)
		authed.PATCH("/users/me", h.updateProfile)
		authed.POST("/users/me/tutor", h.becomeTutor)
		authed.PUT("/users/me/subjects", h.setSubjects)
		authed.PUT("/users/me/availability", h.setAvailability)
		authed.GET("/users/:id", h.getUser)

		authed.GET("/tutors", h.listTutors)
		authed.GET("/tutors/:id/reviews", h.tutorReviews)

		authed.POST("/requests", h.createRequest)
		authed.GET("/requests/incoming", h.incomingRequests)
		authed.GET("/requests/outgoing", h.outgoingRequests)
		authed.GET("/requests/:id", h.getRequest)
		authed.POST("/requests/:id/approve", h.approveRequest)
		authed.POST("/requests/:id/decline", h.declineRequest)
		authed.POST("/requests/:id/cancel", h.cancelRequest)

		authed.GET("/sessions", h.listSessions)
		authed.GET("/sessions/export", h.exportSessions)
		authed.GET("/sessions/:id", h.getSession)
		authed.POST("/sessions/:id/complete", h.completeSession)
		authed.POST("/sessions/:id/cancel", h.cancelSession)
		authed.PUT("/sessions/:id/notes", h.updateNotes)
		authed.POST("/sessions/:id/review", h.submitReview)
		authed.GET("/sessions/:id/review", h.getReview)

		authed.GET("/alerts", h.listAlerts)
		authed.GET("/alerts/unread-count", h.unreadCount)
		authed.GET("/alerts/stream", h.streamAlerts)
		authed.POST("/alerts/read", h.markAllAlertsRead)
		authed.POST("/alerts/:id/read", h.markAlertRead)

		authed.POST("/messages", h.sendMessage)
		authed.GET("/conversations", h.conversations)
		authed.GET("/conversations/:id", h.conversation)
		authed.POST("/conversations/:id/read", h.markConversationRead)
	}

	return r
}

func (h *handler) health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_ping_error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
