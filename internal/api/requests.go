package api

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gin-gonic/gin"
)

type createRequestBody struct {
	TutorID         int64     `json:"tutor_id" binding:"required"`
	Subject         string    `json:"subject" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required"`
	Occurrences     int       `json:"occurrences"`
	Message         string    `json:"message"`
}

type approveResponse struct {
	Request  *model.TutoringRequest   `json:"request"`
	Sessions []*model.TutoringSession `json:"sessions"`
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func (h *handler) createRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	req, err := h.Requests.Create(c.Request.Context(), service.CreateRequestInput{
		StudentID:       currentUser(c),
		TutorID:         body.TutorID,
		Subject:         body.Subject,
		StartTime:       body.StartTime,
		DurationMinutes: body.DurationMinutes,
		Occurrences:     body.Occurrences,
		Message:         body.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// statusFilter parses ?status=; empty means any status.
func statusFilter(c *gin.Context) (model.RequestStatus, bool) {
	status := model.RequestStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		badRequest(c, "invalid status")
		return "", false
	}
	return status, true
}

func (h *handler) incomingRequests(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	reqs, err := h.Requests.ListIncoming(c.Request.Context(), currentUser(c), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *handler) outgoingRequests(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	reqs, err := h.Requests.ListOutgoing(c.Request.Context(), currentUser(c), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *handler) getRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, err := h.Requests.GetByID(c.Request.Context(), id, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *handler) approveRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, sessions, err := h.Requests.Approve(c.Request.Context(), id, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, approveResponse{Request: req, Sessions: sessions})
}

func (h *handler) declineRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body reasonBody
	// Тело необязательно
	_ = c.ShouldBindJSON(&body)

	req, err := h.Requests.Decline(c.Request.Context(), id, currentUser(c), body.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *handler) cancelRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, err := h.Requests.Cancel(c.Request.Context(), id, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
