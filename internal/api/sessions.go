package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sessionsResponse struct {
	Upcoming []*model.TutoringSession `json:"upcoming"`
	Past     []*model.TutoringSession `json:"past"`
}

type notesBody struct {
	Notes string `json:"notes"`
}

type reviewBody struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// listSessions returns both lists, or one of them with ?filter=upcoming|past.
func (h *handler) listSessions(c *gin.Context) {
	upcoming, past, err := h.Sessions.Overview(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	switch c.Query("filter") {
	case "":
		c.JSON(http.StatusOK, sessionsResponse{Upcoming: upcoming, Past: past})
	case "upcoming":
		c.JSON(http.StatusOK, upcoming)
	case "past":
		c.JSON(http.StatusOK, past)
	default:
		badRequest(c, "invalid filter")
	}
}

func (h *handler) getSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	session, err := h.Sessions.GetByID(c.Request.Context(), id, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handler) completeSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	session, err := h.Sessions.Complete(c.Request.Context(), id, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handler) cancelSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body reasonBody
	_ = c.ShouldBindJSON(&body)

	session, err := h.Sessions.Cancel(c.Request.Context(), id, currentUser(c), body.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handler) updateNotes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body notesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	session, err := h.Sessions.UpdateNotes(c.Request.Context(), id, currentUser(c), body.Notes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handler) submitReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body reviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	review, err := h.Reviews.Submit(c.Request.Context(), service.SubmitReviewInput{
		SessionID: id,
		StudentID: currentUser(c),
		Rating:    body.Rating,
		Comment:   body.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *handler) getReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := h.Reviews.GetForSession(c.Request.Context(), id, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *handler) exportSessions(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Reports.ExportSessions(c.Request.Context(), currentUser(c), &buf); err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("sessions-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
