package api

import (
	"net/http"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *handler) register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.Users.Register(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handler) me(c *gin.Context) {
	user, err := h.Users.GetByID(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) updateProfile(c *gin.Context) {
	var input service.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), currentUser(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) becomeTutor(c *gin.Context) {
	user, err := h.Users.BecomeTutor(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type subjectsBody struct {
	Subjects []string `json:"subjects" binding:"required"`
}

func (h *handler) setSubjects(c *gin.Context) {
	var body subjectsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	subjects, err := h.Users.SetSubjects(c.Request.Context(), currentUser(c), body.Subjects)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, subjectsBody{Subjects: subjects})
}

type availabilityBody struct {
	Slots []model.AvailabilitySlot `json:"slots"`
}

func (h *handler) setAvailability(c *gin.Context) {
	var body availabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	slots, err := h.Users.SetAvailability(c.Request.Context(), currentUser(c), body.Slots)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, availabilityBody{Slots: slots})
}

func (h *handler) listTutors(c *gin.Context) {
	limit, ok := queryInt(c, "limit", maxLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 1<<30)
	if !ok {
		return
	}

	tutors, err := h.Users.ListTutors(c.Request.Context(), c.Query("subject"), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tutors)
}

func (h *handler) tutorReviews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", maxLimit)
	if !ok {
		return
	}

	reviews, err := h.Reviews.ListForTutor(c.Request.Context(), id, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
