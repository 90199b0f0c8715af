package handlers

import (
	"campus-availability-server/internal/models"
	"campus-availability-server/internal/store"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler accepts user feedback.
type FeedbackHandler struct {
	Store *store.Store
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(st *store.Store) *FeedbackHandler {
	return &FeedbackHandler{Store: st}
}

// CreateFeedbackRequest represents the request body for submitting feedback.
type CreateFeedbackRequest struct {
	FacultyID *string                 `json:"facultyId"`
	Rating    int                     `json:"rating" binding:"required,min=1,max=5"`
	Category  models.FeedbackCategory `json:"category" binding:"omitempty,oneof=general availability appointment interface performance"`
	Comment   string                  `json:"comment" binding:"max=2000"`
}

// CreateFeedback stores a rating with an optional comment.
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.FacultyID != nil && *req.FacultyID == "" {
		req.FacultyID = nil
	}

	fb := models.Feedback{
		FacultyID: req.FacultyID,
		Rating:    req.Rating,
		Category:  req.Category,
		Comment:   req.Comment,
	}
	if err := h.Store.CreateFeedback(c.Request.Context(), &fb); err != nil {
		respondStoreError(c, err, "save feedback")
		return
	}
	utils.Created(c, "Thank you for your feedback", fb)
}
