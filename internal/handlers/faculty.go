package handlers

import (
	"strconv"

	"campus-availability-server/internal/middleware"
	"campus-availability-server/internal/models"
	"campus-availability-server/internal/realtime"
	"campus-availability-server/internal/store"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// FacultyHandler serves the public directory and status updates.
type FacultyHandler struct {
	Store     *store.Store
	Publisher realtime.Publisher
}

// NewFacultyHandler creates a new FacultyHandler.
func NewFacultyHandler(st *store.Store, pub realtime.Publisher) *FacultyHandler {
	return &FacultyHandler{Store: st, Publisher: pub}
}

// ListFaculties returns the directory filtered by search, department and status.
func (h *FacultyHandler) ListFaculties(c *gin.Context) {
	filter := store.FacultyFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			utils.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	faculties, err := h.Store.ListFaculties(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, err, "fetch faculty")
		return
	}

	utils.Success(c, "Faculty fetched successfully", models.SanitizeAll(faculties))
}

// Departments lists the distinct departments.
func (h *FacultyHandler) Departments(c *gin.Context) {
	departments, err := h.Store.Departments(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "fetch departments")
		return
	}
	utils.Success(c, "Departments fetched successfully", departments)
}

// GetFaculty returns one directory entry.
func (h *FacultyHandler) GetFaculty(c *gin.Context) {
	faculty, err := h.Store.GetFaculty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "fetch faculty")
		return
	}
	utils.Success(c, "Faculty fetched successfully", faculty.Sanitize())
}

// UpdateStatusRequest represents the request body for a status update.
type UpdateStatusRequest struct {
	Status  models.FacultyStatus `json:"status" binding:"required,facultystatus"`
	Message string               `json:"message" binding:"max=500"`
}

// UpdateFacultyStatus lets a faculty member change their own availability. Admins may change anyone's.
func (h *FacultyHandler) UpdateFacultyStatus(c *gin.Context) {
	id := c.Param("id")
	if !middleware.CanActFor(c, id) {
		utils.Forbidden(c, "You can only update your own status")
		return
	}

	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	faculty, err := h.Store.UpdateFacultyStatus(c.Request.Context(), id, req.Status, req.Message)
	if err != nil {
		respondStoreError(c, err, "update status")
		return
	}

	sanitized := faculty.Sanitize()
	h.Publisher.Publish(realtime.EventFacultyStatusChanged, sanitized, realtime.Subscription{
		FacultyID:  faculty.ID,
		Department: faculty.Department,
	})
	utils.Success(c, "Status updated successfully", sanitized)
}

// FeedbackSummary returns the rating summary for a faculty member.
func (h *FacultyHandler) FeedbackSummary(c *gin.Context) {
	summary, err := h.Store.FeedbackSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "fetch feedback")
		return
	}
	utils.Success(c, "Feedback summary fetched successfully", summary)
}
