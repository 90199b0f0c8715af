package handlers

import (
	"time"

	"campus-availability-server/internal/middleware"
	"campus-availability-server/internal/models"
	"campus-availability-server/internal/notify"
	"campus-availability-server/internal/realtime"
	"campus-availability-server/internal/store"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Store     *store.Store
	Publisher realtime.Publisher
	Notifier  *notify.Notifier
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(st *store.Store, pub realtime.Publisher, n *notify.Notifier) *AppointmentHandler {
	return &AppointmentHandler{Store: st, Publisher: pub, Notifier: n}
}

// BookAppointmentRequest represents the request body for booking an appointment.
type BookAppointmentRequest struct {
	FacultyID    string `json:"facultyId" binding:"required,notblank"`
	StudentName  string `json:"studentName" binding:"required,notblank,max=150"`
	StudentEmail string `json:"studentEmail" binding:"required,email"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	Time         string `json:"time" binding:"required,hhmm"`
	Purpose      string `json:"purpose" binding:"required,notblank"`
}

// BookAppointment records a pending appointment request from a student.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// dates compare lexically in YYYY-MM-DD
	today := h.Store.Now().Format(dateLayout)
	if req.Date <= today {
		utils.BadRequest(c, "Appointment date must be tomorrow or later.")
		return
	}

	appointment, err := h.Store.BookAppointment(c.Request.Context(), store.NewAppointment{
		FacultyID:    req.FacultyID,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		Date:         req.Date,
		Time:         req.Time,
		Purpose:      req.Purpose,
	})
	if err != nil {
		respondStoreError(c, err, "create appointment")
		return
	}

	if faculty, err := h.Store.GetFaculty(c.Request.Context(), appointment.FacultyID); err == nil {
		h.Publisher.Publish(realtime.EventAppointmentBooked, appointment, realtime.Subscription{
			FacultyID:  faculty.ID,
			Department: faculty.Department,
		})
		h.Notifier.AppointmentBooked(faculty, appointment)
	}

	utils.Created(c, "Appointment requested successfully", appointment)
}

// LookupAppointments lets a student list their own requests by email.
func (h *AppointmentHandler) LookupAppointments(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.BadRequest(c, "email query parameter is required")
		return
	}

	appointments, err := h.Store.ListAppointments(c.Request.Context(), store.AppointmentFilter{StudentEmail: email})
	if err != nil {
		respondStoreError(c, err, "fetch appointments")
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// ListAppointments returns the caller's appointments. Admins see every appointment.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	filter := store.AppointmentFilter{
		Status: c.Query("status"),
		Date:   c.Query("date"),
	}
	if filter.Date != "" {
		if _, err := time.Parse(dateLayout, filter.Date); err != nil {
			utils.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
	}

	role, _ := middleware.GetRoleFromContext(c)
	if role != models.RoleAdmin {
		id, ok := middleware.GetFacultyIDFromContext(c)
		if !ok {
			utils.Unauthorized(c, "Not authenticated")
			return
		}
		filter.FacultyID = id
	}

	appointments, err := h.Store.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, err, "fetch appointments")
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointment returns one appointment to its faculty member or an admin.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appointment, err := h.Store.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "fetch appointment")
		return
	}
	if !middleware.CanActFor(c, appointment.FacultyID) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for updating an appointment's status.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,appointmentstatus"`
}

// UpdateAppointmentStatus confirms or cancels an appointment.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	existing, err := h.Store.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "fetch appointment")
		return
	}
	if !middleware.CanActFor(c, existing.FacultyID) {
		utils.Forbidden(c, "You are not authorized to update this appointment")
		return
	}

	appointment, previous, err := h.Store.UpdateAppointmentStatus(c.Request.Context(), existing.ID, req.Status)
	if err != nil {
		respondStoreError(c, err, "update appointment status")
		return
	}

	if previous != appointment.Status {
		if faculty, err := h.Store.GetFaculty(c.Request.Context(), appointment.FacultyID); err == nil {
			h.Publisher.Publish(realtime.EventAppointmentStatusChanged, gin.H{
				"appointment":    appointment,
				"previousStatus": previous,
			}, realtime.Subscription{FacultyID: faculty.ID, Department: faculty.Department})
			h.Notifier.AppointmentStatusChanged(faculty, appointment)
		}
	}

	utils.Success(c, "Appointment status updated successfully", appointment)
}
