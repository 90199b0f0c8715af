package handlers

import (
	"errors"
	"net/http"

	"campus-availability-server/internal/store"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// respondStoreError maps store sentinel errors onto the response envelope.
func respondStoreError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, store.ErrFacultyNotFound):
		utils.NotFound(c, "Faculty member not found")
	case errors.Is(err, store.ErrAppointmentNotFound):
		utils.NotFound(c, "Appointment not found")
	case errors.Is(err, store.ErrInvalidStatus):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrSlotTaken):
		utils.Conflict(c, err.Error())
	case errors.Is(err, store.ErrTokenNotFound):
		utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
	default:
		utils.Error(c, http.StatusInternalServerError, "Failed to "+action+": "+err.Error())
	}
}
