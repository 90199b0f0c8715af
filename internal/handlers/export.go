package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"campus-availability-server/internal/models"
	"campus-availability-server/internal/store"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// ExportHandler streams CSV reports.
type ExportHandler struct {
	Store *store.Store
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(st *store.Store) *ExportHandler {
	return &ExportHandler{Store: st}
}

// Faculty exports the directory.
func (h *ExportHandler) Faculty(c *gin.Context) {
	faculties, err := h.Store.ListFaculties(c.Request.Context(), store.FacultyFilter{})
	if err != nil {
		respondStoreError(c, err, "export faculty")
		return
	}

	rows := [][]string{{
		"Name", "Department", "Designation", "Email", "Phone", "CabinNumber", "Status",
		"StatusMessage", "OfficeHoursStart", "OfficeHoursEnd", "OfficeDays", "LastUpdated",
	}}
	for _, f := range faculties {
		rows = append(rows, []string{
			f.Name, f.Department, f.Designation, f.Email, f.Phone, f.CabinNumber, string(f.Status),
			f.StatusMessage, f.OfficeHours.Start, f.OfficeHours.End, strings.Join(f.OfficeHours.Days, "; "),
			f.LastUpdated.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	h.write(c, "faculty-data", rows)
}

// Appointments exports every appointment with its faculty name and department.
func (h *ExportHandler) Appointments(c *gin.Context) {
	ctx := c.Request.Context()
	faculties, err := h.Store.ListFaculties(ctx, store.FacultyFilter{})
	if err != nil {
		respondStoreError(c, err, "export appointments")
		return
	}
	appointments, err := h.Store.ListAppointments(ctx, store.AppointmentFilter{})
	if err != nil {
		respondStoreError(c, err, "export appointments")
		return
	}

	byID := make(map[string]models.Faculty, len(faculties))
	for _, f := range faculties {
		byID[f.ID] = f
	}

	rows := [][]string{{"FacultyName", "StudentName", "StudentEmail", "Date", "Time", "Purpose", "Status", "Department"}}
	for _, a := range appointments {
		name, dept := "Unknown", "Unknown"
		if f, ok := byID[a.FacultyID]; ok {
			name, dept = f.Name, f.Department
		}
		rows = append(rows, []string{name, a.StudentName, a.StudentEmail, a.Date, a.Time, a.Purpose, string(a.Status), dept})
	}
	h.write(c, "appointments-data", rows)
}

// Analytics exports the headline metrics and per-department availability.
func (h *ExportHandler) Analytics(c *gin.Context) {
	stats, err := h.Store.Stats(c.Request.Context(), h.Store.Now().Format(dateLayout))
	if err != nil {
		respondStoreError(c, err, "export analytics")
		return
	}

	rows := [][]string{
		{"Metric", "Value"},
		{"Total Faculty", strconv.FormatInt(stats.TotalFaculty, 10)},
		{"Available Faculty", strconv.FormatInt(stats.AvailableNow, 10)},
		{"Availability Rate", fmt.Sprintf("%d%%", stats.AvailabilityRate)},
		{"Total Appointments", strconv.FormatInt(stats.TotalAppointments, 10)},
		{"Confirmed Appointments", strconv.FormatInt(stats.ConfirmedAppointments, 10)},
		{"Appointment Success Rate", fmt.Sprintf("%d%%", stats.SuccessRate)},
	}
	for _, d := range stats.Departments {
		rows = append(rows, []string{
			d.Department + " - Availability",
			fmt.Sprintf("%d/%d (%d%%)", d.Available, d.Total, d.AvailabilityRate),
		})
	}
	h.write(c, "analytics-report", rows)
}

func (h *ExportHandler) write(c *gin.Context, kind string, rows [][]string) {
	filename := fmt.Sprintf("%s-%s.csv", kind, h.Store.Now().Format(dateLayout))

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		utils.InternalServerError(c, "Failed to write CSV: "+err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(buf.String()))
}
