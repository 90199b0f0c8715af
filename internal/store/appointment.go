package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-availability-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewAppointment is a booking request. The store assigns id and status.
type NewAppointment struct {
	FacultyID    string
	StudentName  string
	StudentEmail string
	Date         string
	Time         string
	Purpose      string
}

// AppointmentFilter narrows an appointment listing. Zero fields match everything.
type AppointmentFilter struct {
	FacultyID    string
	StudentEmail string
	Status       string
	Date         string
}

// lockFacultyForBooking selects the faculty row FOR UPDATE. Holding it until
// commit makes concurrent bookings for one faculty member run one at a time,
// so the slot count and insert that follow cannot interleave.
func lockFacultyForBooking(tx *gorm.DB, facultyID string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND role = ?", facultyID, models.RoleFaculty)
}

// BookAppointment records a pending appointment against an existing faculty member.
func (s *Store) BookAppointment(ctx context.Context, req NewAppointment) (*models.Appointment, error) {
	appointment := models.Appointment{
		FacultyID:    req.FacultyID,
		StudentName:  strings.TrimSpace(req.StudentName),
		StudentEmail: strings.TrimSpace(req.StudentEmail),
		Date:         req.Date,
		Time:         req.Time,
		Purpose:      strings.TrimSpace(req.Purpose),
		Status:       models.StatusPending,
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var faculty models.Faculty
		err := lockFacultyForBooking(tx, req.FacultyID).First(&faculty).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFacultyNotFound
			}
			return err
		}

		var taken int64
		err = tx.Model(&models.Appointment{}).
			Where("faculty_id = ? AND date = ? AND time = ? AND status <> ?",
				req.FacultyID, req.Date, req.Time, models.StatusCancelled).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return ErrSlotTaken
		}

		return tx.Create(&appointment).Error
	})
	if err != nil {
		if errors.Is(err, ErrFacultyNotFound) || errors.Is(err, ErrSlotTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("book appointment: %w", err)
	}
	return &appointment, nil
}

// UpdateAppointmentStatus moves an appointment to status and returns it with its previous status.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, models.AppointmentStatus, error) {
	if !status.Valid() {
		return nil, "", ErrInvalidStatus
	}

	var appointment models.Appointment
	var previous models.AppointmentStatus
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appointment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		previous = appointment.Status

		if !models.CanTransition(previous, status) {
			return ErrInvalidTransition
		}
		if previous == status {
			return nil
		}
		if err := tx.Model(&appointment).Update("status", status).Error; err != nil {
			return err
		}
		appointment.Status = status
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("update appointment status: %w", err)
	}
	return &appointment, previous, nil
}

// GetAppointment returns a single appointment by id.
func (s *Store) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.conn(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment %s: %w", id, err)
	}
	return &appointment, nil
}

// ListAppointments returns appointments matching f, ordered by date and time.
func (s *Store) ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	query := s.conn(ctx).Model(&models.Appointment{}).Order("date asc").Order("time asc")

	if f.FacultyID != "" {
		query = query.Where("faculty_id = ?", f.FacultyID)
	}
	if email := strings.TrimSpace(f.StudentEmail); email != "" {
		query = query.Where("LOWER(student_email) = ?", strings.ToLower(email))
	}
	if f.Status != "" && f.Status != "all" {
		if !models.AppointmentStatus(f.Status).Valid() {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		query = query.Where("date = ?", f.Date)
	}

	appointments := []models.Appointment{}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}
