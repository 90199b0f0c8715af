package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"campus-availability-server/internal/models"
)

// ActivityType classifies an entry in the recent activity feed.
type ActivityType string

const (
	ActivityStatusChange         ActivityType = "status_change"
	ActivityAppointmentBooked    ActivityType = "appointment_booked"
	ActivityAppointmentConfirmed ActivityType = "appointment_confirmed"
	ActivityAppointmentCancelled ActivityType = "appointment_cancelled"
)

// Activity is one entry in the recent activity feed.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	FacultyID   string       `json:"facultyId"`
	FacultyName string       `json:"facultyName"`
	Message     string       `json:"message"`
	Timestamp   time.Time    `json:"timestamp"`
}

// RecentActivity merges faculty status changes and appointment updates, newest first.
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		return []Activity{}, nil
	}

	var faculties []models.Faculty
	err := s.directory(ctx).Order("last_updated desc").Limit(limit).Find(&faculties).Error
	if err != nil {
		return nil, fmt.Errorf("recent status changes: %w", err)
	}

	var appointments []models.Appointment
	err = s.conn(ctx).Preload("Faculty").Order("updated_at desc").Limit(limit).Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("recent appointments: %w", err)
	}

	activities := make([]Activity, 0, len(faculties)+len(appointments))
	for _, f := range faculties {
		activities = append(activities, Activity{
			ID:          "status-" + f.ID,
			Type:        ActivityStatusChange,
			FacultyID:   f.ID,
			FacultyName: f.Name,
			Message:     fmt.Sprintf("Updated status to %q", f.Status),
			Timestamp:   f.LastUpdated,
		})
	}
	for _, a := range appointments {
		entry := Activity{
			ID:          "appointment-" + a.ID,
			FacultyID:   a.FacultyID,
			FacultyName: a.Faculty.Name,
			Timestamp:   a.UpdatedAt,
		}
		switch a.Status {
		case models.StatusConfirmed:
			entry.Type = ActivityAppointmentConfirmed
			entry.Message = "Appointment confirmed with " + a.StudentName
		case models.StatusCancelled:
			entry.Type = ActivityAppointmentCancelled
			entry.Message = "Appointment cancelled with " + a.StudentName
		default:
			entry.Type = ActivityAppointmentBooked
			entry.Message = "New appointment request from " + a.StudentName
		}
		if entry.FacultyName == "" {
			entry.FacultyName = "Unknown"
		}
		activities = append(activities, entry)
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}
