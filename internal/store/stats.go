package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"campus-availability-server/internal/models"
)

// DepartmentStats summarises one department.
type DepartmentStats struct {
	Department       string `json:"department"`
	Total            int64  `json:"total"`
	Available        int64  `json:"available"`
	Appointments     int64  `json:"appointments"`
	AvailabilityRate int    `json:"availabilityRate"`
}

// Stats is the dashboard summary of the directory and appointment book.
type Stats struct {
	TotalFaculty          int64                          `json:"totalFaculty"`
	AvailableNow          int64                          `json:"availableNow"`
	AvailabilityRate      int                            `json:"availabilityRate"`
	ByStatus              map[models.FacultyStatus]int64 `json:"byStatus"`
	TodayAppointments     int64                          `json:"todayAppointments"`
	PendingRequests       int64                          `json:"pendingRequests"`
	TotalAppointments     int64                          `json:"totalAppointments"`
	ConfirmedAppointments int64                          `json:"confirmedAppointments"`
	SuccessRate           int                            `json:"successRate"`
	Departments           []DepartmentStats              `json:"departments"`
}

type facultyCount struct {
	Department string
	Status     models.FacultyStatus
	N          int64
}

type appointmentCount struct {
	Department *string
	Status     models.AppointmentStatus
	N          int64
}

// Stats computes the dashboard summary. today is formatted YYYY-MM-DD.
func (s *Store) Stats(ctx context.Context, today string) (*Stats, error) {
	stats := &Stats{ByStatus: map[models.FacultyStatus]int64{}}
	for _, st := range models.FacultyStatuses {
		stats.ByStatus[st] = 0
	}
	depts := map[string]*DepartmentStats{}
	dept := func(name string) *DepartmentStats {
		d, ok := depts[name]
		if !ok {
			d = &DepartmentStats{Department: name}
			depts[name] = d
		}
		return d
	}

	var fc []facultyCount
	err := s.directory(ctx).
		Select("department, status, COUNT(*) AS n").
		Group("department, status").
		Scan(&fc).Error
	if err != nil {
		return nil, fmt.Errorf("count faculties: %w", err)
	}
	for _, row := range fc {
		stats.TotalFaculty += row.N
		stats.ByStatus[row.Status] += row.N
		d := dept(row.Department)
		d.Total += row.N
		if row.Status == models.FacultyAvailable {
			stats.AvailableNow += row.N
			d.Available += row.N
		}
	}

	var ac []appointmentCount
	err = s.conn(ctx).Table("appointments").
		Select("faculties.department AS department, appointments.status AS status, COUNT(*) AS n").
		Joins("LEFT JOIN faculties ON faculties.id = appointments.faculty_id").
		Group("faculties.department, appointments.status").
		Scan(&ac).Error
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	for _, row := range ac {
		stats.TotalAppointments += row.N
		switch row.Status {
		case models.StatusPending:
			stats.PendingRequests += row.N
		case models.StatusConfirmed:
			stats.ConfirmedAppointments += row.N
		}
		if row.Department != nil {
			dept(*row.Department).Appointments += row.N
		}
	}

	err = s.conn(ctx).Model(&models.Appointment{}).
		Where("date = ?", today).
		Count(&stats.TodayAppointments).Error
	if err != nil {
		return nil, fmt.Errorf("count today's appointments: %w", err)
	}

	stats.AvailabilityRate = percent(stats.AvailableNow, stats.TotalFaculty)
	stats.SuccessRate = percent(stats.ConfirmedAppointments, stats.TotalAppointments)

	stats.Departments = make([]DepartmentStats, 0, len(depts))
	for _, d := range depts {
		d.AvailabilityRate = percent(d.Available, d.Total)
		stats.Departments = append(stats.Departments, *d)
	}
	sort.Slice(stats.Departments, func(i, j int) bool {
		return stats.Departments[i].Department < stats.Departments[j].Department
	})
	return stats, nil
}

func percent(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
