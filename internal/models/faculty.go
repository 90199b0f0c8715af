package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// FacultyStatus is the availability state shown to students.
type FacultyStatus string

const (
	FacultyAvailable FacultyStatus = "available"
	FacultyBusy      FacultyStatus = "busy"
	FacultyAway      FacultyStatus = "away"
	FacultyInMeeting FacultyStatus = "in-meeting"
)

// FacultyStatuses lists every valid status in display order.
var FacultyStatuses = []FacultyStatus{FacultyAvailable, FacultyBusy, FacultyAway, FacultyInMeeting}

// Valid reports whether s is one of the known statuses.
func (s FacultyStatus) Valid() bool {
	for _, known := range FacultyStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Role enum
type Role string

const (
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// OfficeHours is the weekly window a faculty member receives students.
type OfficeHours struct {
	Start string   `gorm:"size:5" json:"start"`
	End   string   `gorm:"size:5" json:"end"`
	Days  []string `gorm:"serializer:json;type:text" json:"days"`
}

// Faculty represents a staff member whose availability is tracked
type Faculty struct {
	BaseModel
	Name          string        `gorm:"size:150;not null;index" json:"name"`
	Department    string        `gorm:"size:150;index" json:"department"`
	Designation   string        `gorm:"size:100" json:"designation"`
	Email         string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string        `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Phone         string        `gorm:"size:30" json:"phone"`
	CabinNumber   string        `gorm:"size:30" json:"cabinNumber"`
	Status        FacultyStatus `gorm:"size:20;default:'available';index" json:"status"`
	StatusMessage string        `gorm:"size:500" json:"statusMessage"`
	OfficeHours   OfficeHours   `gorm:"embedded;embeddedPrefix:office_hours_" json:"officeHours"`
	LastUpdated   time.Time     `json:"lastUpdated"`
	Role          Role          `gorm:"size:20;default:'faculty'" json:"role"`

	Appointments []Appointment `gorm:"foreignKey:FacultyID" json:"-"`
}

// FacultySanitized represents the faculty data that is safe to send in API responses.
type FacultySanitized struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Department    string        `json:"department"`
	Designation   string        `json:"designation"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	CabinNumber   string        `json:"cabinNumber"`
	Status        FacultyStatus `json:"status"`
	StatusMessage string        `json:"statusMessage"`
	OfficeHours   OfficeHours   `json:"officeHours"`
	LastUpdated   time.Time     `json:"lastUpdated"`
	Role          Role          `json:"role,omitempty"`
}

// SetPassword hashes a password and sets it on the faculty account
func (f *Faculty) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	f.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the account's hashed password
func (f *Faculty) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(f.Password), []byte(password))
	return err == nil
}

// Sanitize creates a FacultySanitized struct, excluding credentials.
func (f *Faculty) Sanitize() FacultySanitized {
	days := f.OfficeHours.Days
	if days == nil {
		days = []string{}
	}
	return FacultySanitized{
		ID:            f.ID,
		Name:          f.Name,
		Department:    f.Department,
		Designation:   f.Designation,
		Email:         f.Email,
		Phone:         f.Phone,
		CabinNumber:   f.CabinNumber,
		Status:        f.Status,
		StatusMessage: f.StatusMessage,
		OfficeHours: OfficeHours{
			Start: f.OfficeHours.Start,
			End:   f.OfficeHours.End,
			Days:  days,
		},
		LastUpdated: f.LastUpdated,
		Role:        f.Role,
	}
}

// SanitizeAll maps Sanitize over a slice.
func SanitizeAll(faculties []Faculty) []FacultySanitized {
	out := make([]FacultySanitized, len(faculties))
	for i := range faculties {
		out[i] = faculties[i].Sanitize()
	}
	return out
}
