package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists every valid appointment status.
var AppointmentStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// transitions maps a target status to the statuses it may be reached from.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusConfirmed: {StatusPending},
	StatusCancelled: {StatusPending, StatusConfirmed},
}

// CanTransition reports whether an appointment in status from may move to status to.
// Re-applying the current status is allowed and changes nothing.
func CanTransition(from, to AppointmentStatus) bool {
	if from == to {
		return to.Valid()
	}
	for _, allowed := range transitions[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

// Appointment represents a student's meeting request with a faculty member
type Appointment struct {
	BaseModel
	FacultyID    string            `gorm:"size:36;index;not null" json:"facultyId"`
	StudentName  string            `gorm:"size:150;not null" json:"studentName"`
	StudentEmail string            `gorm:"size:255;index;not null" json:"studentEmail"`
	Date         string            `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	Time         string            `gorm:"size:5;not null" json:"time"`        // HH:MM
	Purpose      string            `gorm:"type:text" json:"purpose"`
	Status       AppointmentStatus `gorm:"size:20;default:'pending';index" json:"status"`

	Faculty Faculty `gorm:"foreignKey:FacultyID" json:"-"`
}
