package models

// FeedbackCategory groups feedback by the part of the service it concerns.
type FeedbackCategory string

const (
	FeedbackGeneral      FeedbackCategory = "general"
	FeedbackAvailability FeedbackCategory = "availability"
	FeedbackAppointment  FeedbackCategory = "appointment"
	FeedbackInterface    FeedbackCategory = "interface"
	FeedbackPerformance  FeedbackCategory = "performance"
)

// Feedback is a student's rating, optionally about a specific faculty member.
type Feedback struct {
	BaseModel
	FacultyID *string          `gorm:"size:36;index" json:"facultyId,omitempty"`
	Rating    int              `gorm:"not null" json:"rating"`
	Category  FeedbackCategory `gorm:"size:20;default:'general'" json:"category"`
	Comment   string           `gorm:"type:text" json:"comment"`
}
