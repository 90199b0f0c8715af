package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// InitialFaculties returns the faculty directory the service starts with.
func InitialFaculties(now time.Time) []Faculty {
	return []Faculty{
		{
			BaseModel:     BaseModel{ID: "1"},
			Name:          "Dr. Rajesh Kumar",
			Department:    "Computer Science & Engineering",
			Designation:   "Professor",
			Email:         "rajesh.kumar@vit.ac.in",
			Phone:         "+91 9876543210",
			CabinNumber:   "TT-101",
			Status:        FacultyAvailable,
			StatusMessage: "Available for academic queries",
			OfficeHours:   OfficeHours{Start: "09:00", End: "17:00", Days: slices.Clone(weekdays)},
			LastUpdated:   now,
		},
		{
			BaseModel:     BaseModel{ID: "2"},
			Name:          "Dr. Priya Sharma",
			Department:    "Electronics & Communication",
			Designation:   "Associate Professor",
			Email:         "priya.sharma@vit.ac.in",
			Phone:         "+91 9876543211",
			CabinNumber:   "TT-205",
			Status:        FacultyInMeeting,
			StatusMessage: "In departmental meeting - Back by 3:00 PM",
			OfficeHours:   OfficeHours{Start: "10:00", End: "16:00", Days: slices.Clone(weekdays)},
			LastUpdated:   now,
		},
		{
			BaseModel:     BaseModel{ID: "3"},
			Name:          "Dr. Arjun Patel",
			Department:    "Mechanical Engineering",
			Designation:   "Assistant Professor",
			Email:         "arjun.patel@vit.ac.in",
			Phone:         "+91 9876543212",
			CabinNumber:   "TT-308",
			Status:        FacultyBusy,
			StatusMessage: "Reviewing research papers",
			OfficeHours:   OfficeHours{Start: "11:00", End: "18:00", Days: slices.Clone(weekdays)},
			LastUpdated:   now,
		},
		{
			BaseModel:     BaseModel{ID: "4"},
			Name:          "Dr. Kavitha Reddy",
			Department:    "Information Technology",
			Designation:   "Professor",
			Email:         "kavitha.reddy@vit.ac.in",
			Phone:         "+91 9876543213",
			CabinNumber:   "TT-412",
			Status:        FacultyAway,
			StatusMessage: "At conference - Back tomorrow",
			OfficeHours:   OfficeHours{Start: "09:30", End: "17:30", Days: slices.Clone(weekdays)},
			LastUpdated:   now,
		},
		{
			BaseModel:     BaseModel{ID: "5"},
			Name:          "Dr. Sanjay Gupta",
			Department:    "Electrical Engineering",
			Designation:   "Associate Professor",
			Email:         "sanjay.gupta@vit.ac.in",
			Phone:         "+91 9876543214",
			CabinNumber:   "TT-515",
			Status:        FacultyAvailable,
			StatusMessage: "Available for project guidance",
			OfficeHours:   OfficeHours{Start: "08:00", End: "16:00", Days: slices.Clone(weekdays)},
			LastUpdated:   now,
		},
	}
}

// SeedFaculties inserts the initial directory when the faculty table is empty.
// It returns the number of rows inserted.
func SeedFaculties(db *gorm.DB, password string) (int, error) {
	var count int64
	if err := db.Model(&Faculty{}).Where("role = ?", RoleFaculty).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count faculties: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	faculties := InitialFaculties(time.Now().UTC())
	for i := range faculties {
		faculties[i].Role = RoleFaculty
		if err := faculties[i].SetPassword(password); err != nil {
			return 0, fmt.Errorf("hash seed password: %w", err)
		}
	}
	if err := db.Create(&faculties).Error; err != nil {
		return 0, fmt.Errorf("insert faculties: %w", err)
	}
	return len(faculties), nil
}

// SeedAdmin creates the admin account, or resets its password if it already exists.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var admin Faculty
	err := db.Where("email = ?", email).First(&admin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if admin.ID != "" {
		admin.Role = RoleAdmin
		return db.Save(&admin).Error
	}

	admin = Faculty{
		Name:          "Administrator",
		Department:    "Administration",
		Designation:   "Administrator",
		Email:         email,
		Password:      admin.Password,
		Status:        FacultyAway,
		StatusMessage: "",
		OfficeHours:   OfficeHours{Days: []string{}},
		LastUpdated:   time.Now().UTC(),
		Role:          RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
