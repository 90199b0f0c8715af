package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-availability-server/internal/models"

	"gorm.io/gorm"
)

// FacultyFilter narrows a directory listing. Empty or "all" fields match everything.
type FacultyFilter struct {
	Search     string
	Department string
	Status     string
	Limit      int
}

func (s *Store) directory(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Model(&models.Faculty{}).Where("role = ?", models.RoleFaculty)
}

// ListFaculties returns the directory filtered by f, ordered by name.
func (s *Store) ListFaculties(ctx context.Context, f FacultyFilter) ([]models.Faculty, error) {
	query := s.directory(ctx).Order("name asc")

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(department) LIKE ? OR LOWER(designation) LIKE ? OR LOWER(cabin_number) LIKE ?",
			like, like, like, like,
		)
	}
	if f.Department != "" && f.Department != "all" {
		query = query.Where("department = ?", f.Department)
	}
	if f.Status != "" && f.Status != "all" {
		if !models.FacultyStatus(f.Status).Valid() {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var faculties []models.Faculty
	if err := query.Find(&faculties).Error; err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	return faculties, nil
}

// GetFaculty returns a single faculty member by id. Admin accounts are not part
// of the directory and are reported as ErrFacultyNotFound.
func (s *Store) GetFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	var faculty models.Faculty
	if err := s.directory(ctx).First(&faculty, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("get faculty %s: %w", id, err)
	}
	return &faculty, nil
}

// Account returns any account, admin or faculty, by id.
func (s *Store) Account(ctx context.Context, id string) (*models.Faculty, error) {
	var account models.Faculty
	if err := s.conn(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	return &account, nil
}

// FacultyByEmail looks up an account by its login email.
func (s *Store) FacultyByEmail(ctx context.Context, email string) (*models.Faculty, error) {
	var faculty models.Faculty
	if err := s.conn(ctx).Where("email = ?", strings.TrimSpace(email)).First(&faculty).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("faculty by email: %w", err)
	}
	return &faculty, nil
}

// Departments returns the distinct departments in the directory, sorted.
func (s *Store) Departments(ctx context.Context) ([]string, error) {
	var departments []string
	err := s.directory(ctx).
		Distinct("department").
		Order("department asc").
		Pluck("department", &departments).Error
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// UpdateFacultyStatus sets a faculty member's status and message and stamps lastUpdated.
func (s *Store) UpdateFacultyStatus(ctx context.Context, id string, status models.FacultyStatus, message string) (*models.Faculty, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var faculty models.Faculty
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("role = ?", models.RoleFaculty).First(&faculty, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFacultyNotFound
			}
			return err
		}

		now := s.now().UTC()
		// map form so an empty message is still written
		err = tx.Model(&faculty).Updates(map[string]interface{}{
			"status":         status,
			"status_message": message,
			"last_updated":   now,
		}).Error
		if err != nil {
			return err
		}
		faculty.Status = status
		faculty.StatusMessage = message
		faculty.LastUpdated = now
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFacultyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update faculty status: %w", err)
	}
	return &faculty, nil
}

// ResetPassword replaces the password of the account with the given email.
func (s *Store) ResetPassword(ctx context.Context, email, password string) error {
	faculty, err := s.FacultyByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := faculty.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.conn(ctx).Model(faculty).Update("password", faculty.Password).Error; err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	return nil
}
