package store

import (
	"context"
	"fmt"
	"math"

	"campus-availability-server/internal/models"
)

// FeedbackSummary aggregates the feedback left for one faculty member.
type FeedbackSummary struct {
	FacultyID     string                            `json:"facultyId"`
	Count         int64                             `json:"count"`
	AverageRating float64                           `json:"averageRating"`
	ByCategory    map[models.FeedbackCategory]int64 `json:"byCategory"`
}

// CreateFeedback stores feedback. A non-nil FacultyID must refer to an existing faculty member.
func (s *Store) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.FacultyID != nil {
		if _, err := s.GetFaculty(ctx, *fb.FacultyID); err != nil {
			return err
		}
	}
	if fb.Category == "" {
		fb.Category = models.FeedbackGeneral
	}
	if err := s.conn(ctx).Create(fb).Error; err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

type categoryCount struct {
	Category models.FeedbackCategory
	N        int64
	Total    int64
}

// FeedbackSummary reports count, average rating and per-category counts for a faculty member.
func (s *Store) FeedbackSummary(ctx context.Context, facultyID string) (*FeedbackSummary, error) {
	if _, err := s.GetFaculty(ctx, facultyID); err != nil {
		return nil, err
	}

	var rows []categoryCount
	err := s.conn(ctx).Model(&models.Feedback{}).
		Select("category, COUNT(*) AS n, SUM(rating) AS total").
		Where("faculty_id = ?", facultyID).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("summarise feedback: %w", err)
	}

	summary := &FeedbackSummary{FacultyID: facultyID, ByCategory: map[models.FeedbackCategory]int64{}}
	var total int64
	for _, row := range rows {
		summary.Count += row.N
		summary.ByCategory[row.Category] = row.N
		total += row.Total
	}
	if summary.Count > 0 {
		avg := float64(total) / float64(summary.Count)
		summary.AverageRating = math.Round(avg*10) / 10
	}
	return summary, nil
}
