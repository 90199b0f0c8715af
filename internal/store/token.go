package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-availability-server/internal/models"

	"gorm.io/gorm"
)

// SaveRefreshToken records an issued refresh token.
func (s *Store) SaveRefreshToken(ctx context.Context, facultyID, token string, expiresAt time.Time) error {
	rt := models.RefreshToken{
		FacultyID: facultyID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.conn(ctx).Create(&rt).Error; err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// RotateRefreshToken revokes a live token and records its replacement in one transaction.
func (s *Store) RotateRefreshToken(ctx context.Context, facultyID, oldToken, newToken string, expiresAt time.Time) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		err := tx.Where("token = ? AND faculty_id = ? AND is_revoked = ? AND expires_at > ?",
			oldToken, facultyID, false, s.now().UTC()).First(&stored).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenNotFound
			}
			return err
		}
		if err := tx.Model(&stored).Update("is_revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(&models.RefreshToken{
			FacultyID: facultyID,
			Token:     newToken,
			ExpiresAt: expiresAt,
		}).Error
	})
}

// RevokeRefreshToken revokes a token owned by facultyID. Unknown, foreign or
// already revoked tokens return ErrTokenNotFound.
func (s *Store) RevokeRefreshToken(ctx context.Context, facultyID, token string) error {
	res := s.conn(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND faculty_id = ? AND is_revoked = ?", token, facultyID, false).
		Updates(map[string]interface{}{"is_revoked": true, "expires_at": s.now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}
