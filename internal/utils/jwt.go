package utils

import (
	"fmt"
	"time"

	"campus-availability-server/internal/config"
	"campus-availability-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims.
type Claims struct {
	FacultyID string      `json:"faculty_id"`
	Role      models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateTokens generates both access and refresh tokens for a faculty account.
func GenerateTokens(faculty *models.Faculty, cfg *config.Config) (accessToken string, refreshToken string, err error) {
	accessToken, err = signToken(faculty, time.Duration(cfg.JWTExpirationMinutes)*time.Minute, cfg.JWTSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err = signToken(faculty, time.Duration(cfg.JWTRefreshExpirationHours)*time.Hour, cfg.JWTRefreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func signToken(faculty *models.Faculty, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := &Claims{
		FacultyID: faculty.ID,
		Role:      faculty.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   faculty.ID,
			// jti keeps tokens issued within the same second distinct
			ID: uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
