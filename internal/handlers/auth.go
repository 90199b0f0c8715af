package handlers

import (
	"errors"
	"time"

	"campus-availability-server/internal/config"
	"campus-availability-server/internal/middleware"
	"campus-availability-server/internal/models"
	"campus-availability-server/internal/store"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Store *store.Store
	Cfg   *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(st *store.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Store: st, Cfg: cfg}
}

// LoginRequest represents the request body for faculty login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string                  `json:"accessToken"`
	RefreshToken string                  `json:"refreshToken"`
	Faculty      models.FacultySanitized `json:"faculty"`
}

// Login handles faculty login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	faculty, err := h.Store.FacultyByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrFacultyNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !faculty.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(faculty, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}
	if err := h.Store.SaveRefreshToken(c.Request.Context(), faculty.ID, refreshToken, h.refreshExpiry()); err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	h.setRefreshCookie(c, refreshToken)
	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Faculty:      faculty.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken exchanges a live refresh token for a new pair and revokes the old one.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	// The cookie wins; the body is accepted for clients that cannot hold cookies.
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		token = req.RefreshToken
	}

	claims, err := utils.ValidateToken(token, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token structure or signature: "+err.Error())
		return
	}

	faculty, err := h.Store.Account(c.Request.Context(), claims.FacultyID)
	if err != nil {
		utils.Unauthorized(c, "Account associated with token not found")
		return
	}

	accessToken, newRefresh, err := utils.GenerateTokens(faculty, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate new tokens: "+err.Error())
		return
	}
	if err := h.Store.RotateRefreshToken(c.Request.Context(), faculty.ID, token, newRefresh, h.refreshExpiry()); err != nil {
		respondStoreError(c, err, "rotate refresh token")
		return
	}

	h.setRefreshCookie(c, newRefresh)
	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	})
}

// LogoutRequest represents the request body for logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the refresh token and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(refreshCookie)
	if token == "" {
		var req LogoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request payload: "+err.Error())
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	id, ok := middleware.GetFacultyIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Not authenticated")
		return
	}

	// only the caller's own tokens can be revoked
	err := h.Store.RevokeRefreshToken(c.Request.Context(), id, token)
	if err != nil && !errors.Is(err, store.ErrTokenNotFound) {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", !h.Cfg.IsDevelopment(), true)
	if errors.Is(err, store.ErrTokenNotFound) {
		utils.Success(c, "Logout successful (token not found or already invalid).", nil)
		return
	}
	utils.Success(c, "Logout successful. Refresh token has been invalidated.", nil)
}

// GetProfile returns the logged-in account.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	id, ok := middleware.GetFacultyIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Not authenticated")
		return
	}

	account, err := h.Store.Account(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "fetch profile")
		return
	}

	utils.Success(c, "Profile fetched successfully", account.Sanitize())
}

// ResetPasswordRequest is the body of an admin password reset.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword sets a new password on any account. Admin only.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	account, err := h.Store.Account(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "fetch account")
		return
	}

	if err := h.Store.ResetPassword(c.Request.Context(), account.Email, req.Password); err != nil {
		respondStoreError(c, err, "reset password")
		return
	}

	utils.Success(c, "Password reset successfully", account.Sanitize())
}

func (h *AuthHandler) refreshExpiry() time.Time {
	return h.Store.Now().UTC().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(
		refreshCookie,
		token,
		h.Cfg.JWTRefreshExpirationHours*60*60,
		"/",
		"",
		!h.Cfg.IsDevelopment(),
		true,
	)
}
