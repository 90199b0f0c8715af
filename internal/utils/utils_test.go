package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-availability-server/internal/config"
	"campus-availability-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access",
		JWTRefreshSecret:          "refresh",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 1,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	faculty := &models.Faculty{Role: models.RoleFaculty}
	faculty.ID = "1"

	access, refresh, err := GenerateTokens(faculty, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.FacultyID)
	assert.Equal(t, models.RoleFaculty, claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	_, err = ValidateToken(access, cfg.JWTRefreshSecret)
	assert.Error(t, err, "access token must not validate with the refresh secret")

	claims, err = ValidateToken(refresh, cfg.JWTRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)

	_, second, err := GenerateTokens(faculty, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, second)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "secret")
	assert.Error(t, err)
}

type slotRequest struct {
	Status string `json:"status" binding:"required,appointmentstatus"`
	Time   string `json:"time" binding:"omitempty,hhmm"`
	Mode   string `json:"mode" binding:"omitempty,facultystatus"`
	Note   string `json:"note" binding:"omitempty,notblank"`
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"status":"confirmed","time":"09:30","mode":"in-meeting"}`, true},
		{"bad status", `{"status":"done"}`, false},
		{"missing status", `{}`, false},
		{"bad time", `{"status":"pending","time":"24:00"}`, false},
		{"short time", `{"status":"pending","time":"9:30"}`, false},
		{"bad faculty status", `{"status":"pending","mode":"asleep"}`, false},
		{"malformed json", `{"status":`, false},
		{"blank note", `{"status":"pending","note":"   "}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req slotRequest
			got := BindAndValidate(c, &req)
			assert.Equal(t, tt.ok, got)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestResponseHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*gin.Context)
		code int
	}{
		{"conflict", func(c *gin.Context) { Conflict(c, "slot taken") }, http.StatusConflict},
		{"too many", func(c *gin.Context) { TooManyRequests(c, "slow down") }, http.StatusTooManyRequests},
		{"created", func(c *gin.Context) { Created(c, "ok", gin.H{"id": "1"}) }, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.fn(c)

			assert.Equal(t, tt.code, w.Code)
			var body ResponseData
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Status)
		})
	}
}
