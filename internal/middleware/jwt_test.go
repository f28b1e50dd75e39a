package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/config"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/response"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuth() *service.AuthService {
	return service.NewAuthService(&config.Config{
		StudentJWTSecret: "student-secret-0123456789",
		AdminJWTSecret:   "admin-secret-0123456789",
		JWTIssuer:        "musicbackend-test",
		JWTExpiry:        time.Hour,
	})
}

// expiredVerifier always reports an expired token.
type expiredVerifier struct{}

func (expiredVerifier) VerifyToken(string, model.Role) (*service.Claims, error) {
	return nil, service.ErrTokenExpired
}

func newGateRouter(gate gin.HandlerFunc, reached *bool) *gin.Engine {
	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.POST("/guarded", gate, func(c *gin.Context) {
		*reached = true
		claims := GetClaims(c)
		response.Success(c, http.StatusOK, gin.H{"name": claims.Name})
	})
	return r
}

func doRequest(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdminJWT(t *testing.T) {
	auth := newTestAuth()
	adminToken, err := auth.IssueToken(&model.Principal{ID: 1, Name: "A", Role: model.RoleAdmin})
	require.NoError(t, err)
	studentToken, err := auth.IssueToken(&model.Principal{ID: 1, Name: "S", Role: model.RoleStudent})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, string(response.ErrTokenRequired)},
		{"wrong scheme", "Basic " + adminToken, http.StatusUnauthorized, string(response.ErrTokenRequired)},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, string(response.ErrTokenRequired)},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, string(response.ErrTokenInvalid)},
		{"student token", "Bearer " + studentToken, http.StatusUnauthorized, string(response.ErrTokenInvalid)},
		{"admin token", "Bearer " + adminToken, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			w := doRequest(newGateRouter(RequireAdminJWT(auth), &reached), tt.header)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestRequireStudentJWT_RejectsAdminToken(t *testing.T) {
	auth := newTestAuth()
	adminToken, err := auth.IssueToken(&model.Principal{ID: 1, Name: "A", Role: model.RoleAdmin})
	require.NoError(t, err)
	studentToken, err := auth.IssueToken(&model.Principal{ID: 2, Name: "S", Role: model.RoleStudent})
	require.NoError(t, err)

	reached := false
	w := doRequest(newGateRouter(RequireStudentJWT(auth), &reached), "Bearer "+adminToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)

	w = doRequest(newGateRouter(RequireStudentJWT(auth), &reached), "Bearer "+studentToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.Contains(t, w.Body.String(), `"name":"S"`)
}

func TestRequireAdminJWT_ExpiredToken(t *testing.T) {
	reached := false
	w := doRequest(newGateRouter(RequireAdminJWT(expiredVerifier{}), &reached), "Bearer whatever")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrTokenExpired))
	assert.False(t, reached)
}

func TestGetClaims_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetClaims(c))
}
