package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/middleware"
	"github.com/mkkmani/musicbackend/internal/response"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	studentService *service.PrincipalService
	adminService   *service.PrincipalService
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	studentService *service.PrincipalService,
	adminService *service.PrincipalService,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		studentService: studentService,
		adminService:   adminService,
		log:            log.With().Str("component", "auth_handler").Logger(),
	}
}

// StudentLogin godoc
// POST /studentLogin
// Matches username against a student's email or mobile and returns a student JWT.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	loginPrincipal(c, h.studentService, h.log)
}

// AdminLogin godoc
// POST /admin-login
// Matches username against an admin's email or mobile and returns an admin JWT.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	loginPrincipal(c, h.adminService, h.log)
}

// GetStudentProfile godoc
// GET /student/me
// Returns the profile of the currently authenticated student.
func (h *AuthHandler) GetStudentProfile(c *gin.Context) {
	h.profile(c, h.studentService, "student")
}

// GetAdminProfile godoc
// GET /admin/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	h.profile(c, h.adminService, "admin")
}

func (h *AuthHandler) profile(c *gin.Context, svc *service.PrincipalService, key string) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	p, err := svc.GetByID(c.Request.Context(), claims.PrincipalID)
	if err != nil {
		if errors.Is(err, service.ErrPrincipalNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		failInternal(c, h.log, err, "Profile lookup failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{key: p})
}
