package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/rs/zerolog"
)

// AdminUserHandler handles admin account creation by existing admins.
type AdminUserHandler struct {
	adminService *service.PrincipalService
	log          zerolog.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(adminService *service.PrincipalService, log zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		adminService: adminService,
		log:          log.With().Str("component", "admin_user_handler").Logger(),
	}
}

// AddAdmin godoc
// POST /add-admin
// Registers another admin. Fails with 409 if the mobile or email is taken.
func (h *AdminUserHandler) AddAdmin(c *gin.Context) {
	registerPrincipal(c, h.adminService, "admin", h.log)
}
