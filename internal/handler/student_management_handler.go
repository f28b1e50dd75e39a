package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/rs/zerolog"
)

// StudentManagementHandler handles admin-only student account creation.
type StudentManagementHandler struct {
	studentService *service.PrincipalService
	log            zerolog.Logger
}

// NewStudentManagementHandler creates a new StudentManagementHandler.
func NewStudentManagementHandler(studentService *service.PrincipalService, log zerolog.Logger) *StudentManagementHandler {
	return &StudentManagementHandler{
		studentService: studentService,
		log:            log.With().Str("component", "student_management_handler").Logger(),
	}
}

// AddStudent godoc
// POST /addStudent
// Registers a student. Fails with 409 if the mobile or email is taken.
func (h *StudentManagementHandler) AddStudent(c *gin.Context) {
	registerPrincipal(c, h.studentService, "student", h.log)
}
