package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/response"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/mkkmani/musicbackend/internal/validator"
	"github.com/rs/zerolog"
)

// failInternal logs err and replies with a generic 500. Store and hashing
// details never reach the client.
func failInternal(c *gin.Context, log zerolog.Logger, err error, msg string) {
	log.Error().
		Err(err).
		Str("request_id", response.RequestID(c)).
		Msg(msg)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// failBinding replies 400. Bodies that are not valid JSON get INVALID_PAYLOAD,
// rule violations get VALIDATION_ERROR with per-field messages.
func failBinding(c *gin.Context, fields map[string]string) {
	code := response.ErrValidation
	if _, ok := fields[validator.DetailField]; ok {
		code = response.ErrInvalidPayload
	}
	response.FailWithFields(c, http.StatusBadRequest, code, fields)
}

// registerPrincipal binds a registration payload and runs it through svc.
// On success the new account is returned under key.
func registerPrincipal(c *gin.Context, svc *service.PrincipalService, key string, log zerolog.Logger) {
	var req model.RegisterPrincipalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBinding(c, fields)
		return
	}

	p, err := svc.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		failInternal(c, log, err, "Registration failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{key: p})
}

// loginPrincipal binds a login payload and issues a token from svc.
func loginPrincipal(c *gin.Context, svc *service.PrincipalService, log zerolog.Logger) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBinding(c, fields)
		return
	}

	token, _, err := svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		failInternal(c, log, err, "Login failed")
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{JWTToken: token})
}
