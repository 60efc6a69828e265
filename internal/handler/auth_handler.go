package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/internal/service"
)

// AuthServiceInterface defines the interface for login.
type AuthServiceInterface interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service   AuthServiceInterface
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthServiceInterface, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}

	resp, err := h.service.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn().Str("email", req.Email).Str("ip", c.IP()).Msg("login failed")
		}
		return respondServiceError(c, err, "failed to log in")
	}

	return respondData(c, fiber.StatusOK, resp)
}
