package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-service/internal/api/dto"
	"github.com/spec-kit/department-service/internal/service"
)

// SecurityHandler exposes registration and login.
type SecurityHandler struct {
	auth *service.AuthService
}

// NewSecurityHandler constructs handler.
func NewSecurityHandler(authService *service.AuthService) *SecurityHandler {
	return &SecurityHandler{auth: authService}
}

// Register handles POST /security/Register.
func (h *SecurityHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return write(c, h.auth.Register(c.UserContext(), service.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		PhoneNo:  req.PhoneNo,
	}))
}

// Login handles POST /security/Login.
func (h *SecurityHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return write(c, h.auth.Login(c.UserContext(), req.UsernameOrEmail, req.Password))
}
