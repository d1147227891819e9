package handler

import (
	"errors"

	"go-retail-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc  service.AuthService
	resp *Responder
}

func NewAuthHandler(svc service.AuthService, resp *Responder) *AuthHandler {
	return &AuthHandler{svc: svc, resp: resp}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Login authenticates a user and returns a signed token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	if req.Email == "" || req.Password == "" {
		return h.resp.Fail(c, fiber.StatusBadRequest, "email and password are required")
	}

	res, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			return h.resp.Fail(c, fiber.StatusUnauthorized, err.Error())
		}
		return h.resp.Error(c, err)
	}

	return h.resp.Data(c, fiber.StatusOK, res)
}

// ChangePassword updates the password of the authenticated user.
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.resp.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return h.resp.Fail(c, fiber.StatusBadRequest, "old_password and new_password are required")
	}
	if len(req.NewPassword) < 6 {
		return h.resp.Fail(c, fiber.StatusBadRequest, "new password must be at least 6 characters")
	}

	if err := h.svc.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrWrongPassword) || errors.Is(err, service.ErrInvalidCredentials) {
			return h.resp.Fail(c, fiber.StatusBadRequest, err.Error())
		}
		return h.resp.Error(c, err)
	}

	return h.resp.Data(c, fiber.StatusOK, fiber.Map{"message": "password updated"})
}
