package handler

import (
	"github.com/gofiber/fiber/v2"

	"gymapi/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges email and password for a bearer token.
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "credentials"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} errorPayload
// @Router /api/v1/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in credentialsRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		res, err := svc.Login(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// Me returns the caller's profile.
//
// @Summary Current profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.Profile
// @Router /api/v1/me [get]
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Me(c.UserContext(), actor(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	}
}

// VerifyLogin checks credentials without issuing a token. Admin only.
func VerifyLogin(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in credentialsRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		res, err := svc.VerifyLogin(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}
