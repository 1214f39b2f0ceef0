package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/service"
)

type settingsRequest struct {
	Type string          `json:"type" validate:"required,oneof=notifications privacy account two_factor"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// GetSettings returns the caller's settings, creating defaults on first use.
func GetSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.Get(c.UserContext(), actor(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(s)
	}
}

// UpdateSettings replaces one settings section.
//
// @Summary Update settings
// @Tags settings
// @Security BearerAuth
// @Param body body settingsRequest true "section and data"
// @Success 200 {object} model.UserSettings
// @Router /api/v1/settings [put]
func UpdateSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in settingsRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		s, err := svc.Update(c.UserContext(), actor(c), in.Type, in.Data)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(s)
	}
}
