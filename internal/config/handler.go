package config

import "github.com/gofiber/fiber/v2"

// GET /api/settings/defaults
// Ayar panelinin başlangıç değerleri (SETTINGS_FILE ile birleştirilmiş)
func DefaultsHandler(s *Settings) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s)
	}
}
