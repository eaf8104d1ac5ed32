package job

import (
	"errors"

	"restock-backend/internal/apperr"
	"restock-backend/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler: fiber.Config.ErrorHandler. Kullanıcı kaynaklı hatalar 400 olarak
// açıklamasıyla döner, diğerleri loglanıp genel mesajla 500 döner.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}
	if apperr.IsClientError(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logging.L().Error().Err(err).Str("path", c.Path()).Msg("beklenmeyen hata")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Beklenmeyen sunucu hatası",
	})
}
