package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// ResponseValidation returns the per-field messages from the input validator.
func ResponseValidation(ctx *fiber.Ctx, fields map[string]string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation_error",
		"fields": fields,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}
