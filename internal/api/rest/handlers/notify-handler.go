package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/interfaces"
	"github.com/stortfordearlybirds/membership-service/internal/services"
)

// NotifyHandler exposes the mail endpoints the public site calls directly,
// outside the signup saga. They answer CORS preflight for any origin because
// the form may be hosted separately from this service.
type NotifyHandler struct {
	mailer interfaces.Mailer
}

func NewNotifyHandler(mailer interfaces.Mailer) *NotifyHandler {
	return &NotifyHandler{mailer: mailer}
}

func (h *NotifyHandler) SetupRoutes(app *fiber.App) {
	fn := app.Group("/functions", notifyCORS)
	fn.Options("/*", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})
	fn.Post("/send-membership-application", h.SendApplication)
	fn.Post("/send-welcome-email", h.SendWelcome)
}

func notifyCORS(ctx *fiber.Ctx) error {
	ctx.Set("Access-Control-Allow-Origin", "*")
	ctx.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	return ctx.Next()
}

func (h *NotifyHandler) SendApplication(ctx *fiber.Ctx) error {
	var app dto.MembershipApplication
	if err := ctx.BodyParser(&app); err != nil {
		return notifyError(ctx, fiber.StatusBadRequest, "invalid JSON payload")
	}

	app.Email = strings.ToLower(strings.TrimSpace(app.Email))
	if msg := services.ValidateApplicationLengths(app); msg != "" {
		return notifyError(ctx, fiber.StatusBadRequest, msg)
	}

	id, err := h.mailer.SendApplicationEmail(ctx.Context(), app)
	if err != nil {
		return notifyError(ctx, fiber.StatusInternalServerError, "failed to send application email")
	}
	return ctx.Status(fiber.StatusOK).JSON(dto.NotifyResponse{Success: true, MessageID: id})
}

func (h *NotifyHandler) SendWelcome(ctx *fiber.Ctx) error {
	var req dto.WelcomeEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return notifyError(ctx, fiber.StatusBadRequest, "invalid JSON payload")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	switch {
	case req.Email == "" || req.FullName == "" || req.Password == "":
		return notifyError(ctx, fiber.StatusBadRequest, "email, fullName and password are required")
	case len(req.Email) > services.MaxEmailLen:
		return notifyError(ctx, fiber.StatusBadRequest, "Email too long")
	case len(req.FullName) > 2*services.MaxNameLen:
		return notifyError(ctx, fiber.StatusBadRequest, "Name too long")
	}

	id, err := h.mailer.SendWelcomeEmail(ctx.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		return notifyError(ctx, fiber.StatusInternalServerError, "failed to send welcome email")
	}
	return ctx.Status(fiber.StatusOK).JSON(dto.NotifyResponse{Success: true, MessageID: id})
}

func notifyError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{"error": msg})
}
