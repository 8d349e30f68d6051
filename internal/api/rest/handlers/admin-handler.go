package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stortfordearlybirds/membership-service/internal/api/rest/middleware"
	"github.com/stortfordearlybirds/membership-service/internal/helper"
	"github.com/stortfordearlybirds/membership-service/internal/helper/utils"
	"github.com/stortfordearlybirds/membership-service/internal/services"
)

type AdminHandler struct {
	members services.MemberService
	auth    helper.Auth
}

func NewAdminHandler(members services.MemberService, auth helper.Auth) *AdminHandler {
	return &AdminHandler{members: members, auth: auth}
}

func (h *AdminHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/admin",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(h.members),
	)
	api.Get("/members", h.ListMembers)
}

// ListMembers backs the admin emergency-contact table.
func (h *AdminHandler) ListMembers(ctx *fiber.Ctx) error {
	rows, err := h.members.ListEmergencyContacts()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not load members")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, rows)
}
