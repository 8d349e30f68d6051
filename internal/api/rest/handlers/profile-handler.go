package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stortfordearlybirds/membership-service/internal/api/rest/middleware"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/helper"
	"github.com/stortfordearlybirds/membership-service/internal/helper/utils"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
	"github.com/stortfordearlybirds/membership-service/internal/services"
)

type ProfileHandler struct {
	members services.MemberService
	auth    helper.Auth
}

func NewProfileHandler(members services.MemberService, auth helper.Auth) *ProfileHandler {
	return &ProfileHandler{members: members, auth: auth}
}

func (h *ProfileHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/profile", middleware.AuthMiddleware(h.auth))
	api.Get("/", h.Me)
	api.Put("/", h.Update)
}

func (h *ProfileHandler) Me(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.members.GetProfile(user.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return utils.ResponseError(ctx, fiber.StatusNotFound, "profile not found")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not load profile")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile)
}

func (h *ProfileHandler) Update(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var input dto.UpdateProfile
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.members.UpdateProfile(user.AccountID, input)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return utils.ResponseValidation(ctx, ve.Fields)
		}
		if errors.Is(err, repository.ErrProfileNotFound) {
			return utils.ResponseError(ctx, fiber.StatusNotFound, "profile not found")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not save profile")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile)
}
