package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/helper/utils"
	"github.com/stortfordearlybirds/membership-service/internal/services"
)

type MembershipHandler struct {
	signup services.SignupService
}

func NewMembershipHandler(signup services.SignupService) *MembershipHandler {
	return &MembershipHandler{signup: signup}
}

func (h *MembershipHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Post("/membership/apply", h.Apply)
}

// Apply runs the whole signup workflow. Every failure class maps to exactly
// one user-visible message; a notification failure still reports the account
// as created.
func (h *MembershipHandler) Apply(ctx *fiber.Ctx) error {
	var app dto.MembershipApplication
	if err := ctx.BodyParser(&app); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide a valid application")
	}

	result, err := h.signup.SubmitApplication(ctx.Context(), app)

	var ve *services.ValidationError
	switch {
	case err == nil:
		return utils.ResponseSuccess(ctx, fiber.StatusCreated, result)

	case errors.As(err, &ve):
		return utils.ResponseValidation(ctx, ve.Fields)

	case errors.Is(err, services.ErrDuplicateAccount):
		return utils.ResponseError(ctx, fiber.StatusConflict,
			"An account with this email already exists. Try logging in instead.")

	case errors.Is(err, services.ErrNotificationFailed):
		// account exists; the member just never got the credential email
		return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
			"data":    result,
			"warning": "Your account was created but the welcome email could not be sent. Please contact support for your login details.",
		})

	case errors.Is(err, services.ErrPersistenceFailed):
		return utils.ResponseError(ctx, fiber.StatusInternalServerError,
			"We could not finish setting up your membership record. Please contact support before re-applying.")

	default:
		return utils.ResponseError(ctx, fiber.StatusInternalServerError,
			"We could not create your account right now. Please try again later.")
	}
}
