package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/helper/utils"
	"github.com/stortfordearlybirds/membership-service/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")
	api.Post("/send-code", h.SendCode)
	api.Post("/verify-code", h.VerifyCode)
}

func (h *AuthHandler) SendCode(ctx *fiber.Ctx) error {
	var req dto.SendCodeRequest
	if err := ctx.BodyParser(&req); err != nil || req.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email is required")
	}

	err := h.auth.SendLoginCode(ctx.Context(), req.Email)
	switch {
	case err == nil:
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "Check your email for the verification code")

	case errors.Is(err, services.ErrRateLimited):
		// the message carries "after N seconds" for the client countdown
		return utils.ResponseError(ctx, fiber.StatusTooManyRequests, err.Error())

	case errors.Is(err, services.ErrUnknownMember):
		// same response as success so the endpoint cannot be used to
		// probe which emails hold accounts
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "Check your email for the verification code")

	default:
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not send the code, please try again")
	}
}

func (h *AuthHandler) VerifyCode(ctx *fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := ctx.BodyParser(&req); err != nil || req.Email == "" || req.Code == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and code are required")
	}

	resp, err := h.auth.VerifyLoginCode(ctx.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLoginCode) {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid or expired code. Please try again.")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "verification failed, please try again")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}
