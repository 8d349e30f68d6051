package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stortfordearlybirds/membership-service/internal/api/rest/middleware"
	"github.com/stortfordearlybirds/membership-service/internal/helper"
	"github.com/stortfordearlybirds/membership-service/internal/helper/utils"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
	"github.com/stortfordearlybirds/membership-service/internal/services"
	pkgutils "github.com/stortfordearlybirds/membership-service/pkg/utils"
)

const maxUploadBytes = 10 << 20 // 10MB

type GalleryHandler struct {
	gallery services.GalleryService
	members services.MemberService
	auth    helper.Auth
}

func NewGalleryHandler(gallery services.GalleryService, members services.MemberService, auth helper.Auth) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, members: members, auth: auth}
}

func (h *GalleryHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/photos")
	api.Get("/", h.List)

	authed := api.Group("", middleware.AuthMiddleware(h.auth))
	authed.Post("/:photoID/like", h.Like)
	authed.Post("/", middleware.AdminOnly(h.members), h.Upload)
}

func (h *GalleryHandler) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	photos, err := h.gallery.ListPhotos(limit, offset)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not load photos")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, photos)
}

func (h *GalleryHandler) Like(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("photoID"), 10, 32)
	if err != nil || id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid photo id")
	}

	photo, err := h.gallery.LikePhoto(uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return utils.ResponseError(ctx, fiber.StatusNotFound, "photo not found")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not like photo")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, photo)
}

func (h *GalleryHandler) Upload(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "image file is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "could not read image")
	}
	defer f.Close()

	raw, err := pkgutils.ReadAllLimit(f, maxUploadBytes)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusRequestEntityTooLarge, "image too large (max 10MB)")
	}

	photo, err := h.gallery.UploadPhoto(
		ctx.Context(),
		user.AccountID,
		ctx.FormValue("title"),
		ctx.FormValue("caption"),
		fileHeader.Filename,
		raw,
	)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, photo)
}
