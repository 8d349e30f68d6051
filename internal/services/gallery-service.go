package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/interfaces"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
	"github.com/stortfordearlybirds/membership-service/pkg/imaging"
)

const (
	galleryFolder   = "seb-gallery"
	maxPhotoWidth   = 1600
	photoJPGQuality = 85
)

type GalleryService interface {
	ListPhotos(limit, offset int) ([]domain.Photo, error)
	LikePhoto(photoID uint) (*domain.Photo, error)
	UploadPhoto(ctx context.Context, uploadedBy, title, caption, filename string, raw []byte) (*domain.Photo, error)
}

type galleryService struct {
	photoRepo repository.PhotoRepository
	uploader  interfaces.Uploader
}

func NewGalleryService(photoRepo repository.PhotoRepository, uploader interfaces.Uploader) GalleryService {
	return &galleryService{
		photoRepo: photoRepo,
		uploader:  uploader,
	}
}

func (g *galleryService) ListPhotos(limit, offset int) ([]domain.Photo, error) {
	return g.photoRepo.ListPhotos(limit, offset)
}

func (g *galleryService) LikePhoto(photoID uint) (*domain.Photo, error) {
	if photoID == 0 {
		return nil, repository.ErrPhotoNotFound
	}
	return g.photoRepo.AddLike(photoID)
}

func (g *galleryService) UploadPhoto(ctx context.Context, uploadedBy, title, caption, filename string, raw []byte) (*domain.Photo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if len(raw) == 0 {
		return nil, errors.New("empty image")
	}

	normalized, err := imaging.NormalizeJPEG(raw, maxPhotoWidth, photoJPGQuality)
	if err != nil {
		return nil, fmt.Errorf("unsupported image: %w", err)
	}

	url, err := g.uploader.UploadBytes(ctx, galleryFolder, filename, normalized)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	return g.photoRepo.CreatePhoto(&domain.Photo{
		Title:      title,
		Caption:    strings.TrimSpace(caption),
		ImageURL:   url,
		UploadedBy: uploadedBy,
	})
}
