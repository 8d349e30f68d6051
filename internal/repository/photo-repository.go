package repository

import (
	"errors"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"gorm.io/gorm"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepository interface {
	CreatePhoto(photo *domain.Photo) (*domain.Photo, error)
	ListPhotos(limit, offset int) ([]domain.Photo, error)
	AddLike(photoID uint) (*domain.Photo, error)
}

type photoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) CreatePhoto(photo *domain.Photo) (*domain.Photo, error) {
	if photo == nil {
		return nil, errors.New("nil photo")
	}
	if err := r.db.Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

func (r *photoRepository) ListPhotos(limit, offset int) ([]domain.Photo, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var photos []domain.Photo
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) AddLike(photoID uint) (*domain.Photo, error) {
	var photo domain.Photo
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&photo, photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}
			return err
		}
		if err := tx.Model(&photo).Update("likes", gorm.Expr("likes + 1")).Error; err != nil {
			return err
		}
		photo.Likes++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
