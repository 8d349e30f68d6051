package repository

import (
	"errors"
	"log"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	CreateProfile(profile *domain.MemberProfile) (*domain.MemberProfile, error)
	FindByAccountID(accountID string) (*domain.MemberProfile, error)
	FindByEmail(email string) (*domain.MemberProfile, error)
	SaveProfile(profile *domain.MemberProfile) error
	DeleteByAccountID(accountID string) error
	ListEmergencyContacts() ([]dto.EmergencyContactRow, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateProfile(profile *domain.MemberProfile) (*domain.MemberProfile, error) {
	if profile == nil {
		return nil, errors.New("nil profile")
	}

	if err := r.db.Create(profile).Error; err != nil {
		log.Printf("create profile error: %v", err)
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) FindByAccountID(accountID string) (*domain.MemberProfile, error) {
	profile := &domain.MemberProfile{}

	if err := r.db.First(profile, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) FindByEmail(email string) (*domain.MemberProfile, error) {
	profile := &domain.MemberProfile{}

	if err := r.db.First(profile, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) SaveProfile(profile *domain.MemberProfile) error {
	if profile == nil {
		return errors.New("nil profile")
	}

	if err := r.db.Save(profile).Error; err != nil {
		log.Printf("save profile error: %v", err)
		return err
	}
	return nil
}

func (r *profileRepository) DeleteByAccountID(accountID string) error {
	return r.db.Where("account_id = ?", accountID).Delete(&domain.MemberProfile{}).Error
}

func (r *profileRepository) ListEmergencyContacts() ([]dto.EmergencyContactRow, error) {
	var rows []dto.EmergencyContactRow
	err := r.db.
		Model(&domain.MemberProfile{}).
		Select("account_id, full_name, emergency_contact_name, emergency_contact_phone").
		Order("full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
