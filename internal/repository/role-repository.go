package repository

import (
	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByCode(code string) (*domain.Role, error)
	List() ([]domain.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByCode(code string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List() ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.Order("code ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
