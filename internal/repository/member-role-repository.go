package repository

import (
	"errors"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"gorm.io/gorm"
)

type MemberRoleRepository interface {
	Assign(accountID string, roleID uint) error
	HasRole(accountID string, roleCode string) (bool, error)
	GetRolesByAccountID(accountID string) ([]domain.Role, error)
}

type memberRoleRepository struct {
	db *gorm.DB
}

func NewMemberRoleRepository(db *gorm.DB) MemberRoleRepository {
	return &memberRoleRepository{db: db}
}

// Assign is idempotent: an existing {account, role} link is left alone so the
// reconciliation worker can retry safely.
func (mr *memberRoleRepository) Assign(accountID string, roleID uint) error {
	if accountID == "" {
		return errors.New("invalid account_id")
	}

	return mr.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.MemberRole{}).
			Where("account_id = ? AND role_id = ?", accountID, roleID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&domain.MemberRole{
			AccountID: accountID,
			RoleID:    roleID,
		}).Error
	})
}

func (mr *memberRoleRepository) HasRole(accountID string, roleCode string) (bool, error) {
	var count int64
	err := mr.db.
		Table("member_roles").
		Joins("JOIN roles ON roles.id = member_roles.role_id").
		Where("member_roles.account_id = ? AND roles.code = ? AND member_roles.deleted_at IS NULL", accountID, roleCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mr *memberRoleRepository) GetRolesByAccountID(accountID string) ([]domain.Role, error) {
	var roles []domain.Role
	err := mr.db.
		Model(&domain.Role{}).
		Joins("JOIN member_roles ON member_roles.role_id = roles.id").
		Where("member_roles.account_id = ?", accountID).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
