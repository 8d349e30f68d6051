package repository

import (
	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Record(entry *domain.AuditLog) error
	ListByEntityRef(entityRef string) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(entry *domain.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditRepository) ListByEntityRef(entityRef string) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog
	err := r.db.Where("entity_ref = ?", entityRef).Order("created_at ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
