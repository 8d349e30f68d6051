package domain

import "gorm.io/gorm"

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MEMBER | ADMIN
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	gorm.Model
}

type MemberRole struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AccountID string `gorm:"type:varchar(64);index;not null" json:"account_id"`
	RoleID    uint   `gorm:"index;not null" json:"role_id"`
	gorm.Model
}
