package domain

import "gorm.io/gorm"

type Photo struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"type:varchar(200);not null" json:"title"`
	Caption    string `gorm:"type:varchar(500)" json:"caption"`
	ImageURL   string `gorm:"type:text;not null" json:"image_url"`
	Likes      uint   `gorm:"not null;default:0" json:"likes"`
	UploadedBy string `gorm:"type:varchar(64);index" json:"uploaded_by"`
	gorm.Model
}
