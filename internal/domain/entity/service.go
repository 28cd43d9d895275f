package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service is a hospital service listed on the public site.
type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	IconURL     string    `gorm:"type:text" json:"icon_url,omitempty"`
	ImageURL    string    `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}
