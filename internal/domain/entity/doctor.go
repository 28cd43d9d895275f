package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is the public record of a doctor. When provisioned by an admin its
// id equals the id of the doctor's account.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Specialty string    `gorm:"type:varchar(255);not null;index" json:"specialty"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	PhotoURL  string    `gorm:"type:text" json:"photo_url,omitempty"`
	IsExpert  bool      `gorm:"not null;default:false" json:"is_expert"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}
