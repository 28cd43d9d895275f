package entity

import (
	"time"

	"github.com/google/uuid"
)

type EnquiryStatus string

const (
	EnquiryStatusNew EnquiryStatus = "new"
)

// Enquiry is a message left through the public contact form.
type Enquiry struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	Email     string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string        `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    EnquiryStatus `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}
