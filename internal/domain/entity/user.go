package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is an identity known to the identity provider. Credentials live
// here; everything the application knows about the person lives in UserProfile.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email}
}

// Identity is an authenticated principal.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// UserProfile is the application record of an identity. There is exactly one
// per identity, keyed by the identity id.
type UserProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Name      string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserProfile) TableName() string {
	return "users"
}

func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p *UserProfile) IsDoctor() bool {
	return p.Role == RoleDoctor
}
