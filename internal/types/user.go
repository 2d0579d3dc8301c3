package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserRoleTenant   = "tenant"
	UserRoleLandlord = "landlord"
	UserRoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FullName  string    `gorm:"not null;column:full_name" json:"full_name"`
	Role      string    `gorm:"not null;column:role;index" json:"role"`
	Status    string    `gorm:"not null;default:'active';column:status" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
