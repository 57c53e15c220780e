package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// User is profile collaborator data. The messaging core treats it as
// read-only reference data and reads it through a TTL cache.
// IDs are hyphen-free (see utils.NewID); conversation ids embed them.
type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `json:"name"`
	Username string `gorm:"uniqueIndex" json:"username"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Image    string `json:"image"` // avatar URL in blob storage
	Bio      string `json:"bio"`

	Role Role `gorm:"type:text;default:'BUYER'" json:"role"`

	// Shop profile (sellers only)
	ShopName        string `json:"shopName"`
	ShopDescription string `json:"shopDescription"`

	// Presence is derived from the socket registry, never persisted.
	IsOnline bool `gorm:"-" json:"isOnline"`
}
