package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin represents a dashboard operator account.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:varchar(255);not null;uniqueIndex"` // Unique login name.
	Password string `gorm:"type:text;not null"`                     // Bcrypt hash.

	Active       bool `gorm:"not null"` // Whether the admin can sign in.
	IsSuperAdmin bool `gorm:"not null"` // Grants every permission when true.

	Permissions datatypes.JSON `gorm:"type:json"` // Permission keys as a JSON array.

	TOTPSecret string `gorm:"type:text"` // Optional TOTP secret; login requires a code when set.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
