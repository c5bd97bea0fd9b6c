package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a rateable storefront, optionally owned by a
// store_owner user.
type Store struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Email     string     `gorm:"type:text;not null;uniqueIndex"`
	Address   string     `gorm:"column:address;not null;default:''"`
	OwnerID   *uuid.UUID `gorm:"column:owner_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
