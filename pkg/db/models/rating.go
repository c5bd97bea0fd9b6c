package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating captures one user's score for one store. The composite unique
// index keeps a single row per (user, store) pair and backs the upsert
// the submit path relies on.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_ratings_user_store"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_ratings_user_store"`
	Rating    int       `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
