package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storerater-backend/pkg/db/models"
)

// RatingDTO is the transport shape for a submitted rating.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRatingDTO is a rating as seen from the submitting user's history,
// enriched with the rated store.
type UserRatingDTO struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	StoreName    string    `json:"store_name"`
	StoreAddress string    `json:"store_address"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StoreRaterDTO is a rating as seen by the store's owner, enriched with
// the submitting user.
type StoreRaterDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitResult reports the outcome of a rating submission.
type SubmitResult struct {
	Rating  RatingDTO `json:"rating"`
	Created bool      `json:"-"`
	Message string    `json:"message"`
}

func FromModel(m *models.Rating) RatingDTO {
	if m == nil {
		return RatingDTO{}
	}
	return RatingDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		StoreID:   m.StoreID,
		Rating:    m.Rating,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
