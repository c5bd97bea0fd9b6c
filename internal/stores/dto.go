package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storerater-backend/pkg/db/models"
)

// StoreDTO exposes a store alongside its rating aggregates.
type StoreDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	OwnerID       *uuid.UUID      `json:"owner_id,omitempty"`
	AverageRating decimal.Decimal `json:"average_rating"`
	RatingCount   int64           `json:"rating_count"`
	UserRating    *int            `json:"user_rating,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	Name    string
	Email   string
	Address string
	OwnerID *uuid.UUID
}

// FromModel maps a bare store row into a DTO without aggregates.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Address:       m.Address,
		OwnerID:       m.OwnerID,
		AverageRating: decimal.Zero,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO.
func (c CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{
		Name:    c.Name,
		Email:   c.Email,
		Address: c.Address,
		OwnerID: c.OwnerID,
	}
}
