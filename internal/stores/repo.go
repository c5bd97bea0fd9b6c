package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/pkg/db/models"
)

// Repository handles store persistence and rating aggregates.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// storeRow is the flat scan target for store queries joined against
// store_ratings_view and, optionally, the requesting user's own rating.
type storeRow struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Address       string
	OwnerID       *uuid.UUID
	AverageRating decimal.Decimal
	RatingCount   int64
	UserRating    *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (row storeRow) toDTO() StoreDTO {
	return StoreDTO{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		Address:       row.Address,
		OwnerID:       row.OwnerID,
		AverageRating: row.AverageRating,
		RatingCount:   row.RatingCount,
		UserRating:    row.UserRating,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

const storeSelectColumns = `s.id, s.name, s.email, s.address, s.owner_id,
COALESCE(v.average_rating, 0) AS average_rating,
COALESCE(v.rating_count, 0) AS rating_count,
s.created_at, s.updated_at`

func (r *Repository) joined(ctx context.Context, userID *uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("stores AS s").
		Joins("LEFT JOIN store_ratings_view v ON v.store_id = s.id")

	if userID != nil {
		query = query.
			Select(storeSelectColumns + ", ur.rating AS user_rating").
			Joins("LEFT JOIN ratings ur ON ur.store_id = s.id AND ur.user_id = ?", *userID)
	} else {
		query = query.Select(storeSelectColumns)
	}
	return query
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	store := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads a store with its aggregates. When userID is provided the
// row carries that user's submitted rating.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*StoreDTO, error) {
	var row storeRow
	if err := r.joined(ctx, userID).Where("s.id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	dto := row.toDTO()
	return &dto, nil
}

// FindModelByID loads the bare store row for mutation.
func (r *Repository) FindModelByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByOwner returns the stores owned by the provided user, with aggregates.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error) {
	var rows []storeRow
	if err := r.joined(ctx, nil).Where("s.owner_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]StoreDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDTO())
	}
	return result, nil
}

// FindByOwners loads the stores owned by any of the provided users, with
// aggregates. Used to enrich admin user listings.
func (r *Repository) FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]StoreDTO, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var rows []storeRow
	if err := r.joined(ctx, nil).Where("s.owner_id IN ?", ownerIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]StoreDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDTO())
	}
	return result, nil
}

// ListQuery captures filtering, sorting and pagination for store listings.
// SortColumn must already be resolved against a whitelist by the caller.
type ListQuery struct {
	Search     string
	SortColumn string
	SortOrder  string
	Limit      int
	Offset     int
	UserID     *uuid.UUID
}

// List returns one page of stores plus the unpaginated total, running the
// data and count queries in parallel.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]StoreDTO, int64, error) {
	var (
		rows  []storeRow
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := r.joined(gctx, q.UserID)
		if q.Search != "" {
			pattern := "%" + q.Search + "%"
			query = query.Where("s.name ILIKE ? OR s.email ILIKE ? OR s.address ILIKE ?", pattern, pattern, pattern)
		}
		if q.SortColumn != "" {
			query = query.Order(fmt.Sprintf("%s %s", q.SortColumn, normalizeOrder(q.SortOrder)))
		}
		return query.Limit(q.Limit).Offset(q.Offset).Find(&rows).Error
	})
	g.Go(func() error {
		count := r.db.WithContext(gctx).Model(&models.Store{})
		if q.Search != "" {
			pattern := "%" + q.Search + "%"
			count = count.Where("name ILIKE ? OR email ILIKE ? OR address ILIKE ?", pattern, pattern, pattern)
		}
		return count.Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	result := make([]StoreDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDTO())
	}
	return result, total, nil
}

// Update saves the provided store.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Save(store).Error
}

// Delete removes the store row. Its ratings cascade in the database schema.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the total number of stores.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&total).Error
	return total, err
}

func normalizeOrder(order string) string {
	if order == "desc" {
		return "desc"
	}
	return "asc"
}
