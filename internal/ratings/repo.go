package ratings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/pkg/db/models"
)

// Repository handles rating persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to rating operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const upsertSQL = `
INSERT INTO ratings (user_id, store_id, rating)
VALUES (?, ?, ?)
ON CONFLICT (user_id, store_id)
DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
RETURNING id, user_id, store_id, rating, created_at, updated_at, (xmax = 0) AS inserted`

type upsertRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StoreID   uuid.UUID
	Rating    int
	CreatedAt time.Time
	UpdatedAt time.Time
	Inserted  bool
}

// Upsert atomically inserts or replaces the user's rating for a store in a
// single statement. The second return value reports whether a new row was
// created rather than an existing one updated.
func (r *Repository) Upsert(ctx context.Context, userID, storeID uuid.UUID, rating int) (*models.Rating, bool, error) {
	var row upsertRow
	res := r.db.WithContext(ctx).Raw(upsertSQL, userID, storeID, rating).Scan(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, gorm.ErrRecordNotFound
	}

	return &models.Rating{
		ID:        row.ID,
		UserID:    row.UserID,
		StoreID:   row.StoreID,
		Rating:    row.Rating,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, row.Inserted, nil
}

// FindByID loads a rating by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListByUser returns one page of the user's ratings joined with the rated
// stores, newest first, plus the unpaginated total.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserRatingDTO, int64, error) {
	var (
		rows  []UserRatingDTO
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Table("ratings AS r").
			Select("r.id, r.store_id, s.name AS store_name, s.address AS store_address, r.rating, r.created_at, r.updated_at").
			Joins("JOIN stores s ON s.id = r.store_id").
			Where("r.user_id = ?", userID).
			Order("r.updated_at DESC").
			Limit(limit).Offset(offset).
			Find(&rows).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Rating{}).
			Where("user_id = ?", userID).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByStore returns one page of a store's ratings joined with the
// submitting users, newest first, plus the unpaginated total.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]StoreRaterDTO, int64, error) {
	var (
		rows  []StoreRaterDTO
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Table("ratings AS r").
			Select("r.id, r.user_id, u.name AS user_name, u.email AS user_email, r.rating, r.created_at, r.updated_at").
			Joins("JOIN users u ON u.id = r.user_id").
			Where("r.store_id = ?", storeID).
			Order("r.created_at DESC").
			Limit(limit).Offset(offset).
			Find(&rows).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Rating{}).
			Where("store_id = ?", storeID).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes the rating row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Rating{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the total number of ratings.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&total).Error
	return total, err
}
