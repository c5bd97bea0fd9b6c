package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/pkg/db/models"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the provided user row.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdatePasswordHash overwrites the stored credential for the user.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// Delete removes the user row. Dependent stores and ratings cascade in the
// database schema.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListQuery captures filtering, sorting and pagination for user listings.
// SortColumn must already be resolved against a whitelist by the caller.
type ListQuery struct {
	Search     string
	Role       enums.UserRole
	SortColumn string
	SortOrder  string
	Limit      int
	Offset     int
}

// List returns one page of users plus the unpaginated total, running the
// data and count queries in parallel.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.User{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		base = base.Where("name ILIKE ? OR email ILIKE ? OR address ILIKE ?", pattern, pattern, pattern)
	}
	if q.Role != "" {
		base = base.Where("role = ?", q.Role)
	}

	var (
		rows  []models.User
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := base.Session(&gorm.Session{}).WithContext(gctx)
		if q.SortColumn != "" {
			query = query.Order(fmt.Sprintf("%s %s", q.SortColumn, normalizeOrder(q.SortOrder)))
		}
		return query.Limit(q.Limit).Offset(q.Offset).Find(&rows).Error
	})
	g.Go(func() error {
		return base.Session(&gorm.Session{}).WithContext(gctx).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// CountByRole tallies users per role for the admin dashboard.
func (r *Repository) CountByRole(ctx context.Context, role enums.UserRole) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&total).Error
	return total, err
}

// Count returns the total number of users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	return total, err
}

func normalizeOrder(order string) string {
	if order == "desc" {
		return "desc"
	}
	return "asc"
}
