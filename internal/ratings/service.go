package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/pkg/db"
	"github.com/angelmondragon/storerater-backend/pkg/db/models"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
	"github.com/angelmondragon/storerater-backend/pkg/validation"
)

const (
	submittedMessage = "Rating submitted successfully"
	updatedMessage   = "Rating updated successfully"
)

type ratingRepository interface {
	Upsert(ctx context.Context, userID, storeID uuid.UUID, rating int) (*models.Rating, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rating, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserRatingDTO, int64, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]StoreRaterDTO, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeRepository interface {
	FindModelByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes rating operations.
type Service interface {
	Submit(ctx context.Context, userID, storeID uuid.UUID, rating int) (*SubmitResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]UserRatingDTO, pagination.Meta, error)
	ListForStore(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, storeID uuid.UUID, page pagination.Params) ([]StoreRaterDTO, pagination.Meta, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, ratingID uuid.UUID) error
}

type service struct {
	repo   ratingRepository
	stores storeRepository
}

// NewService builds a rating service with the provided repositories.
func NewService(repo ratingRepository, storesRepo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rating repository required")
	}
	if storesRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, stores: storesRepo}, nil
}

func (s *service) Submit(ctx context.Context, userID, storeID uuid.UUID, rating int) (*SubmitResult, error) {
	if !validation.Rating(rating) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be an integer between 1 and 5")
	}

	if _, err := s.stores.FindModelByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	row, created, err := s.repo.Upsert(ctx, userID, storeID, rating)
	if err != nil {
		return nil, db.Translate(err, "rating not found")
	}

	message := updatedMessage
	if created {
		message = submittedMessage
	}

	return &SubmitResult{
		Rating:  FromModel(row),
		Created: created,
		Message: message,
	}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]UserRatingDTO, pagination.Meta, error) {
	p := page.Normalize()
	rows, total, err := s.repo.ListByUser(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user ratings")
	}
	return rows, p.BuildMeta(total), nil
}

func (s *service) ListForStore(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, storeID uuid.UUID, page pagination.Params) ([]StoreRaterDTO, pagination.Meta, error) {
	store, err := s.stores.FindModelByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	if actorRole != enums.UserRoleSystemAdmin && (store.OwnerID == nil || *store.OwnerID != actorID) {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to you")
	}

	p := page.Normalize()
	rows, total, err := s.repo.ListByStore(ctx, storeID, p.Limit, p.Offset())
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store ratings")
	}
	return rows, p.BuildMeta(total), nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, ratingID uuid.UUID) error {
	rating, err := s.repo.FindByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
	}

	// Hide foreign ratings instead of confirming they exist.
	if actorRole != enums.UserRoleSystemAdmin && rating.UserID != actorID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rating not found or access denied")
	}

	if err := s.repo.Delete(ctx, ratingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rating")
	}
	return nil
}
