package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/pkg/db"
	"github.com/angelmondragon/storerater-backend/pkg/db/models"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
	"github.com/angelmondragon/storerater-backend/pkg/validation"
)

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*StoreDTO, error)
	FindModelByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error)
	FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]StoreDTO, error)
	List(ctx context.Context, q ListQuery) ([]StoreDTO, int64, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*StoreDTO, error)
	List(ctx context.Context, input ListStoresInput) ([]StoreDTO, pagination.Meta, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error)
	ListByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]StoreDTO, error)
	Update(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, storeID uuid.UUID) error
}

type service struct {
	repo  storeRepository
	users usersRepository
}

// NewService builds a store service with the provided repositories.
func NewService(repo storeRepository, usersRepo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: usersRepo}, nil
}

// CreateStoreInput captures the data required to register a store. OwnerID
// is optional; when present it must reference a store_owner user.
type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID *uuid.UUID
}

// UpdateStoreInput captures the allowed store fields for mutation.
type UpdateStoreInput struct {
	Name    *string
	Email   *string
	Address *string
}

// ListStoresInput captures search, sorting and pagination for listings.
type ListStoresInput struct {
	Search     string
	SortColumn string
	SortOrder  string
	Page       pagination.Params
	UserID     *uuid.UUID
}

func (s *service) Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	address := strings.TrimSpace(input.Address)

	if err := validateStoreFields(name, email, address); err != nil {
		return nil, err
	}

	if input.OwnerID != nil {
		owner, err := s.users.FindByID(ctx, *input.OwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owner")
		}
		if owner.Role != enums.UserRoleStoreOwner {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner must have the store_owner role")
		}
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{
		Name:    name,
		Email:   email,
		Address: address,
		OwnerID: input.OwnerID,
	})
	if err != nil {
		return nil, db.Translate(err, "store not found")
	}
	return FromModel(store), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) List(ctx context.Context, input ListStoresInput) ([]StoreDTO, pagination.Meta, error) {
	page := input.Page.Normalize()

	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:     strings.TrimSpace(input.Search),
		SortColumn: input.SortColumn,
		SortOrder:  input.SortOrder,
		Limit:      page.Limit,
		Offset:     page.Offset(),
		UserID:     input.UserID,
	})
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return rows, page.BuildMeta(total), nil
}

func (s *service) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error) {
	rows, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned stores")
	}
	return rows, nil
}

func (s *service) ListByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]StoreDTO, error) {
	rows, err := s.repo.FindByOwners(ctx, ownerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores by owners")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	if input.Name == nil && input.Email == nil && input.Address == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no valid fields to update")
	}

	store, err := s.repo.FindModelByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if !validation.Name(name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be between 1 and 60 characters")
		}
		store.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !validation.Email(email) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
		}
		store.Email = email
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if !validation.Address(address) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address must be at most 400 characters")
		}
		store.Address = address
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, db.Translate(err, "store not found")
	}

	return s.GetByID(ctx, storeID, nil)
}

func (s *service) Delete(ctx context.Context, storeID uuid.UUID) error {
	if err := s.repo.Delete(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

func validateStoreFields(name, email, address string) error {
	if !validation.Name(name) {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be between 1 and 60 characters")
	}
	if !validation.Email(email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if !validation.Address(address) {
		return pkgerrors.New(pkgerrors.CodeValidation, "address must be at most 400 characters")
	}
	return nil
}
