package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/internal/stores"
	"github.com/angelmondragon/storerater-backend/internal/users"
	"github.com/angelmondragon/storerater-backend/pkg/config"
	"github.com/angelmondragon/storerater-backend/pkg/db"
	"github.com/angelmondragon/storerater-backend/pkg/db/models"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
	"github.com/angelmondragon/storerater-backend/pkg/security"
	"github.com/angelmondragon/storerater-backend/pkg/validation"
)

type usersRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q users.ListQuery) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role enums.UserRole) (int64, error)
}

type storesService interface {
	Create(ctx context.Context, input stores.CreateStoreInput) (*stores.StoreDTO, error)
	List(ctx context.Context, input stores.ListStoresInput) ([]stores.StoreDTO, pagination.Meta, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]stores.StoreDTO, error)
	ListByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]stores.StoreDTO, error)
	Update(ctx context.Context, storeID uuid.UUID, input stores.UpdateStoreInput) (*stores.StoreDTO, error)
	Delete(ctx context.Context, storeID uuid.UUID) error
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// Service exposes the system_admin surface.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardDTO, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*users.UserDTO, error)
	ListUsers(ctx context.Context, input ListUsersInput) ([]UserDetailDTO, pagination.Meta, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserDetailDTO, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*users.UserDTO, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
	CreateStore(ctx context.Context, input stores.CreateStoreInput) (*stores.StoreDTO, error)
	ListStores(ctx context.Context, input stores.ListStoresInput) ([]stores.StoreDTO, pagination.Meta, error)
	UpdateStore(ctx context.Context, storeID uuid.UUID, input stores.UpdateStoreInput) (*stores.StoreDTO, error)
	DeleteStore(ctx context.Context, storeID uuid.UUID) error
}

type service struct {
	users    usersRepository
	stores   storesService
	storeCnt counter
	ratings  counter
	password config.PasswordConfig
}

// NewService wires the admin surface to the users repo, the store service and
// the entity counters backing the dashboard.
func NewService(usersRepo usersRepository, storeSvc storesService, storeCounter, ratingCounter counter, passwordCfg config.PasswordConfig) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if storeSvc == nil {
		return nil, fmt.Errorf("store service required")
	}
	if storeCounter == nil || ratingCounter == nil {
		return nil, fmt.Errorf("entity counters required")
	}
	return &service{
		users:    usersRepo,
		stores:   storeSvc,
		storeCnt: storeCounter,
		ratings:  ratingCounter,
		password: passwordCfg,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	var (
		dash    DashboardDTO
		byRole  = make([]int64, len(dashboardRoles))
		g, gctx = errgroup.WithContext(ctx)
	)

	g.Go(func() error {
		total, err := s.users.Count(gctx)
		dash.TotalUsers = total
		return err
	})
	g.Go(func() error {
		total, err := s.storeCnt.Count(gctx)
		dash.TotalStores = total
		return err
	})
	g.Go(func() error {
		total, err := s.ratings.Count(gctx)
		dash.TotalRatings = total
		return err
	})
	for i, role := range dashboardRoles {
		i, role := i, role
		g.Go(func() error {
			total, err := s.users.CountByRole(gctx, role)
			byRole[i] = total
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard totals")
	}

	dash.UsersByRole = make(map[string]int64, len(dashboardRoles))
	for i, role := range dashboardRoles {
		dash.UsersByRole[role.String()] = byRole[i]
	}
	return &dash, nil
}

var dashboardRoles = []enums.UserRole{
	enums.UserRoleNormal,
	enums.UserRoleStoreOwner,
	enums.UserRoleSystemAdmin,
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*users.UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !validation.Name(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required and must be at most 60 characters")
	}
	if !validation.Email(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}
	if !validation.Password(input.Password) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be 8-16 characters with an uppercase letter, a lowercase letter, a digit and a special character")
	}
	if !validation.Address(input.Address) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address must be at most 400 characters")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of normal_user, store_owner, system_admin")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Address:      strings.TrimSpace(input.Address),
		Role:         input.Role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, db.Translate(err, "user not found")
	}

	return users.FromModel(user), nil
}

func (s *service) ListUsers(ctx context.Context, input ListUsersInput) ([]UserDetailDTO, pagination.Meta, error) {
	if input.Role != "" && !input.Role.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of normal_user, store_owner, system_admin")
	}

	page := input.Page.Normalize()
	rows, total, err := s.users.List(ctx, users.ListQuery{
		Search:     strings.TrimSpace(input.Search),
		Role:       input.Role,
		SortColumn: input.SortColumn,
		SortOrder:  input.SortOrder,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	ownerIDs := make([]uuid.UUID, 0)
	for i := range rows {
		if rows[i].Role == enums.UserRoleStoreOwner {
			ownerIDs = append(ownerIDs, rows[i].ID)
		}
	}

	storesByOwner := map[uuid.UUID][]stores.StoreDTO{}
	if len(ownerIDs) > 0 {
		owned, err := s.stores.ListByOwners(ctx, ownerIDs)
		if err != nil {
			return nil, pagination.Meta{}, err
		}
		for _, store := range owned {
			if store.OwnerID != nil {
				storesByOwner[*store.OwnerID] = append(storesByOwner[*store.OwnerID], store)
			}
		}
	}

	dtos := make([]UserDetailDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, UserDetailDTO{
			UserDTO: *users.FromModel(&rows[i]),
			Stores:  storesByOwner[rows[i].ID],
		})
	}
	return dtos, page.BuildMeta(total), nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDetailDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	detail := &UserDetailDTO{UserDTO: *users.FromModel(user)}
	if user.Role == enums.UserRoleStoreOwner {
		owned, err := s.stores.ListOwned(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		detail.Stores = owned
	}
	return detail, nil
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*users.UserDTO, error) {
	if input.Name == nil && input.Email == nil && input.Address == nil && input.Role == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no valid fields to update")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if !validation.Name(name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required and must be at most 60 characters")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !validation.Email(email) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
		}
		user.Email = email
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if !validation.Address(address) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address must be at most 400 characters")
		}
		user.Address = address
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of normal_user, store_owner, system_admin")
		}
		user.Role = *input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, db.Translate(err, "user not found")
	}

	return users.FromModel(user), nil
}

func (s *service) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "you cannot delete your own account")
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) CreateStore(ctx context.Context, input stores.CreateStoreInput) (*stores.StoreDTO, error) {
	return s.stores.Create(ctx, input)
}

func (s *service) ListStores(ctx context.Context, input stores.ListStoresInput) ([]stores.StoreDTO, pagination.Meta, error) {
	return s.stores.List(ctx, input)
}

func (s *service) UpdateStore(ctx context.Context, storeID uuid.UUID, input stores.UpdateStoreInput) (*stores.StoreDTO, error) {
	return s.stores.Update(ctx, storeID, input)
}

func (s *service) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	return s.stores.Delete(ctx, storeID)
}
