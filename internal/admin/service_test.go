package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/internal/stores"
	"github.com/angelmondragon/storerater-backend/internal/users"
	"github.com/angelmondragon/storerater-backend/pkg/config"
	"github.com/angelmondragon/storerater-backend/pkg/db/models"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
)

type stubUsersRepo struct {
	user       *models.User
	listed     []models.User
	total      int64
	lastQ      users.ListQuery
	err        error
	created    *users.CreateUserDTO
	deleted    []uuid.UUID
	count      int64
	roleCounts map[enums.UserRole]int64
}

func (s *stubUsersRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &dto
	model := dto.ToModel()
	model.ID = uuid.New()
	return model, nil
}

func (s *stubUsersRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsersRepo) Update(_ context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	s.user = user
	return nil
}

func (s *stubUsersRepo) CountByRole(_ context.Context, role enums.UserRole) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.roleCounts[role], nil
}

func (s *stubUsersRepo) Delete(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubUsersRepo) List(_ context.Context, q users.ListQuery) ([]models.User, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	s.lastQ = q
	return s.listed, s.total, nil
}

func (s *stubUsersRepo) Count(_ context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

type stubStoresService struct {
	dto   *stores.StoreDTO
	owned []stores.StoreDTO
	err   error
}

func (s stubStoresService) Create(_ context.Context, input stores.CreateStoreInput) (*stores.StoreDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &stores.StoreDTO{ID: uuid.New(), Name: input.Name, OwnerID: input.OwnerID}, nil
}

func (s stubStoresService) List(_ context.Context, _ stores.ListStoresInput) ([]stores.StoreDTO, pagination.Meta, error) {
	if s.err != nil {
		return nil, pagination.Meta{}, s.err
	}
	return s.owned, pagination.Meta{TotalCount: int64(len(s.owned))}, nil
}

func (s stubStoresService) ListOwned(_ context.Context, _ uuid.UUID) ([]stores.StoreDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.owned, nil
}

func (s stubStoresService) ListByOwners(_ context.Context, _ []uuid.UUID) ([]stores.StoreDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.owned, nil
}

func (s stubStoresService) Update(_ context.Context, _ uuid.UUID, _ stores.UpdateStoreInput) (*stores.StoreDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.dto, nil
}

func (s stubStoresService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.err
}

type stubCounter struct {
	total int64
	err   error
}

func (s stubCounter) Count(_ context.Context) (int64, error) {
	return s.total, s.err
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, usersRepo usersRepository, storeSvc storesService, storeCnt, ratingCnt counter) Service {
	t.Helper()
	svc, err := NewService(usersRepo, storeSvc, storeCnt, ratingCnt, testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, stubStoresService{}, stubCounter{}, stubCounter{}, testPasswordConfig()); err == nil {
		t.Fatal("expected error without users repo")
	}
	if _, err := NewService(&stubUsersRepo{}, nil, stubCounter{}, stubCounter{}, testPasswordConfig()); err == nil {
		t.Fatal("expected error without store service")
	}
	if _, err := NewService(&stubUsersRepo{}, stubStoresService{}, nil, stubCounter{}, testPasswordConfig()); err == nil {
		t.Fatal("expected error without counters")
	}
}

func TestDashboardAggregatesTotals(t *testing.T) {
	repo := &stubUsersRepo{
		count: 12,
		roleCounts: map[enums.UserRole]int64{
			enums.UserRoleNormal:      9,
			enums.UserRoleStoreOwner:  2,
			enums.UserRoleSystemAdmin: 1,
		},
	}
	svc := newTestService(t, repo, stubStoresService{}, stubCounter{total: 4}, stubCounter{total: 37})

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalUsers != 12 || dash.TotalStores != 4 || dash.TotalRatings != 37 {
		t.Fatalf("unexpected totals %+v", dash)
	}
	if dash.UsersByRole["store_owner"] != 2 || dash.UsersByRole["system_admin"] != 1 {
		t.Fatalf("unexpected role counts %+v", dash.UsersByRole)
	}
}

func TestDashboardDependencyError(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{count: 12}, stubStoresService{}, stubCounter{err: errors.New("boom")}, stubCounter{})

	_, gotErr := svc.Dashboard(context.Background())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestCreateUserWithExplicitRole(t *testing.T) {
	repo := &stubUsersRepo{}
	svc := newTestService(t, repo, stubStoresService{}, stubCounter{}, stubCounter{})

	dto, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Store Owner",
		Email:    "Owner@Example.COM",
		Password: "Sup3r$ecret",
		Role:     enums.UserRoleStoreOwner,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if dto.Role != enums.UserRoleStoreOwner {
		t.Fatalf("expected store_owner role, got %q", dto.Role)
	}
	if repo.created == nil || repo.created.Email != "owner@example.com" {
		t.Fatalf("expected lowercased email, got %+v", repo.created)
	}
	if repo.created.PasswordHash == "Sup3r$ecret" {
		t.Fatal("password must be stored hashed")
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, stubStoresService{}, stubCounter{}, stubCounter{})

	_, gotErr := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Someone",
		Email:    "someone@example.com",
		Password: "Sup3r$ecret",
		Role:     enums.UserRole("superuser"),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestListUsersPassesFilters(t *testing.T) {
	repo := &stubUsersRepo{
		listed: []models.User{{ID: uuid.New(), Role: enums.UserRoleNormal}},
		total:  21,
	}
	svc := newTestService(t, repo, stubStoresService{}, stubCounter{}, stubCounter{})

	rows, meta, err := svc.ListUsers(context.Background(), ListUsersInput{
		Search:     " alice ",
		Role:       enums.UserRoleNormal,
		SortColumn: "email",
		SortOrder:  "desc",
		Page:       pagination.Params{Page: 3, Limit: 10},
	})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if meta.TotalCount != 21 || meta.TotalPages != 3 || meta.CurrentPage != 3 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if repo.lastQ.Search != "alice" || repo.lastQ.SortColumn != "email" || repo.lastQ.Offset != 20 {
		t.Fatalf("unexpected query %+v", repo.lastQ)
	}
}

func TestListUsersRejectsUnknownRoleFilter(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, stubStoresService{}, stubCounter{}, stubCounter{})

	_, _, gotErr := svc.ListUsers(context.Background(), ListUsersInput{Role: enums.UserRole("wizard")})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestListUsersAttachesStoresToOwners(t *testing.T) {
	ownerID := uuid.New()
	repo := &stubUsersRepo{
		listed: []models.User{
			{ID: ownerID, Role: enums.UserRoleStoreOwner},
			{ID: uuid.New(), Role: enums.UserRoleNormal},
		},
		total: 2,
	}
	storeSvc := stubStoresService{owned: []stores.StoreDTO{{ID: uuid.New(), OwnerID: &ownerID}}}
	svc := newTestService(t, repo, storeSvc, stubCounter{}, stubCounter{})

	rows, _, err := svc.ListUsers(context.Background(), ListUsersInput{Page: pagination.Params{Page: 1, Limit: 10}})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(rows[0].Stores) != 1 {
		t.Fatalf("owner should carry their stores, got %+v", rows[0].Stores)
	}
	if rows[1].Stores != nil {
		t.Fatalf("normal user should not carry stores, got %+v", rows[1].Stores)
	}
}

func TestUpdateUserRequiresFields(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, stubStoresService{}, stubCounter{}, stubCounter{})

	_, gotErr := svc.UpdateUser(context.Background(), uuid.New(), UpdateUserInput{})
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
	if typed.Message() != "no valid fields to update" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestUpdateUserAppliesPartialChanges(t *testing.T) {
	repo := &stubUsersRepo{user: &models.User{
		ID:      uuid.New(),
		Name:    "Old Name",
		Email:   "old@example.com",
		Address: "Old Street 1",
		Role:    enums.UserRoleNormal,
	}}
	svc := newTestService(t, repo, stubStoresService{}, stubCounter{}, stubCounter{})

	name := "  New Name "
	role := enums.UserRoleStoreOwner
	dto, err := svc.UpdateUser(context.Background(), repo.user.ID, UpdateUserInput{Name: &name, Role: &role})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if dto.Name != "New Name" || dto.Role != enums.UserRoleStoreOwner {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if dto.Email != "old@example.com" {
		t.Fatalf("untouched fields must survive, got %q", dto.Email)
	}
}

func TestUpdateUserRejectsBadEmail(t *testing.T) {
	repo := &stubUsersRepo{user: &models.User{ID: uuid.New(), Role: enums.UserRoleNormal}}
	svc := newTestService(t, repo, stubStoresService{}, stubCounter{}, stubCounter{})

	email := "not-an-email"
	_, gotErr := svc.UpdateUser(context.Background(), repo.user.ID, UpdateUserInput{Email: &email})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, stubStoresService{}, stubCounter{}, stubCounter{})

	name := "Someone"
	_, gotErr := svc.UpdateUser(context.Background(), uuid.New(), UpdateUserInput{Name: &name})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestGetUserIncludesOwnedStoresForOwners(t *testing.T) {
	owner := &models.User{ID: uuid.New(), Role: enums.UserRoleStoreOwner}
	owned := []stores.StoreDTO{{ID: uuid.New(), OwnerID: &owner.ID}}
	svc := newTestService(t, &stubUsersRepo{user: owner}, stubStoresService{owned: owned}, stubCounter{}, stubCounter{})

	detail, err := svc.GetUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(detail.Stores) != 1 {
		t.Fatalf("expected owned stores, got %+v", detail.Stores)
	}
}

func TestGetUserOmitsStoresForNormalUsers(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleNormal}
	svc := newTestService(t, &stubUsersRepo{user: user}, stubStoresService{owned: []stores.StoreDTO{{}}}, stubCounter{}, stubCounter{})

	detail, err := svc.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if detail.Stores != nil {
		t.Fatalf("normal users should not carry stores, got %+v", detail.Stores)
	}
}

func TestDeleteUserGuardsSelf(t *testing.T) {
	actorID := uuid.New()
	svc := newTestService(t, &stubUsersRepo{}, stubStoresService{}, stubCounter{}, stubCounter{})

	gotErr := svc.DeleteUser(context.Background(), actorID, actorID)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
	if typed.Message() != "you cannot delete your own account" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{err: gorm.ErrRecordNotFound}, stubStoresService{}, stubCounter{}, stubCounter{})

	gotErr := svc.DeleteUser(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestStoreOperationsDelegate(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, stubStoresService{owned: []stores.StoreDTO{{}}}, stubCounter{}, stubCounter{})

	ownerID := uuid.New()
	dto, err := svc.CreateStore(context.Background(), stores.CreateStoreInput{Name: "Corner Market", OwnerID: &ownerID})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if dto.Name != "Corner Market" {
		t.Fatalf("unexpected store %+v", dto)
	}

	rows, meta, err := svc.ListStores(context.Background(), stores.ListStoresInput{})
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if len(rows) != 1 || meta.TotalCount != 1 {
		t.Fatalf("unexpected listing rows=%d meta=%+v", len(rows), meta)
	}
}
