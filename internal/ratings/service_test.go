package ratings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/pkg/db/models"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
)

type stubRatingRepo struct {
	rating    *models.Rating
	inserted  bool
	userRows  []UserRatingDTO
	storeRows []StoreRaterDTO
	total     int64
	err       error
	deleted   []uuid.UUID
}

func (s *stubRatingRepo) Upsert(_ context.Context, userID, storeID uuid.UUID, rating int) (*models.Rating, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return &models.Rating{
		ID:      uuid.New(),
		UserID:  userID,
		StoreID: storeID,
		Rating:  rating,
	}, s.inserted, nil
}

func (s *stubRatingRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Rating, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.rating == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.rating, nil
}

func (s *stubRatingRepo) ListByUser(_ context.Context, _ uuid.UUID, _, _ int) ([]UserRatingDTO, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.userRows, s.total, nil
}

func (s *stubRatingRepo) ListByStore(_ context.Context, _ uuid.UUID, _, _ int) ([]StoreRaterDTO, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.storeRows, s.total, nil
}

func (s *stubRatingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubStoresRepo struct {
	store *models.Store
	err   error
}

func (s stubStoresRepo) FindModelByID(_ context.Context, _ uuid.UUID) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

func TestNewServiceRequiresRepos(t *testing.T) {
	if _, err := NewService(nil, stubStoresRepo{}); err == nil {
		t.Fatal("expected error creating service without rating repo")
	}
	if _, err := NewService(&stubRatingRepo{}, nil); err == nil {
		t.Fatal("expected error creating service without store repo")
	}
}

func TestSubmitCreatesRating(t *testing.T) {
	store := &models.Store{ID: uuid.New()}
	repo := &stubRatingRepo{inserted: true}
	svc, err := NewService(repo, stubStoresRepo{store: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Submit(context.Background(), uuid.New(), store.ID, 4)
	if err != nil {
		t.Fatalf("submit rating: %v", err)
	}
	if !result.Created {
		t.Fatal("expected created result")
	}
	if result.Message != "Rating submitted successfully" {
		t.Fatalf("unexpected message %q", result.Message)
	}
	if result.Rating.Rating != 4 {
		t.Fatalf("unexpected rating value %d", result.Rating.Rating)
	}
}

func TestSubmitUpdatesExistingRating(t *testing.T) {
	store := &models.Store{ID: uuid.New()}
	repo := &stubRatingRepo{inserted: false}
	svc, err := NewService(repo, stubStoresRepo{store: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Submit(context.Background(), uuid.New(), store.ID, 2)
	if err != nil {
		t.Fatalf("submit rating: %v", err)
	}
	if result.Created {
		t.Fatal("expected update result")
	}
	if result.Message != "Rating updated successfully" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestSubmitRejectsOutOfRangeRating(t *testing.T) {
	svc, err := NewService(&stubRatingRepo{}, stubStoresRepo{store: &models.Store{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for _, value := range []int{0, 6, -1} {
		_, gotErr := svc.Submit(context.Background(), uuid.New(), uuid.New(), value)
		if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error, got %v", value, gotErr)
		}
	}
}

func TestSubmitUnknownStore(t *testing.T) {
	svc, err := NewService(&stubRatingRepo{}, stubStoresRepo{err: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Submit(context.Background(), uuid.New(), uuid.New(), 3)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestListForStoreScopesToOwner(t *testing.T) {
	ownerID := uuid.New()
	store := &models.Store{ID: uuid.New(), OwnerID: &ownerID}
	repo := &stubRatingRepo{storeRows: []StoreRaterDTO{{ID: uuid.New()}}, total: 1}
	svc, err := NewService(repo, stubStoresRepo{store: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	rows, meta, err := svc.ListForStore(context.Background(), ownerID, enums.UserRoleStoreOwner, store.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("list for owner: %v", err)
	}
	if len(rows) != 1 || meta.TotalCount != 1 {
		t.Fatalf("unexpected result rows=%d meta=%+v", len(rows), meta)
	}

	_, _, gotErr := svc.ListForStore(context.Background(), uuid.New(), enums.UserRoleStoreOwner, store.ID, pagination.Params{})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", gotErr)
	}

	if _, _, err := svc.ListForStore(context.Background(), uuid.New(), enums.UserRoleSystemAdmin, store.ID, pagination.Params{}); err != nil {
		t.Fatalf("system admin should bypass ownership check: %v", err)
	}
}

func TestDeleteOwnerOrAdmin(t *testing.T) {
	raterID := uuid.New()
	rating := &models.Rating{ID: uuid.New(), UserID: raterID}

	repo := &stubRatingRepo{rating: rating}
	svc, err := NewService(repo, stubStoresRepo{store: &models.Store{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Delete(context.Background(), raterID, enums.UserRoleNormal, rating.ID); err != nil {
		t.Fatalf("rating owner should delete: %v", err)
	}

	gotErr := svc.Delete(context.Background(), uuid.New(), enums.UserRoleNormal, rating.ID)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for stranger, got %v", gotErr)
	}
	if typed.Message() != "rating not found or access denied" {
		t.Fatalf("unexpected message %q", typed.Message())
	}

	if err := svc.Delete(context.Background(), uuid.New(), enums.UserRoleSystemAdmin, rating.ID); err != nil {
		t.Fatalf("system admin should delete any rating: %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, err := NewService(&stubRatingRepo{}, stubStoresRepo{store: &models.Store{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	gotErr := svc.Delete(context.Background(), uuid.New(), enums.UserRoleNormal, uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestListForUserDependencyError(t *testing.T) {
	svc, err := NewService(&stubRatingRepo{err: errors.New("boom")}, stubStoresRepo{store: &models.Store{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, _, gotErr := svc.ListForUser(context.Background(), uuid.New(), pagination.Params{})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}
