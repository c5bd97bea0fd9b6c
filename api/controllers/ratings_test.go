package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storerater-backend/api/middleware"
	"github.com/angelmondragon/storerater-backend/internal/ratings"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
)

type stubRatingService struct {
	result    *ratings.SubmitResult
	userRows  []ratings.UserRatingDTO
	storeRows []ratings.StoreRaterDTO
	meta      pagination.Meta
	err       error
}

func (s stubRatingService) Submit(_ context.Context, _, _ uuid.UUID, _ int) (*ratings.SubmitResult, error) {
	return s.result, s.err
}

func (s stubRatingService) ListForUser(_ context.Context, _ uuid.UUID, _ pagination.Params) ([]ratings.UserRatingDTO, pagination.Meta, error) {
	return s.userRows, s.meta, s.err
}

func (s stubRatingService) ListForStore(_ context.Context, _ uuid.UUID, _ enums.UserRole, _ uuid.UUID, _ pagination.Params) ([]ratings.StoreRaterDTO, pagination.Meta, error) {
	return s.storeRows, s.meta, s.err
}

func (s stubRatingService) Delete(_ context.Context, _ uuid.UUID, _ enums.UserRole, _ uuid.UUID) error {
	return s.err
}

func authedRequest(method, target string, body []byte, role enums.UserRole) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, role.String())
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRatingSubmitCreated(t *testing.T) {
	result := &ratings.SubmitResult{
		Rating:  ratings.RatingDTO{ID: uuid.New(), Rating: 5},
		Created: true,
		Message: "Rating submitted successfully",
	}
	handler := RatingSubmit(stubRatingService{result: result}, nil)

	body := []byte(`{"store_id":"` + uuid.NewString() + `","rating":5}`)
	req := authedRequest(http.MethodPost, "/api/ratings", body, enums.UserRoleNormal)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Message != "Rating submitted successfully" {
		t.Fatalf("unexpected message %q", envelope.Data.Message)
	}
}

func TestRatingSubmitUpdateReturns200(t *testing.T) {
	result := &ratings.SubmitResult{
		Rating:  ratings.RatingDTO{ID: uuid.New(), Rating: 3},
		Created: false,
		Message: "Rating updated successfully",
	}
	handler := RatingSubmit(stubRatingService{result: result}, nil)

	body := []byte(`{"store_id":"` + uuid.NewString() + `","rating":3}`)
	req := authedRequest(http.MethodPost, "/api/ratings", body, enums.UserRoleNormal)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRatingSubmitInvalidStoreID(t *testing.T) {
	handler := RatingSubmit(stubRatingService{}, nil)

	req := authedRequest(http.MethodPost, "/api/ratings", []byte(`{"store_id":"not-a-uuid","rating":5}`), enums.UserRoleNormal)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRatingSubmitRequiresAuth(t *testing.T) {
	handler := RatingSubmit(stubRatingService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ratings", bytes.NewReader([]byte(`{"store_id":"`+uuid.NewString()+`","rating":5}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestMyRatingsReturnsPage(t *testing.T) {
	rows := []ratings.UserRatingDTO{{ID: uuid.New(), StoreName: "Corner Market", Rating: 4}}
	handler := MyRatings(stubRatingService{userRows: rows, meta: pagination.Meta{CurrentPage: 1, TotalPages: 1, TotalCount: 1}}, nil)

	req := authedRequest(http.MethodGet, "/api/ratings/me?page=1&limit=10", nil, enums.UserRoleNormal)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data myRatingsResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Ratings) != 1 || envelope.Data.Pagination.TotalCount != 1 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestRatingDeleteForbidden(t *testing.T) {
	handler := RatingDelete(stubRatingService{err: pkgerrors.New(pkgerrors.CodeForbidden, "rating does not belong to you")}, nil)

	req := authedRequest(http.MethodDelete, "/api/ratings/abc", nil, enums.UserRoleNormal)
	req = withURLParam(req, "ratingId", uuid.NewString())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
