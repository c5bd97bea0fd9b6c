package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storerater-backend/api/responses"
	"github.com/angelmondragon/storerater-backend/internal/ratings"
	"github.com/angelmondragon/storerater-backend/internal/stores"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/logger"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
)

type storeRatingsResponse struct {
	StoreID       uuid.UUID               `json:"store_id"`
	AverageRating decimal.Decimal         `json:"average_rating"`
	TotalRatings  int64                   `json:"total_ratings"`
	Ratings       []ratings.StoreRaterDTO `json:"ratings"`
	Pagination    pagination.Meta         `json:"pagination"`
}

func writeStoreRatings(w http.ResponseWriter, r *http.Request, logg *logger.Logger,
	ratingSvc ratings.Service, storeSvc stores.Service,
	actor uuid.UUID, role enums.UserRole, storeID uuid.UUID, page pagination.Params) {

	rows, meta, err := ratingSvc.ListForStore(r.Context(), actor, role, storeID, page)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	store, err := storeSvc.GetByID(r.Context(), storeID, nil)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	responses.WriteSuccess(w, storeRatingsResponse{
		StoreID:       storeID,
		AverageRating: store.AverageRating,
		TotalRatings:  store.RatingCount,
		Ratings:       rows,
		Pagination:    meta,
	})
}

// StoreRatings lists the individual ratings on a store for its owner or a
// system admin, with the store's aggregate.
func StoreRatings(ratingSvc ratings.Service, storeSvc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ratingSvc == nil || storeSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rating service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeStoreRatings(w, r, logg, ratingSvc, storeSvc, uid, role, storeID, page)
	}
}

// OwnerStore returns the authenticated store owner's store with its
// aggregate rating. 404 when they own none.
func OwnerStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListOwned(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(rows) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no store found for this account"))
			return
		}

		responses.WriteSuccess(w, rows[0])
	}
}

// OwnerStoreRatings lists the ratings on the caller's own store.
func OwnerStoreRatings(ratingSvc ratings.Service, storeSvc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ratingSvc == nil || storeSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rating service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := storeSvc.ListOwned(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(rows) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no store found for this account"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeStoreRatings(w, r, logg, ratingSvc, storeSvc, uid, role, rows[0].ID, page)
	}
}
