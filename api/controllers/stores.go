package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storerater-backend/api/middleware"
	"github.com/angelmondragon/storerater-backend/api/responses"
	"github.com/angelmondragon/storerater-backend/api/validators"
	"github.com/angelmondragon/storerater-backend/internal/stores"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/logger"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
)

// storeSortColumns maps client sort keys onto whitelisted listing columns.
var storeSortColumns = map[string]string{
	"name":           "s.name",
	"email":          "s.email",
	"address":        "s.address",
	"average_rating": "average_rating",
	"created_at":     "s.created_at",
}

type storeListResponse struct {
	Stores     []stores.StoreDTO `json:"stores"`
	Pagination pagination.Meta   `json:"pagination"`
}

// StoreList returns the searchable store catalog. When the caller is
// authenticated their own rating is included per store.
func StoreList(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sortCol, sortOrder := validators.ParseSort(r, storeSortColumns, "s.name")

		var userID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if uid, parseErr := uuid.Parse(raw); parseErr == nil {
				userID = &uid
			}
		}

		rows, meta, err := svc.List(r.Context(), stores.ListStoresInput{
			Search:     r.URL.Query().Get("search"),
			SortColumn: sortCol,
			SortOrder:  sortOrder,
			Page:       page,
			UserID:     userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, storeListResponse{Stores: rows, Pagination: meta})
	}
}

// StoreDetail returns one store with its aggregate rating and, for an
// authenticated caller, their submitted rating.
func StoreDetail(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if uid, parseErr := uuid.Parse(raw); parseErr == nil {
				userID = &uid
			}
		}

		store, err := svc.GetByID(r.Context(), storeID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}
