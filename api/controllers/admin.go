package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storerater-backend/api/responses"
	"github.com/angelmondragon/storerater-backend/api/validators"
	"github.com/angelmondragon/storerater-backend/internal/admin"
	"github.com/angelmondragon/storerater-backend/internal/stores"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/logger"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
)

// userSortColumns maps client sort keys onto whitelisted user columns.
var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"role":       "role",
	"created_at": "created_at",
}

type userListResponse struct {
	Users      []admin.UserDetailDTO `json:"users"`
	Pagination pagination.Meta       `json:"pagination"`
}

// AdminDashboard reports platform totals.
func AdminDashboard(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		dash, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dash)
	}
}

type adminCreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address"`
	Role     string `json:"role" validate:"required"`
}

// AdminUserCreate registers a user with an explicit role.
func AdminUserCreate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var payload adminCreateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		user, err := svc.CreateUser(r.Context(), admin.CreateUserInput{
			Name:     payload.Name,
			Email:    payload.Email,
			Password: payload.Password,
			Address:  payload.Address,
			Role:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AdminUserList searches and sorts the user base.
func AdminUserList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sortCol, sortOrder := validators.ParseSort(r, userSortColumns, "name")

		var role enums.UserRole
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			parsed, parseErr := enums.ParseUserRole(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid role"))
				return
			}
			role = parsed
		}

		rows, meta, err := svc.ListUsers(r.Context(), admin.ListUsersInput{
			Search:     r.URL.Query().Get("search"),
			Role:       role,
			SortColumn: sortCol,
			SortOrder:  sortOrder,
			Page:       page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, userListResponse{Users: rows, Pagination: meta})
	}
}

// AdminUserGet returns one user. Store owners carry their stores with
// aggregate ratings.
func AdminUserGet(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

type adminUpdateUserRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
	Role    *string `json:"role,omitempty"`
}

// AdminUserUpdate adjusts the mutable user fields, including the role.
func AdminUserUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminUpdateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := admin.UpdateUserInput{
			Name:    payload.Name,
			Email:   payload.Email,
			Address: payload.Address,
		}
		if payload.Role != nil {
			role, parseErr := enums.ParseUserRole(*payload.Role)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid role"))
				return
			}
			input.Role = &role
		}

		user, err := svc.UpdateUser(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminUserDelete removes a user other than the caller.
func AdminUserDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteUser(r.Context(), uid, targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

type adminCreateStoreRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Address string `json:"address"`
	OwnerID string `json:"owner_id"`
}

// AdminStoreCreate registers a store for an existing store owner.
func AdminStoreCreate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var payload adminCreateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var ownerID *uuid.UUID
		if strings.TrimSpace(payload.OwnerID) != "" {
			parsed, parseErr := parseBodyUUID(payload.OwnerID, "owner_id")
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			ownerID = &parsed
		}

		store, err := svc.CreateStore(r.Context(), stores.CreateStoreInput{
			Name:    payload.Name,
			Email:   payload.Email,
			Address: payload.Address,
			OwnerID: ownerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

// AdminStoreList searches and sorts stores with their aggregates.
func AdminStoreList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sortCol, sortOrder := validators.ParseSort(r, storeSortColumns, "s.name")

		rows, meta, err := svc.ListStores(r.Context(), stores.ListStoresInput{
			Search:     r.URL.Query().Get("search"),
			SortColumn: sortCol,
			SortOrder:  sortOrder,
			Page:       page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, storeListResponse{Stores: rows, Pagination: meta})
	}
}

type adminUpdateStoreRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
}

// AdminStoreUpdate adjusts the mutable store fields.
func AdminStoreUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminUpdateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateStore(r.Context(), storeID, stores.UpdateStoreInput{
			Name:    payload.Name,
			Email:   payload.Email,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

// AdminStoreDelete removes a store and its ratings.
func AdminStoreDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteStore(r.Context(), storeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
