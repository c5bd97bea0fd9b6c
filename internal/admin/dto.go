package admin

import (
	"github.com/angelmondragon/storerater-backend/internal/stores"
	"github.com/angelmondragon/storerater-backend/internal/users"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	"github.com/angelmondragon/storerater-backend/pkg/pagination"
)

// DashboardDTO summarizes platform totals for the admin landing view.
type DashboardDTO struct {
	TotalUsers   int64            `json:"total_users"`
	TotalStores  int64            `json:"total_stores"`
	TotalRatings int64            `json:"total_ratings"`
	UsersByRole  map[string]int64 `json:"users_by_role"`
}

// CreateUserInput registers a user with an explicit role.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     enums.UserRole
}

// ListUsersInput captures admin user-listing filters. SortColumn must already
// be resolved against a whitelist by the caller.
type ListUsersInput struct {
	Search     string
	Role       enums.UserRole
	SortColumn string
	SortOrder  string
	Page       pagination.Params
}

// UpdateUserInput captures the mutable user fields for admin edits. A nil
// field is left untouched.
type UpdateUserInput struct {
	Name    *string
	Email   *string
	Address *string
	Role    *enums.UserRole
}

// UserDetailDTO is a user enriched with their stores when they own any.
type UserDetailDTO struct {
	users.UserDTO
	Stores []stores.StoreDTO `json:"stores,omitempty"`
}
