//go:build db
// +build db

package ratings

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/angelmondragon/storerater-backend/pkg/db/models"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("STORERATER_DB_DSN")
	if dsn == "" {
		t.Skip("STORERATER_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

// The list queries fan out over the connection pool, so the repo gets the
// pooled handle rather than a transaction and the test removes its rows
// in cleanup.
func TestRepositoryRatingFlow(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := &models.User{
		Name:         "Repo Rater",
		Email:        fmt.Sprintf("sr_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Role:         enums.UserRoleNormal,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM ratings WHERE user_id = ?", user.ID)
		conn.Exec("DELETE FROM users WHERE id = ?", user.ID)
	})

	store := &models.Store{
		Name:    "Repo Store",
		Email:   fmt.Sprintf("sr_store_%s@example.com", uuid.NewString()),
		Address: "123 Test Ave",
	}
	if err := conn.Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM stores WHERE id = ?", store.ID)
	})

	created, inserted, err := repo.Upsert(ctx, user.ID, store.ID, 4)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !inserted {
		t.Fatal("first upsert should report an insert")
	}
	if created.Rating != 4 {
		t.Fatalf("expected rating 4, got %d", created.Rating)
	}

	updated, inserted, err := repo.Upsert(ctx, user.ID, store.ID, 2)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if inserted {
		t.Fatal("second upsert should report an update")
	}
	if updated.ID != created.ID {
		t.Fatalf("upsert must reuse the row, got %s and %s", created.ID, updated.ID)
	}
	if updated.Rating != 2 {
		t.Fatalf("expected rating 2, got %d", updated.Rating)
	}

	byStore, total, err := repo.ListByStore(ctx, store.ID, 10, 0)
	if err != nil {
		t.Fatalf("list by store: %v", err)
	}
	if total != 1 || len(byStore) != 1 {
		t.Fatalf("expected a single rating, got total=%d rows=%d", total, len(byStore))
	}
	if byStore[0].UserEmail != user.Email {
		t.Fatalf("expected rater email %s, got %s", user.Email, byStore[0].UserEmail)
	}

	byUser, total, err := repo.ListByUser(ctx, user.ID, 10, 0)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if total != 1 || len(byUser) != 1 {
		t.Fatalf("expected a single rating, got total=%d rows=%d", total, len(byUser))
	}
	if byUser[0].StoreName != store.Name {
		t.Fatalf("expected store name %s, got %s", store.Name, byUser[0].StoreName)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, created.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
