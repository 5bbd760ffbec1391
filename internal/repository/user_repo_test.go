package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

func TestUserRepositoryCreateIfEmpty(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	admin := models.User{Name: "Admin", Email: " Admin@Example.go.th ", PasswordHash: "h", Position: "IT", Department: "IT", Role: models.RoleAdmin, IsActive: true}
	created, err := repo.CreateIfEmpty(ctx, &admin)
	require.NoError(t, err)
	require.True(t, created)

	second := models.User{Name: "Second", Email: "second@example.go.th", PasswordHash: "h", Position: "IT", Department: "IT", Role: models.RoleAdmin}
	created, err = repo.CreateIfEmpty(ctx, &second)
	require.NoError(t, err)
	require.False(t, created)

	found, err := repo.FindByEmail(ctx, "ADMIN@example.go.th")
	require.NoError(t, err)
	require.Equal(t, admin.ID, found.ID)

	dup := models.User{Name: "Dup", Email: "admin@example.go.th", PasswordHash: "h", Position: "IT", Department: "IT", Role: models.RoleStaff}
	require.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicateKey)
}

func TestUserRepositoryActiveFiltering(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	active := seedUser(t, db, "Active One", models.RoleExecutive)
	inactive := models.User{Name: "Pending", Email: "pending@example.go.th", PasswordHash: "h", Position: "Clerk", Department: "Ops", Role: models.RoleStaff}
	require.NoError(t, repo.Create(ctx, &inactive))

	users, err := repo.FindActiveByIDs(ctx, []uint{active.ID, inactive.ID, 404})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, active.ID, users[0].ID)

	updated, err := repo.Update(ctx, inactive.ID, map[string]interface{}{"is_active": true, "role": models.RoleExecutive})
	require.NoError(t, err)
	require.True(t, updated.IsActive)
	require.Equal(t, models.RoleExecutive, updated.Role)

	_, err = repo.Update(ctx, 404, map[string]interface{}{"is_active": true})
	require.ErrorIs(t, err, ErrNotFound)

	isActive := true
	listed, total, err := repo.List(ctx, UserFilter{Active: &isActive, Search: "ops"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Pending", listed[0].Name)
}
