package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

func TestOrderRepositorySearchAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	clerk := seedUser(t, db, "Clerk", models.RoleSaraban)
	older := models.Order{OrderNumber: "ORD-1/2567", Title: "Appoint committee", FileURL: "/uploads/a.pdf", UploadedByID: clerk.ID, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Order{OrderNumber: "ORD-2/2567", Title: "Holiday schedule", Description: "Songkran", FileURL: "/uploads/b.pdf", UploadedByID: clerk.ID}
	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, repo.Create(ctx, &newer))

	items, total, err := repo.List(ctx, RegistryFilter{Search: "songkran", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "ORD-2/2567", items[0].OrderNumber)
	require.Equal(t, "Clerk", items[0].UploadedBy.Name)

	items, total, err = repo.List(ctx, RegistryFilter{PageSize: 1, Page: 2})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	require.Equal(t, "ORD-1/2567", items[0].OrderNumber)

	exists, err := repo.NumberExists(ctx, " ORD-1/2567 ")
	require.NoError(t, err)
	require.True(t, exists)

	require.ErrorIs(t, repo.Create(ctx, &models.Order{OrderNumber: "ORD-1/2567", Title: "dup", FileURL: "x", UploadedByID: clerk.ID}), ErrDuplicateKey)

	deleted, err := repo.Delete(ctx, older.ID)
	require.NoError(t, err)
	require.Equal(t, "/uploads/a.pdf", deleted.FileURL)

	_, err = repo.FindByID(ctx, older.ID)
	require.ErrorIs(t, err, ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestIncomingLetterRepositorySearchesSender(t *testing.T) {
	db := openTestDB(t)
	repo := NewIncomingLetterRepository(db)
	ctx := context.Background()

	clerk := seedUser(t, db, "Clerk", models.RoleSaraban)
	letter := models.IncomingLetter{
		ReceiveNumber: "IN-55",
		RefNumber:     "MOI 0808/123",
		Title:         "Flood relief",
		Date:          time.Now(),
		From:          "Provincial Office",
		To:            "Director",
		FileURL:       "/uploads/in.pdf",
		ReceiverID:    clerk.ID,
	}
	require.NoError(t, repo.Create(ctx, &letter))

	items, total, err := repo.List(ctx, RegistryFilter{Search: "provincial"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Clerk", items[0].Receiver.Name)
}
