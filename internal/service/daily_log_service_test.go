package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

func TestDailyLogsAreOwnedByAuthor(t *testing.T) {
	db := openTestDB(t)
	svc := NewDailyLogService(repository.NewDailyLogRepository(db), testValidator())
	writer := seedUser(t, db, "Writer", models.RoleStaff)
	other := seedUser(t, db, "Other", models.RoleStaff)
	ctx := context.Background()

	_, err := svc.Create(ctx, actorOf(writer), dto.CreateDailyLogRequest{Content: "   "})
	require.ErrorIs(t, err, ErrValidation)

	yesterday := time.Now().Add(-24 * time.Hour)
	_, err = svc.Create(ctx, actorOf(writer), dto.CreateDailyLogRequest{Date: &yesterday, Content: "Filed incoming letters"})
	require.NoError(t, err)
	today, err := svc.Create(ctx, actorOf(writer), dto.CreateDailyLogRequest{Content: "Sent circular A/001", Note: "urgent"})
	require.NoError(t, err)

	entries, err := svc.List(ctx, actorOf(writer), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, today.ID, entries[0].ID)
	require.Equal(t, "urgent", entries[0].Note)

	entries, err = svc.List(ctx, actorOf(other), 0)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = svc.List(ctx, Actor{}, 0)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestDailyLogStripsMarkup(t *testing.T) {
	db := openTestDB(t)
	svc := NewDailyLogService(repository.NewDailyLogRepository(db), testValidator())
	writer := seedUser(t, db, "Writer", models.RoleStaff)
	ctx := context.Background()

	_, err := svc.Create(ctx, actorOf(writer), dto.CreateDailyLogRequest{Content: "<i></i>"})
	require.ErrorIs(t, err, ErrValidation)

	entry, err := svc.Create(ctx, actorOf(writer), dto.CreateDailyLogRequest{Content: "<b>Filed</b> letters", Note: "<img src=x onerror=alert(1)>Q&A"})
	require.NoError(t, err)
	require.Equal(t, "Filed letters", entry.Content)
	require.Equal(t, "Q&A", entry.Note)
}
