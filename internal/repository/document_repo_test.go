package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

func TestDocumentRepositoryCreateWithRecipientsIsAtomic(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	sender := seedUser(t, db, "Sender One", models.RoleSaraban)
	x := seedUser(t, db, "Exec X", models.RoleExecutive)
	y := seedUser(t, db, "Exec Y", models.RoleExecutive)

	doc := models.Document{DocNumber: "A/001", Title: "Budget", CreatedByID: sender.ID}
	audit := models.AuditLog{UserID: sender.ID, Action: models.AuditActionSend}
	require.NoError(t, repo.CreateWithRecipients(ctx, &doc, []uint{x.ID, y.ID}, &audit))
	require.NotZero(t, doc.ID)
	require.Len(t, doc.Recipients, 2)
	require.Equal(t, doc.ID, *audit.DocumentID)
	require.Equal(t, models.RefKindDocument, *audit.RefKind)

	stats, err := repo.Stats(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, models.RecipientStats{Total: 2, Pending: 2}, stats)

	dup := models.Document{DocNumber: "A/001", Title: "Again", CreatedByID: sender.ID}
	err = repo.CreateWithRecipients(ctx, &dup, []uint{x.ID}, &models.AuditLog{UserID: sender.ID, Action: models.AuditActionSend})
	require.ErrorIs(t, err, ErrDuplicateKey)

	var recipients, audits int64
	require.NoError(t, db.Model(&models.Recipient{}).Count(&recipients).Error)
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&audits).Error)
	require.Equal(t, int64(2), recipients)
	require.Equal(t, int64(1), audits)
}

func TestDocumentRepositoryListByCreatorAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	admin := seedUser(t, db, "Admin", models.RoleAdmin)
	x := seedUser(t, db, "Exec X", models.RoleExecutive)

	first := models.Document{DocNumber: "B/001", Title: "First", CreatedByID: admin.ID}
	second := models.Document{DocNumber: "B/002", Title: "Second", CreatedByID: admin.ID}
	require.NoError(t, repo.CreateWithRecipients(ctx, &first, []uint{x.ID}, nil))
	require.NoError(t, repo.CreateWithRecipients(ctx, &second, []uint{x.ID}, nil))

	docs, err := repo.ListByCreator(ctx, admin.ID, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "B/002", docs[0].DocNumber)

	total, err := repo.CountByCreator(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	deleted, err := repo.Delete(ctx, first.ID, &models.AuditLog{UserID: admin.ID, Action: models.AuditActionDeleteDocument})
	require.NoError(t, err)
	require.Equal(t, "B/001", deleted.DocNumber)

	_, err = repo.FindByID(ctx, first.ID)
	require.ErrorIs(t, err, ErrNotFound)

	recipients, err := repo.ListRecipients(ctx, first.ID)
	require.NoError(t, err)
	require.Empty(t, recipients)

	_, err = repo.Delete(ctx, first.ID, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecipientRepositoryTransitionDetectsStaleStatus(t *testing.T) {
	db := openTestDB(t)
	docs := NewDocumentRepository(db)
	repo := NewRecipientRepository(db)
	ctx := context.Background()

	sender := seedUser(t, db, "Sender", models.RoleSaraban)
	x := seedUser(t, db, "Exec X", models.RoleExecutive)

	doc := models.Document{DocNumber: "C/001", Title: "Notice", CreatedByID: sender.ID}
	require.NoError(t, docs.CreateWithRecipients(ctx, &doc, []uint{x.ID}, nil))

	row, err := repo.FindForUser(ctx, doc.ID, x.ID)
	require.NoError(t, err)

	next := row
	next.Status = models.RecipientStatusReceived
	audit := models.AuditLog{UserID: x.ID, Action: models.AuditActionReceive, DocumentID: &doc.ID}
	require.NoError(t, repo.Transition(ctx, next, models.RecipientStatusPending, &audit))

	stale := row
	stale.Status = models.RecipientStatusRead
	err = repo.Transition(ctx, stale, models.RecipientStatusPending, &models.AuditLog{UserID: x.ID, Action: models.AuditActionRead})
	require.ErrorIs(t, err, ErrStaleWrite)

	var audits int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&audits).Error)
	require.Equal(t, int64(1), audits)

	inbox, err := repo.ListInbox(ctx, InboxFilter{UserID: x.ID})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, models.RecipientStatusReceived, inbox[0].Status)
	require.Equal(t, "Sender", inbox[0].Document.CreatedBy.Name)

	pending, err := repo.CountForUser(ctx, x.ID, models.RecipientStatusPending)
	require.NoError(t, err)
	require.Zero(t, pending)
}
