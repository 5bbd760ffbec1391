package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

func TestExportAuditWorkbook(t *testing.T) {
	f := newDistributionFixture(t)
	ctx := context.Background()
	doc := f.send(t, "E/001", f.alice.ID)

	audit := NewAuditService(repository.NewAuditLogRepository(f.db), testLogger())
	svc := NewExportService(audit, f.svc, nil, testLogger())

	_, err := svc.AuditXLSX(ctx, actorOf(f.sender), dto.AuditQuery{})
	require.ErrorIs(t, err, ErrUnauthorized)

	file, err := svc.AuditXLSX(ctx, actorOf(f.admin), dto.AuditQuery{})
	require.NoError(t, err)
	require.Contains(t, file.Name, "audit_log_")

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Audit")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Action", rows[0][1])
	require.Equal(t, "SEND", rows[1][1])
	require.Equal(t, doc.DocNumber, rows[1][5])
}

func TestExportRegistryWorkbook(t *testing.T) {
	db := openTestDB(t)
	clerk := seedUser(t, db, "Clerk", models.RoleSaraban)
	staff := seedUser(t, db, "Staff", models.RoleStaff)
	audit := NewAuditService(repository.NewAuditLogRepository(db), testLogger())
	uploads := NewUploadService(map[string]FileStorage{BackendLocal: &storageStub{}}, BackendLocal, repository.NewUploadRepository(db), 5<<20, testLogger())
	orders := NewOrderService(repository.NewOrderRepository(db), audit, uploads, testValidator(), testLogger())

	_, err := orders.Create(context.Background(), actorOf(clerk), dto.CreateOrderRequest{OrderNumber: "ORD-9", Title: "Duty roster"}, pdfFile(t, "roster.pdf"))
	require.NoError(t, err)

	svc := NewExportService(audit, nil, map[models.RefKind]RegistryTabler{models.RefKindOrder: orders}, testLogger())

	_, err = svc.RegistryXLSX(context.Background(), actorOf(staff), models.RefKindOrder, "")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.RegistryXLSX(context.Background(), actorOf(clerk), models.RefKindLetter, "")
	require.ErrorIs(t, err, ErrValidation)

	file, err := svc.RegistryXLSX(context.Background(), actorOf(clerk), models.RefKindOrder, "roster")
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Order")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "ORD-9", rows[1][0])
	require.Equal(t, "Clerk", rows[1][4])
}

func TestExportDistributionPDF(t *testing.T) {
	f := newDistributionFixture(t)
	doc := f.send(t, "E/002", f.alice.ID, f.bob.ID)

	svc := NewExportService(nil, f.svc, nil, testLogger())
	file, err := svc.DistributionPDF(context.Background(), actorOf(f.sender), doc.ID)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", file.ContentType)
	require.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))

	_, err = svc.DistributionPDF(context.Background(), actorOf(f.sender), doc.ID+50)
	require.ErrorIs(t, err, ErrNotFound)
}
