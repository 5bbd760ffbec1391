package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/handler"
	"github.com/noah-isme/saraban-go-api/internal/middleware"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/service"
)

type stubDistributionService struct {
	detail dto.DocumentDetailResponse
	inbox  []dto.InboxItemResponse
}

func (s stubDistributionService) Create(context.Context, service.Actor, dto.CreateDocumentRequest, *multipart.FileHeader) (dto.DocumentResponse, error) {
	return dto.DocumentResponse{}, service.ErrUnauthorized
}

func (s stubDistributionService) Advance(context.Context, service.Actor, uint, string) (dto.RecipientResponse, error) {
	return dto.RecipientResponse{}, service.ErrInvalidTransition
}

func (s stubDistributionService) ListInbox(context.Context, service.Actor, dto.InboxQuery) ([]dto.InboxItemResponse, error) {
	return s.inbox, nil
}

func (s stubDistributionService) Stats(context.Context, uint) (dto.StatsResponse, error) {
	return s.detail.Stats, nil
}

func (s stubDistributionService) Detail(context.Context, service.Actor, uint) (dto.DocumentDetailResponse, error) {
	return s.detail, nil
}

func (s stubDistributionService) ListSent(context.Context, service.Actor, int) ([]dto.SentDocumentResponse, error) {
	return nil, nil
}

func (s stubDistributionService) Delete(context.Context, service.Actor, uint) error {
	return nil
}

type stubExportService struct{}

func (stubExportService) AuditXLSX(context.Context, service.Actor, dto.AuditQuery) (service.ExportFile, error) {
	return service.ExportFile{}, nil
}

func (stubExportService) RegistryXLSX(context.Context, service.Actor, models.RefKind, string) (service.ExportFile, error) {
	return service.ExportFile{}, nil
}

func (stubExportService) DistributionPDF(context.Context, service.Actor, uint) (service.ExportFile, error) {
	return service.ExportFile{}, nil
}

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func fixture() stubDistributionService {
	now := time.Now().UTC().Truncate(time.Second)
	readAt := now.Add(-time.Hour)
	receivedAt := now.Add(-30 * time.Minute)
	documentID := uint(7)

	sender := dto.UserSummary{ID: 1, Name: "Saraban Desk", Role: models.RoleSaraban}
	document := dto.DocumentResponse{
		ID:          documentID,
		DocNumber:   "ศธ 0401/112",
		Title:       "Budget circular",
		Description: "Fiscal year allocations",
		FileURL:     "/uploads/2024/03/budget.pdf",
		CreatedBy:   sender,
		CreatedAt:   now.Add(-2 * time.Hour),
	}

	recipients := []dto.RecipientResponse{
		{ID: 11, DocumentID: documentID, User: dto.UserSummary{ID: 2, Name: "Director", Role: models.RoleExecutive}, Status: models.RecipientStatusReceived, ReadAt: &readAt, ReceivedAt: &receivedAt, CreatedAt: document.CreatedAt},
		{ID: 12, DocumentID: documentID, User: dto.UserSummary{ID: 3, Name: "Clerk", Role: models.RoleStaff}, Status: models.RecipientStatusPending, CreatedAt: document.CreatedAt},
	}

	trail := []dto.AuditLogResponse{
		{ID: 1, Action: models.AuditActionSend, Actor: sender, DocumentID: &documentID, Ref: &dto.AuditRefResponse{Kind: models.RefKindDocument, ID: documentID, Number: document.DocNumber}, CreatedAt: document.CreatedAt},
		{ID: 2, Action: models.AuditActionRead, Actor: recipients[0].User, DocumentID: &documentID, Ref: &dto.AuditRefResponse{Kind: models.RefKindDocument, ID: documentID}, CreatedAt: readAt},
		{ID: 3, Action: models.AuditActionReceive, Actor: recipients[0].User, DocumentID: &documentID, Ref: &dto.AuditRefResponse{Kind: models.RefKindDocument, ID: documentID}, CreatedAt: receivedAt},
	}

	return stubDistributionService{
		detail: dto.DocumentDetailResponse{
			Document:   document,
			Stats:      dto.StatsResponse{Total: 2, Pending: 1, Received: 1},
			Recipients: recipients,
			AuditTrail: trail,
		},
		inbox: []dto.InboxItemResponse{
			{RecipientID: 11, Status: models.RecipientStatusReceived, ReadAt: &readAt, ReceivedAt: &receivedAt, ReceivedOn: document.CreatedAt, Document: document},
		},
	}
}

func newContractApp(svc stubDistributionService, userID uint, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, userID)
		c.Locals(middleware.LocalUserRole, role)
		return c.Next()
	})
	handler.NewDocumentHandler(svc, stubExportService{}, zerolog.Nop()).Register(group.Group("/documents"))
	handler.NewRecipientHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func fetchPayload(t *testing.T, app *fiber.App, req *http.Request, expectedStatus int) interface{} {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestDocumentDetailContract(t *testing.T) {
	schema := compileSchema(t, "document_detail.schema.json")
	app := newContractApp(fixture(), 1, string(models.RoleSaraban))

	payload := fetchPayload(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/documents/7", nil), http.StatusOK)
	require.NoError(t, schema.Validate(payload))
}

func TestInboxContract(t *testing.T) {
	schema := compileSchema(t, "inbox.schema.json")
	app := newContractApp(fixture(), 2, string(models.RoleExecutive))

	payload := fetchPayload(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/inbox?status=RECEIVED", nil), http.StatusOK)
	require.NoError(t, schema.Validate(payload))
}

func TestErrorEnvelopeContract(t *testing.T) {
	schema := compileSchema(t, "envelope.schema.json")
	app := newContractApp(fixture(), 2, string(models.RoleExecutive))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipients/11/status", strings.NewReader(`{"status":"READ"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	payload := fetchPayload(t, app, req, http.StatusConflict)
	require.NoError(t, schema.Validate(payload))

	body := payload.(map[string]interface{})
	require.Equal(t, false, body["success"])
}
