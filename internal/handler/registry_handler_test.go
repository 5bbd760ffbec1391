package handler_test

import (
	"context"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/handler"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/service"
)

type mockLetterService struct {
	lastCreate dto.CreateLetterRequest
	lastFile   *multipart.FileHeader
	lastQuery  dto.RegistryQuery
	deleted    []uint
	err        error
}

func (m *mockLetterService) Create(_ context.Context, _ service.Actor, req dto.CreateLetterRequest, file *multipart.FileHeader) (dto.LetterResponse, error) {
	m.lastCreate, m.lastFile = req, file
	if m.err != nil {
		return dto.LetterResponse{}, m.err
	}
	return dto.LetterResponse{ID: 1, LetterNumber: req.LetterNumber, Title: req.Title, Date: req.Date, To: req.To}, nil
}

func (m *mockLetterService) List(_ context.Context, query dto.RegistryQuery) (dto.RegistryListResponse[dto.LetterResponse], error) {
	m.lastQuery = query
	return dto.RegistryListResponse[dto.LetterResponse]{
		Items:      []dto.LetterResponse{{ID: 1, LetterNumber: "OUT-1"}},
		Pagination: dto.NewPaginationMeta(1, 20, 1),
	}, m.err
}

func (m *mockLetterService) Get(_ context.Context, id uint) (dto.LetterResponse, error) {
	if m.err != nil {
		return dto.LetterResponse{}, m.err
	}
	return dto.LetterResponse{ID: id}, nil
}

func (m *mockLetterService) Delete(_ context.Context, _ service.Actor, id uint) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockLetterService) Count(context.Context) (int64, error) { return 1, m.err }

func (m *mockLetterService) Table(context.Context, string) (service.RegistryTable, error) {
	return service.RegistryTable{}, m.err
}

func newLetterApp(svc *mockLetterService, exports *mockExportService, role string) *fiber.App {
	app := fiber.New()
	handler.NewLetterHandler(svc, exports, discardLogger()).Register(app.Group("/api/v1/letters", withActor(3, role)))
	return app
}

func TestRegistryHandler_CreateParsesForm(t *testing.T) {
	svc := &mockLetterService{}
	app := newLetterApp(svc, &mockExportService{}, "STAFF")

	req := multipartRequest(t, http.MethodPost, "/api/v1/letters", map[string]string{
		"letter_number": "OUT-7",
		"title":         "Invitation",
		"date":          "2024-03-05",
		"to":            "Provincial office",
	}, "letter.pdf", []byte("%PDF-1.4"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Equal(t, "OUT-7", svc.lastCreate.LetterNumber)
	require.Equal(t, "Provincial office", svc.lastCreate.To)
	require.True(t, svc.lastCreate.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, svc.lastFile)
}

func TestRegistryHandler_CreateRejectsBadDate(t *testing.T) {
	svc := &mockLetterService{}
	app := newLetterApp(svc, &mockExportService{}, "STAFF")

	req := multipartRequest(t, http.MethodPost, "/api/v1/letters", map[string]string{"letter_number": "OUT-8", "date": "05/03/2024"}, "", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegistryHandler_DuplicateNumberConflicts(t *testing.T) {
	svc := &mockLetterService{err: service.ErrDuplicateKey}
	app := newLetterApp(svc, &mockExportService{}, "STAFF")

	req := multipartRequest(t, http.MethodPost, "/api/v1/letters", map[string]string{"letter_number": "OUT-1", "title": "x", "date": "2024-03-05", "to": "y"}, "a.pdf", []byte("%PDF"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRegistryHandler_ListPassesSearch(t *testing.T) {
	svc := &mockLetterService{}
	app := newLetterApp(svc, &mockExportService{}, "STAFF")

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/letters?search=invite&page=2&pageSize=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.RegistryQuery{Search: "invite", Page: 2, PageSize: 5}, svc.lastQuery)

	var body struct {
		Data []dto.LetterResponse `json:"data"`
		Meta dto.PaginationMeta   `json:"meta"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 1)
	require.Equal(t, int64(1), body.Meta.TotalItems)
}

func TestRegistryHandler_DeleteAndExportRoles(t *testing.T) {
	svc := &mockLetterService{}
	exports := &mockExportService{}

	resp, err := newLetterApp(svc, exports, "STAFF").Test(jsonRequest(t, http.MethodDelete, "/api/v1/letters/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = newLetterApp(svc, exports, "STAFF").Test(jsonRequest(t, http.MethodGet, "/api/v1/letters/export", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = newLetterApp(svc, exports, "SARABAN").Test(jsonRequest(t, http.MethodGet, "/api/v1/letters/export", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, models.RefKindLetter, exports.lastKind)

	resp, err = newLetterApp(svc, exports, "ADMIN").Test(jsonRequest(t, http.MethodDelete, "/api/v1/letters/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, []uint{1}, svc.deleted)
}
