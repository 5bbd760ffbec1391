package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
)

const exportTimeLayout = "2006-01-02 15:04"

// RegistryTabler flattens a registry book for export.
type RegistryTabler interface {
	Table(ctx context.Context, search string) (RegistryTable, error)
}

// ExportFile is a generated report ready to be streamed to the client.
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// ExportService renders the audit trail, registry books and distribution reports as files.
type ExportService interface {
	AuditXLSX(ctx context.Context, actor Actor, query dto.AuditQuery) (ExportFile, error)
	RegistryXLSX(ctx context.Context, actor Actor, kind models.RefKind, search string) (ExportFile, error)
	DistributionPDF(ctx context.Context, actor Actor, documentID uint) (ExportFile, error)
}

type exportService struct {
	audit        AuditService
	distribution DistributionService
	registries   map[models.RefKind]RegistryTabler
	logger       zerolog.Logger
	now          func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(audit AuditService, distribution DistributionService, registries map[models.RefKind]RegistryTabler, logger zerolog.Logger) ExportService {
	return &exportService{
		audit:        audit,
		distribution: distribution,
		registries:   registries,
		logger:       logger.With().Str("component", "export_service").Logger(),
		now:          time.Now,
	}
}

func (s *exportService) AuditXLSX(ctx context.Context, actor Actor, query dto.AuditQuery) (ExportFile, error) {
	if query.PageSize <= 0 {
		query.PageSize = maxAuditPageSize
	}
	listing, err := s.audit.Query(ctx, actor, query)
	if err != nil {
		return ExportFile{}, err
	}

	headers := []string{"Time", "Action", "Actor", "Role", "Reference", "Number", "IP address"}
	rows := make([][]interface{}, 0, len(listing.Items))
	for _, item := range listing.Items {
		kind, number := "", ""
		if item.Ref != nil {
			kind = fmt.Sprintf("%s #%d", item.Ref.Kind, item.Ref.ID)
			number = item.Ref.Number
		}
		rows = append(rows, []interface{}{
			item.CreatedAt.Format(exportTimeLayout),
			string(item.Action),
			item.Actor.Name,
			string(item.Actor.Role),
			kind,
			number,
			item.IPAddress,
		})
	}

	content, err := writeWorkbook("Audit", headers, rows)
	if err != nil {
		return ExportFile{}, err
	}
	return s.xlsx("audit_log", content), nil
}

func (s *exportService) RegistryXLSX(ctx context.Context, actor Actor, kind models.RefKind, search string) (ExportFile, error) {
	if !actor.CanSend() {
		return ExportFile{}, unauthorizedf("registry export is restricted to administrators and clerks")
	}

	tabler, ok := s.registries[kind]
	if !ok || kind == models.RefKindDocument {
		return ExportFile{}, validationf("registry %q cannot be exported", kind)
	}

	table, err := tabler.Table(ctx, search)
	if err != nil {
		return ExportFile{}, err
	}

	rows := make([][]interface{}, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		rows = append(rows, cells)
	}

	content, err := writeWorkbook(string(kind), table.Headers, rows)
	if err != nil {
		return ExportFile{}, err
	}
	return s.xlsx(strings.ReplaceAll(table.Name, " ", "_")+"_register", content), nil
}

func (s *exportService) DistributionPDF(ctx context.Context, actor Actor, documentID uint) (ExportFile, error) {
	detail, err := s.distribution.Detail(ctx, actor, documentID)
	if err != nil {
		return ExportFile{}, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Distribution report "+detail.Document.DocNumber))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr("Title: "+detail.Document.Title))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr("Sent by: "+detail.Document.CreatedBy.Name))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Sent at: "+detail.Document.CreatedAt.Format(exportTimeLayout))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Recipients: %d  Pending: %d  Read: %d  Received: %d",
		detail.Stats.Total, detail.Stats.Pending, detail.Stats.Read, detail.Stats.Received))
	pdf.Ln(10)

	widths := []float64{50, 45, 30, 32, 32}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range []string{"Name", "Department", "Status", "Read at", "Received at"} {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, recipient := range detail.Recipients {
		cells := []string{
			tr(recipient.User.Name),
			tr(recipient.User.Department),
			string(recipient.Status),
			formatOptionalTime(recipient.ReadAt),
			formatOptionalTime(recipient.ReceivedAt),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return ExportFile{}, err
	}

	return ExportFile{
		Name:        fmt.Sprintf("distribution_%d_%s.pdf", documentID, s.now().Format("2006-01-02")),
		ContentType: "application/pdf",
		Content:     buf.Bytes(),
	}, nil
}

func (s *exportService) xlsx(base string, content []byte) ExportFile {
	return ExportFile{
		Name:        fmt.Sprintf("%s_%s.xlsx", base, s.now().Format("2006-01-02")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}
}

func writeWorkbook(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	if len(headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return value.Format(exportTimeLayout)
}
