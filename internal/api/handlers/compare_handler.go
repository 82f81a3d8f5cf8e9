package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"two-doc-checker/internal/dto"
	"two-doc-checker/internal/models"
	"two-doc-checker/internal/service"
	"two-doc-checker/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	unreadableDetail  = "Couldn't read document text. Try a different file."
	modelFailedDetail = "Language model call failed"
)

// Comparer runs one invoice-vs-governing comparison.
type Comparer interface {
	Compare(ctx context.Context, invoice, governing models.UploadedDocument, force bool) (*dto.ComparisonResponse, error)
}

// FindingsExporter renders a comparison as a file.
type FindingsExporter interface {
	ExportCSV(findings []dto.Finding) []byte
	ExportXLSX(resp *dto.ComparisonResponse) ([]byte, error)
}

type CompareHandler struct {
	comparer       Comparer
	exporter       FindingsExporter
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewCompareHandler(comparer Comparer, exporter FindingsExporter, maxUploadBytes int64, logger *zap.Logger) *CompareHandler {
	return &CompareHandler{
		comparer:       comparer,
		exporter:       exporter,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Compare godoc
// @Summary Compare an invoice with its contract or purchase order
// @Description Extracts text from both files (OCR for scanned PDFs), scores relatedness and lists discrepancies when related or forced
// @Tags compare
// @Accept multipart/form-data
// @Produce json
// @Param invoice formData file true "Invoice (.pdf, .docx or .txt)"
// @Param governing formData file true "Contract or purchase order (.pdf, .docx or .txt)"
// @Param force formData bool false "Run the discrepancy check even when the documents look unrelated"
// @Success 200 {object} dto.ComparisonResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /compare [post]
func (h *CompareHandler) Compare(c *fiber.Ctx) error {
	requestID := middleware.GetRequestID(c)

	force, err := parseFormBool(c.FormValue("force"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Detail: "force must be a boolean",
		})
	}

	invoice, err := h.readUpload(c, "invoice")
	if err != nil {
		return h.uploadError(c, err)
	}
	governing, err := h.readUpload(c, "governing")
	if err != nil {
		return h.uploadError(c, err)
	}

	resp, err := h.comparer.Compare(c.Context(), invoice, governing, force)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: h.tooLargeDetail()})
		case errors.Is(err, service.ErrUnreadableDocument):
			h.logger.Info("Unreadable document",
				zap.String("request_id", requestID),
				zap.String("invoice", invoice.Filename),
				zap.String("governing", governing.Filename),
			)
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: unreadableDetail})
		case errors.Is(err, service.ErrModelUnavailable):
			h.logger.Error("Model call failed", zap.String("request_id", requestID), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Detail: modelFailedDetail})
		default:
			h.logger.Error("Comparison failed", zap.String("request_id", requestID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Detail: "Comparison failed"})
		}
	}

	return c.JSON(resp)
}

// Export godoc
// @Summary Export comparison findings
// @Description Converts a comparison result into a CSV of findings or an XLSX workbook with findings and summary sheets
// @Tags compare
// @Accept json
// @Produce octet-stream
// @Param format query string true "csv or xlsx"
// @Param result body dto.ComparisonResponse true "Result returned by /compare"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /compare/export [post]
func (h *CompareHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "csv"))
	if format != "csv" && format != "xlsx" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Detail: fmt.Sprintf("unsupported format %q (use csv or xlsx)", format),
		})
	}

	var result dto.ComparisonResponse
	if err := c.BodyParser(&result); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Detail: "Invalid request body",
		})
	}

	if format == "csv" {
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="findings.csv"`)
		return c.Send(h.exporter.ExportCSV(result.Findings))
	}

	data, err := h.exporter.ExportXLSX(&result)
	if err != nil {
		h.logger.Error("Failed to build workbook",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Detail: "Failed to build workbook",
		})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="comparison.xlsx"`)
	return c.Send(data)
}

type uploadErr struct {
	field   string
	tooBig  bool
	missing bool
	err     error
}

func (e *uploadErr) Error() string {
	return fmt.Sprintf("%s: %v", e.field, e.err)
}

// readUpload loads one multipart file, rejecting it from the part header
// when it is over the size limit.
func (h *CompareHandler) readUpload(c *fiber.Ctx, field string) (models.UploadedDocument, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return models.UploadedDocument{}, &uploadErr{field: field, missing: true, err: err}
	}
	if header.Size > h.maxUploadBytes {
		return models.UploadedDocument{}, &uploadErr{field: field, tooBig: true, err: service.ErrFileTooLarge}
	}

	data, err := readMultipartFile(header, h.maxUploadBytes)
	if err != nil {
		return models.UploadedDocument{}, &uploadErr{field: field, err: err}
	}
	if int64(len(data)) > h.maxUploadBytes {
		return models.UploadedDocument{}, &uploadErr{field: field, tooBig: true, err: service.ErrFileTooLarge}
	}
	return models.UploadedDocument{Filename: header.Filename, Data: data}, nil
}

func readMultipartFile(header *multipart.FileHeader, limit int64) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (h *CompareHandler) uploadError(c *fiber.Ctx, err error) error {
	var ue *uploadErr
	if errors.As(err, &ue) {
		switch {
		case ue.tooBig:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: h.tooLargeDetail()})
		case ue.missing:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Detail: fmt.Sprintf("%s file is required", ue.field),
			})
		}
	}
	h.logger.Warn("Failed to read upload", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Detail: "Failed to read uploaded file"})
}

func (h *CompareHandler) tooLargeDetail() string {
	return fmt.Sprintf("File too large (max %d MB)", h.maxUploadBytes/(1024*1024))
}

// parseFormBool accepts the usual HTML form spellings. Empty means false.
func parseFormBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return false, nil
	case "yes", "on", "y":
		return true, nil
	case "no", "off", "n":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}
