// handlers.go - Document check operation handlers
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/entity"
	"github.com/shipper-lite/backend/internal/pipeline"
	"github.com/shipper-lite/backend/internal/report"
	"github.com/shipper-lite/backend/internal/store"
)

// DocumentHandler serves the document-check API surface.
type DocumentHandler struct {
	store     store.DocumentStore
	processor *pipeline.Processor
	uploadDir string
	logger    *slog.Logger
}

func NewDocumentHandler(st store.DocumentStore, proc *pipeline.Processor, uploadDir string, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentHandler{store: st, processor: proc, uploadDir: uploadDir, logger: logger}
}

type uploadResponse struct {
	DocumentID string                     `json:"document_id"`
	Status     constants.ProcessingStatus `json:"status"`
	Message    string                     `json:"message"`
}

type checkRequest struct {
	InvoiceText     string `json:"invoice_text"`
	PackingListText string `json:"packing_list_text"`
}

// HandleUpload accepts an invoice and a packing list as multipart files,
// runs the full check, and stores the result.
func (h *DocumentHandler) HandleUpload(c echo.Context) error {
	invoice, err := c.FormFile("invoice")
	if err != nil {
		return NewBadRequestError("invoice file is required", err)
	}
	packingList, err := c.FormFile("packing_list")
	if err != nil {
		return NewBadRequestError("packing_list file is required", err)
	}
	for _, f := range []*multipart.FileHeader{invoice, packingList} {
		if err := checkContentType(f); err != nil {
			return err
		}
	}

	invoicePath, cleanupInvoice, err := h.saveUpload(invoice, "invoice-")
	if err != nil {
		return NewInternalError("failed to store invoice upload", err)
	}
	defer cleanupInvoice()
	packingPath, cleanupPacking, err := h.saveUpload(packingList, "packing-")
	if err != nil {
		return NewInternalError("failed to store packing list upload", err)
	}
	defer cleanupPacking()

	ctx := c.Request().Context()
	check := &entity.DocumentCheck{
		ID:                  uuid.New(),
		Status:              constants.StatusProcessing,
		InvoiceFilename:     invoice.Filename,
		PackingListFilename: packingList.Filename,
	}
	if err := h.store.Create(ctx, check); err != nil {
		return NewInternalError("failed to create document check", err)
	}

	result := h.processor.CheckFiles(ctx, check.ID, invoicePath, packingPath)

	check.Status = constants.StatusCompleted
	check.InvoiceFields = result.InvoiceFields
	check.PackingListFields = result.PackingListFields
	check.Report = &result.Report
	if err := h.store.Update(ctx, check); err != nil {
		return NewInternalError("failed to store check result", err)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		DocumentID: check.ID.String(),
		Status:     check.Status,
		Message:    "Documents processed successfully",
	})
}

// HandleCheckText accepts already-extracted text for both documents as JSON,
// validated against a schema, and runs the same check as an upload.
func (h *DocumentHandler) HandleCheckText(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewBadRequestError("failed to read request body", err)
	}
	if err := validateJSONAgainstSchema(checkRequestSchema, body); err != nil {
		return NewBadRequestError("invalid check request", err)
	}
	var req checkRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	ctx := c.Request().Context()
	check := &entity.DocumentCheck{
		ID:     uuid.New(),
		Status: constants.StatusProcessing,
	}
	if err := h.store.Create(ctx, check); err != nil {
		return NewInternalError("failed to create document check", err)
	}

	result := h.processor.CheckText(check.ID, req.InvoiceText, req.PackingListText)

	check.Status = constants.StatusCompleted
	check.InvoiceFields = result.InvoiceFields
	check.PackingListFields = result.PackingListFields
	check.Report = &result.Report
	if err := h.store.Update(ctx, check); err != nil {
		return NewInternalError("failed to store check result", err)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		DocumentID: check.ID.String(),
		Status:     check.Status,
		Message:    "Documents processed successfully",
	})
}

// HandleStatus returns the processing status of a document check.
func (h *DocumentHandler) HandleStatus(c echo.Context) error {
	check, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}
	return c.JSON(http.StatusOK, map[string]any{
		"document_id":           check.ID.String(),
		"status":                check.Status,
		"invoice_filename":      check.InvoiceFilename,
		"packing_list_filename": check.PackingListFilename,
	})
}

// HandleReport returns the compliance report for a completed check.
func (h *DocumentHandler) HandleReport(c echo.Context) error {
	check, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}
	if check.Status != constants.StatusCompleted {
		return NewConflictError(fmt.Sprintf("document processing not completed, current status: %s", check.Status))
	}
	if check.Report == nil {
		return NewInternalError("report not found", nil)
	}
	return c.JSON(http.StatusOK, check.Report)
}

// HandleFields returns the user-visible extracted fields. Internal fields
// are filtered out.
func (h *DocumentHandler) HandleFields(c echo.Context) error {
	check, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}
	return c.JSON(http.StatusOK, map[string]any{
		"document_id":         check.ID.String(),
		"status":              check.Status,
		"invoice_fields":      entity.VisibleFields(check.InvoiceFields),
		"packing_list_fields": entity.VisibleFields(check.PackingListFields),
	})
}

// HandleDebug exposes the raw extraction results, including the "_error"
// sentinels the visible-field filter hides.
func (h *DocumentHandler) HandleDebug(c echo.Context) error {
	check, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}

	errValues := func(fields []entity.ExtractedField) []string {
		values := make([]string, 0, 1)
		for _, f := range entity.ErrorFields(fields) {
			values = append(values, f.Value)
		}
		return values
	}

	resp := map[string]any{
		"document_id":           check.ID.String(),
		"status":                check.Status,
		"invoice_filename":      check.InvoiceFilename,
		"packing_list_filename": check.PackingListFilename,
		"invoice_errors":        errValues(check.InvoiceFields),
		"packing_list_errors":   errValues(check.PackingListFields),
		"invoice_fields":        check.InvoiceFields,
		"packing_list_fields":   check.PackingListFields,
	}
	if check.Report != nil {
		resp["validations"] = check.Report.Validations
		resp["overall_status"] = check.Report.OverallStatus
		resp["fix_instructions"] = check.Report.FixInstructions
	} else {
		resp["overall_status"] = "unknown"
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleReportXLSX streams the report as an XLSX workbook.
func (h *DocumentHandler) HandleReportXLSX(c echo.Context) error {
	check, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}
	if check.Status != constants.StatusCompleted || check.Report == nil {
		return NewConflictError(fmt.Sprintf("document processing not completed, current status: %s", check.Status))
	}

	b, err := report.WriteXLSX(*check.Report)
	if err != nil {
		return NewInternalError("report export failed", err)
	}
	filename := fmt.Sprintf("shipper_report_%s.xlsx", check.ID.String()[:8])
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}

func (h *DocumentHandler) lookup(c echo.Context) (*entity.DocumentCheck, *APIError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, NewBadRequestError("invalid document id", err)
	}
	check, err := h.store.Get(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewNotFoundError("document", id.String())
	}
	if err != nil {
		return nil, NewInternalError("failed to load document check", err)
	}
	return check, nil
}

// saveUpload copies a multipart file into the upload dir (or the OS temp
// dir), preserving the extension so the text extractor can dispatch on it.
func (h *DocumentHandler) saveUpload(fh *multipart.FileHeader, prefix string) (string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	dst, err := os.CreateTemp(h.uploadDir, prefix+"*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(dst.Name()) }
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		cleanup()
		return "", nil, err
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return dst.Name(), cleanup, nil
}

func checkContentType(fh *multipart.FileHeader) error {
	ct := fh.Header.Get(echo.HeaderContentType)
	if _, ok := constants.AllowedContentTypes[ct]; !ok {
		return NewBadRequestError(
			fmt.Sprintf("invalid file type %q for %s, allowed: PDF, PNG, JPG, TXT", ct, fh.Filename), nil)
	}
	return nil
}
