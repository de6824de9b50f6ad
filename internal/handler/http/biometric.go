package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/fresco-hris/payroll-backend/internal/pkg/storage"
	"github.com/google/uuid"
)

// maxImportSize bounds an uploaded device export workbook.
const maxImportSize = 10 << 20

type BiometricHandler interface {
	RecordPunch(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type biometricHandlerImpl struct {
	biometricService biometric.BiometricService
	archive          storage.FileStorage
}

// NewBiometricHandler builds the handler. archive may be nil, in which case
// uploaded workbooks are parsed and discarded.
func NewBiometricHandler(biometricService biometric.BiometricService, archive storage.FileStorage) BiometricHandler {
	return &biometricHandlerImpl{biometricService: biometricService, archive: archive}
}

// RecordPunch implements BiometricHandler.
func (h *biometricHandlerImpl) RecordPunch(w http.ResponseWriter, r *http.Request) {
	var req biometric.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.biometricService.RecordPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", result)
}

// Import implements BiometricHandler.
func (h *biometricHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Workbook file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		slog.Error("Failed to read uploaded workbook", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	if h.archive != nil {
		key := archiveKey(time.Now(), header.Filename)
		if _, err := h.archive.Upload(r.Context(), bytes.NewReader(content), key); err != nil {
			slog.Warn("Failed to archive punch workbook", "key", key, "error", err)
		} else {
			slog.Info("Punch workbook archived", "key", key, "size", len(content))
		}
	}

	result, err := h.biometricService.ImportPunches(r.Context(), bytes.NewReader(content))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punches imported", result)
}

// List implements BiometricHandler.
func (h *biometricHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := biometric.PunchFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
	}
	if v := r.URL.Query().Get("employee_external_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "employee_external_id must be a number", nil)
			return
		}
		filter.EmployeeNumber = &n
	}
	filter.Page, filter.Limit = pagination(r)

	result, err := h.biometricService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// archiveKey files workbooks by upload day. The random prefix keeps repeated
// uploads of the same export apart.
func archiveKey(now time.Time, filename string) string {
	name := path.Base(filename)
	if name == "." || name == "/" {
		name = "workbook.xlsx"
	}
	return fmt.Sprintf("punch-imports/%s/%s-%s", now.Format("2006/01/02"), uuid.NewString(), name)
}
