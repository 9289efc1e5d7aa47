package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mineworks/giftissue/modules/gifting/domain/importplan"
	"github.com/mineworks/giftissue/modules/gifting/infrastructure/persistence"
	"github.com/mineworks/giftissue/modules/gifting/services"
	"github.com/mineworks/giftissue/pkg/excel"
	"github.com/mineworks/giftissue/pkg/httpapi"
	"github.com/mineworks/giftissue/pkg/middleware"
	"github.com/mineworks/giftissue/pkg/serrors"
)

// ImportController exposes the ingestion pipeline over HTTP: workbook
// preview, slot suggestions, both import modes, the bundled template and the
// audit trail of past runs.
type ImportController struct {
	imports       *services.ImportService
	templates     *services.TemplateService
	log           *logrus.Logger
	basePath      string
	maxUploadSize int64
}

func NewImportController(
	imports *services.ImportService,
	templates *services.TemplateService,
	log *logrus.Logger,
	maxUploadSize int64,
) *ImportController {
	return &ImportController{
		imports:       imports,
		templates:     templates,
		log:           log,
		basePath:      "/gifting/api",
		maxUploadSize: maxUploadSize,
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/import/template", c.downloadTemplate).Methods(http.MethodGet)
	router.HandleFunc("/import/preview", c.preview).Methods(http.MethodPost)
	router.HandleFunc("/import/suggest", c.suggest).Methods(http.MethodPost)
	router.HandleFunc("/import/employee-table", c.importEmployeeTable).Methods(http.MethodPost)
	router.HandleFunc("/import/gift-sheets", c.importGiftSheets).Methods(http.MethodPost)
	router.HandleFunc("/issuings/{id}/slots", c.listSlots).Methods(http.MethodGet)
	router.HandleFunc("/issuings/{id}/runs", c.listRuns).Methods(http.MethodGet)
}

type columnMappingDTO struct {
	EmployeeNumber string  `json:"employeeNumber"`
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
}

type slotRuleDTO struct {
	Mode   string `json:"mode"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

type employeeTableMappingDTO struct {
	IssuingID uuid.UUID              `json:"issuingId"`
	SheetName string                 `json:"sheetName"`
	Columns   columnMappingDTO       `json:"columns"`
	Rules     map[string]slotRuleDTO `json:"rules"`
}

type giftSheetsMappingDTO struct {
	IssuingID  uuid.UUID         `json:"issuingId"`
	SheetSlots map[string]string `json:"sheetSlots"`
}

type slotDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsChoice bool      `json:"isChoice"`
}

type runDTO struct {
	ID         uuid.UUID          `json:"id"`
	Mode       importplan.Mode    `json:"mode"`
	Summary    importplan.Summary `json:"summary"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt time.Time          `json:"finishedAt"`
}

func (c *ImportController) downloadTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := c.templates.EmployeeTemplate()
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.TemplateFilename+`"`)
	_, _ = w.Write(data)
}

func (c *ImportController) preview(w http.ResponseWriter, r *http.Request) {
	data, ok := c.workbookBytes(w, r)
	if !ok {
		return
	}
	preview, err := c.imports.Preview(data)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, preview)
}

func (c *ImportController) suggest(w http.ResponseWriter, r *http.Request) {
	issuingID, err := uuid.Parse(r.URL.Query().Get("issuing_id"))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "issuing_id must be a valid uuid", nil)
		return
	}
	data, ok := c.workbookBytes(w, r)
	if !ok {
		return
	}
	wb, err := excel.Parse(data)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	suggestions, err := c.imports.SuggestSlots(r.Context(), issuingID, wb.SheetNames)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, suggestions)
}

func (c *ImportController) importEmployeeTable(w http.ResponseWriter, r *http.Request) {
	data, ok := c.workbookBytes(w, r)
	if !ok {
		return
	}
	var mapping employeeTableMappingDTO
	if !c.decodeMapping(w, r, &mapping) {
		return
	}
	wb, err := excel.Parse(data)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rules := make(map[uuid.UUID]importplan.SlotRule, len(mapping.Rules))
	for rawID, rule := range mapping.Rules {
		slotID, err := uuid.Parse(rawID)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "rule slot ids must be valid uuids", nil)
			return
		}
		rules[slotID] = importplan.SlotRule{
			Mode:   importplan.RuleMode(rule.Mode),
			Column: rule.Column,
			Value:  rule.Value,
		}
	}

	summary, err := c.imports.ImportEmployeeTable(r.Context(), services.EmployeeTableParams{
		IssuingID: mapping.IssuingID,
		Workbook:  wb,
		SheetName: mapping.SheetName,
		Columns: importplan.ColumnMapping{
			EmployeeNumber: mapping.Columns.EmployeeNumber,
			FirstName:      mapping.Columns.FirstName,
			LastName:       mapping.Columns.LastName,
		},
		Rules: rules,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, summary)
}

func (c *ImportController) importGiftSheets(w http.ResponseWriter, r *http.Request) {
	data, ok := c.workbookBytes(w, r)
	if !ok {
		return
	}
	var mapping giftSheetsMappingDTO
	if !c.decodeMapping(w, r, &mapping) {
		return
	}
	wb, err := excel.Parse(data)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	sheetSlots := make(map[string]uuid.UUID, len(mapping.SheetSlots))
	for sheetName, rawID := range mapping.SheetSlots {
		if rawID == "" {
			sheetSlots[sheetName] = uuid.Nil
			continue
		}
		slotID, err := uuid.Parse(rawID)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "sheet slot ids must be valid uuids", nil)
			return
		}
		sheetSlots[sheetName] = slotID
	}

	summary, err := c.imports.ImportGiftSheets(r.Context(), services.GiftSheetsParams{
		IssuingID:  mapping.IssuingID,
		Workbook:   wb,
		SheetSlots: sheetSlots,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, summary)
}

func (c *ImportController) listSlots(w http.ResponseWriter, r *http.Request) {
	issuingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "issuing id must be a valid uuid", nil)
		return
	}
	slots, err := c.imports.Slots(r.Context(), issuingID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	out := make([]slotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotDTO{ID: s.ID, Name: s.Name, IsChoice: s.IsChoice})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *ImportController) listRuns(w http.ResponseWriter, r *http.Request) {
	issuingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "issuing id must be a valid uuid", nil)
		return
	}
	runs, err := c.imports.Runs(r.Context(), issuingID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	out := make([]runDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, runDTO{
			ID:         run.ID,
			Mode:       run.Mode,
			Summary:    run.Summary,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *ImportController) workbookBytes(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "expected a multipart form with a file field", nil)
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "file field is required", nil)
		return nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, c.maxUploadSize))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "could not read uploaded file", nil)
		return nil, false
	}
	return data, true
}

func (c *ImportController) decodeMapping(w http.ResponseWriter, r *http.Request, dst any) bool {
	raw := r.FormValue("mapping")
	if raw == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "mapping field is required", nil)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_REQUEST", "mapping field is not valid JSON", nil)
		return false
	}
	return true
}

func (c *ImportController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := middleware.UseLogger(r.Context(), c.log)

	if errors.Is(err, persistence.ErrIssuingNotFound) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "ISSUING_NOT_FOUND", "issuing not found", nil)
		return
	}

	var be *serrors.BaseError
	if errors.As(err, &be) {
		status := http.StatusBadRequest
		switch be.Code {
		case services.LookupFailedCode, services.PersistFailedCode:
			// raw sink error goes to logs only
			log.WithError(err).Error("import pipeline failed")
			status = http.StatusBadGateway
		}
		_ = httpapi.WriteError(w, status, be.Code, be.Message, nil)
		return
	}

	log.WithError(err).Error("unhandled import error")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
}
