package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/adsproxy/adsproxy/internal/googleads"
	"github.com/adsproxy/adsproxy/internal/handler/dto"
	"github.com/adsproxy/adsproxy/internal/middleware"
	"github.com/adsproxy/adsproxy/internal/model"
	"github.com/adsproxy/adsproxy/internal/service"
)

// ReportRunner runs a validated report request.
type ReportRunner interface {
	Run(ctx context.Context, req model.ReportRequest) (*model.Report, error)
}

// ReportHandler serves the report endpoints.
type ReportHandler struct {
	svc    ReportRunner
	logger *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc ReportRunner, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// Keywords handles POST /api/keywords.
func (h *ReportHandler) Keywords(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, model.ReportKeywords)
}

// Demographics handles POST /api/demographics.
func (h *ReportHandler) Demographics(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, model.ReportDemographics)
}

// Geographic handles POST /api/geographic.
func (h *ReportHandler) Geographic(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, model.ReportGeographic)
}

func (h *ReportHandler) serve(w http.ResponseWriter, r *http.Request, kind model.ReportKind) {
	var req dto.ReportRequest
	if err := decodeBody(r, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, dto.NewErrorEnvelope("Request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, dto.NewErrorEnvelope("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		h.handleServiceError(w, r, kind, err)
		return
	}

	dateRange, err := model.ResolveDateRange(kind, req.DateRange)
	if err != nil {
		h.handleServiceError(w, r, kind, err)
		return
	}

	report, err := h.svc.Run(r.Context(), model.ReportRequest{
		Kind:        kind,
		Credentials: req.CredentialSet,
		DateRange:   dateRange,
		RequestID:   middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		h.handleServiceError(w, r, kind, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewReportEnvelope(req.CustomerIDEcho(), report))
}

// errTrailingData is returned when a body holds more than one JSON value.
var errTrailingData = errors.New("unexpected data after JSON body")

// decodeBody decodes a single JSON value. An empty body decodes as {} so that
// it fails credential validation rather than parsing.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return errTrailingData
	}
}

func (h *ReportHandler) handleServiceError(w http.ResponseWriter, r *http.Request, kind model.ReportKind, err error) {
	var validationErr *model.ValidationError
	var apiErr *googleads.APIError

	switch {
	case errors.As(err, &validationErr):
		resp := dto.NewErrorEnvelope("Missing required fields")
		resp.Required = validationErr.Required
		resp.Missing = validationErr.Missing
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, model.ErrInvalidDateRange):
		resp := dto.NewErrorEnvelope("Invalid dateRange")
		resp.Allowed = model.DateRangeNames()
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &apiErr):
		h.logger.Error("report_failed",
			slog.String("kind", string(kind)),
			slog.Int("upstream_status", apiErr.StatusCode),
			slog.String("upstream_request_id", apiErr.RequestID),
			slog.String("error", apiErr.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeJSON(w, http.StatusInternalServerError, dto.NewErrorEnvelope(apiErr.Error(), apiErr.Details...))
	default:
		h.logger.Error("report_failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		message := err.Error()
		var fetchErr *service.FetchError
		if errors.As(err, &fetchErr) {
			message = fetchErr.Err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, dto.NewErrorEnvelope(message))
	}
}
