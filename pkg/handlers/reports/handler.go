package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/page-atlas/pkg/adapters"
	"github.com/de-tools/page-atlas/pkg/models/api"
	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/bulk"
	"github.com/de-tools/page-atlas/pkg/services/checks"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
	reportstore "github.com/de-tools/page-atlas/pkg/store/sqlite/report"
)

const defaultListLimit = 100

type Handler struct {
	store        reportstore.Store
	inspector    *inspect.Inspector
	orchestrator *bulk.Orchestrator
	registry     bulk.Registry
	fetchOptions domain.HTTPOptions
}

func NewHandler(
	store reportstore.Store,
	inspector *inspect.Inspector,
	orchestrator *bulk.Orchestrator,
	registry bulk.Registry,
	fetchOptions domain.HTTPOptions,
) *Handler {
	if fetchOptions.Timeout == 0 {
		fetchOptions = domain.DefaultHTTPOptions()
	}
	return &Handler{
		store:        store,
		inspector:    inspector,
		orchestrator: orchestrator,
		registry:     registry,
		fetchOptions: fetchOptions,
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := reportstore.Filter{
		InspectableType: r.URL.Query().Get("type"),
		Level:           r.URL.Query().Get("level"),
		Limit:           defaultListLimit,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	rows, err := h.store.ListReports(ctx, filter)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.Report, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapReportStoreToApi(row))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.New("invalid report id"))
		return
	}

	row, err := h.store.GetReport(ctx, id)
	if errors.Is(err, reportstore.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapReportStoreToApi(*row))
}

func (h *Handler) ListRemarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.New("invalid report id"))
		return
	}

	rows, err := h.store.ListRemarks(ctx, id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.Remark, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapRemarkStoreToApi(row))
	}
	writeJSON(w, r, http.StatusOK, response)
}

type inspectRequest struct {
	URL string `json:"url"`
}

// InspectURL runs the default check set against an arbitrary URL, records the
// report and returns it.
func (h *Handler) InspectURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("body must be {\"url\": \"...\"}"))
		return
	}

	inspection := inspect.NewURLInspection(req.URL, checks.Default()).
		WithHTTPOptions(h.fetchOptions)
	report, err := h.inspector.Run(ctx, inspection)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}

	if err := h.store.Record(ctx, *report); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapInspectionReportDomainToApi(*report))
}

func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.registry.ListClasses())
}

// StartSweep dispatches a bulk sweep for a registered class. The optional
// level query switches to the filtered variant.
func (h *Handler) StartSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	class := chi.URLParam(r, "class")

	source, err := h.registry.Get(class)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err := domain.ParseLevel(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		err = h.orchestrator.SweepMatching(ctx, source, level)
		h.writeSweepOutcome(w, r, class, err)
		return
	}

	h.writeSweepOutcome(w, r, class, h.orchestrator.Sweep(ctx, source))
}

func (h *Handler) writeSweepOutcome(w http.ResponseWriter, r *http.Request, class string, err error) {
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusAccepted, map[string]string{
			"class": class,
			"state": string(h.orchestrator.State(class)),
		})
	case errors.Is(err, bulk.ErrSweepInProgress):
		writeError(w, r, http.StatusConflict, err)
	default:
		writeError(w, r, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
