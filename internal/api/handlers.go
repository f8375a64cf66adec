package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kitscan/internal/apperr"
	"github.com/starford/kitscan/internal/scanservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *scanservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *scanservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Scan handles GET /api/scan.
//
//	@Summary		Scan the component tree
//	@Tags			scan
//	@Produce		json
//	@Param			type		query		string	false	"Category selector"	Enums(all, commands, agents, skills, workflows)
//	@Param			scenarios	query		bool	false	"Also generate scenarios"
//	@Success		200			{object}	models.Result
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/scan [get]
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	withScenarios, _ := strconv.ParseBool(q.Get("scenarios"))

	res, err := h.svc.Scan(r.Context(), q.Get("type"), withScenarios)
	if err != nil {
		writeScanError(w, "scan", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Components handles GET /api/components/{category}.
//
//	@Summary		List the components of one category
//	@Tags			scan
//	@Produce		json
//	@Param			category	path		string	true	"Category"	Enums(commands, agents, skills, workflows)
//	@Param			recorded	query		bool	false	"Return catalog rows from the last recorded scan"
//	@Success		200			{object}	ComponentsResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/components/{category} [get]
func (h *Handler) Components(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	recorded, _ := strconv.ParseBool(r.URL.Query().Get("recorded"))

	var items any
	var err error
	if recorded {
		items, err = h.svc.Recorded(r.Context(), category)
	} else {
		items, err = h.svc.Components(r.Context(), category)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownCategory) || errors.Is(err, scanservice.ErrRecordingDisabled) {
			writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
			return
		}
		writeScanError(w, "components", err)
		return
	}
	writeJSON(w, http.StatusOK, ComponentsResponse{Category: category, Components: items})
}

// Scenarios handles GET /api/scenarios.
//
//	@Summary		Generate scenarios for all commands
//	@Tags			scan
//	@Produce		json
//	@Success		200	{object}	ScenariosResponse
//	@Security		BearerAuth
//	@Router			/scenarios [get]
func (h *Handler) Scenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.svc.Scenarios(r.Context())
	if err != nil {
		writeScanError(w, "scenarios", err)
		return
	}
	writeJSON(w, http.StatusOK, ScenariosResponse{Scenarios: scenarios})
}

// History handles GET /api/history.
//
//	@Summary		List recorded scans
//	@Tags			catalog
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum records"
//	@Success		200		{object}	HistoryResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.svc.History(r.Context(), limit)
	if err != nil {
		if errors.Is(err, scanservice.ErrRecordingDisabled) {
			writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
			return
		}
		writeScanError(w, "history", err)
		return
	}

	out := HistoryResponse{Scans: make([]ScanRecord, 0, len(recs))}
	for _, rec := range recs {
		cats := make([]string, len(rec.Categories))
		for i, c := range rec.Categories {
			cats[i] = string(c)
		}
		out.Scans = append(out.Scans, ScanRecord{
			ID:         rec.ID,
			Categories: cats,
			Total:      rec.Total,
			Added:      rec.Added,
			Updated:    rec.Updated,
			Removed:    rec.Removed,
			RecordedAt: rec.RecordedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeScanError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, apperr.ErrUnknownCategory) {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	slog.Error(op+" failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}
