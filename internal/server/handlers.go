package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"options-strategist/internal/catalog"
	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
	"options-strategist/internal/payoff"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	analyzer    *payoff.Analyzer
	registry    *catalog.Registry
	pricer      catalog.Pricer
	defaultStep float64
	logger      zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(analyzer *payoff.Analyzer, registry *catalog.Registry, pricer catalog.Pricer, defaultStep float64, logger zerolog.Logger) *Handler {
	if defaultStep <= 0 {
		defaultStep = catalog.DefaultStrikeStep
	}
	return &Handler{
		analyzer:    analyzer,
		registry:    registry,
		pricer:      pricer,
		defaultStep: defaultStep,
		logger:      logger,
	}
}

// HealthCheck returns service health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "options-strategist",
	})
}

// ListTemplates returns the strategy catalog, optionally filtered by bias.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var templates []models.StrategyTemplate
	if bias := r.URL.Query().Get("bias"); bias != "" {
		parsed, err := models.ParseBias(bias)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid bias: %v", err))
			return
		}
		templates = h.registry.ListByBias(parsed)
	} else {
		templates = h.registry.List()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates,
		"count":     len(templates),
	})
}

// GetTemplate returns a single catalog template by id.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tpl, err := h.registry.Find(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTemplateNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf("template %q not found", id))
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, tpl)
}

// analyzeRequest is the body for POST /api/v1/analyze.
type analyzeRequest struct {
	Legs    models.LegSet `json:"legs"`
	Spot    float64       `json:"spot"`
	Samples int           `json:"samples,omitempty"`
}

// AnalyzeLegs runs a full analysis for an explicit leg set.
func (h *Handler) AnalyzeLegs(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	analysis, err := h.analyzerFor(req.Samples).Analyze(req.Legs, req.Spot)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	h.logger.Debug().
		Int("legs", req.Legs.Len()).
		Float64("spot", req.Spot).
		Msg("analyzed leg set")

	respondJSON(w, http.StatusOK, analysis)
}

// templateAnalyzeRequest is the body for POST /api/v1/catalog/{id}/analyze.
type templateAnalyzeRequest struct {
	Spot    float64 `json:"spot"`
	Step    float64 `json:"step,omitempty"`
	Samples int     `json:"samples,omitempty"`
}

// AnalyzeTemplate builds legs from a catalog template around spot and
// runs a full analysis.
func (h *Handler) AnalyzeTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tpl, err := h.registry.Find(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTemplateNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf("template %q not found", id))
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req templateAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	step := req.Step
	if step == 0 {
		step = h.defaultStep
	}

	legs, err := catalog.BuildLegs(tpl, req.Spot, step, h.pricer)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	analysis, err := h.analyzerFor(req.Samples).Analyze(legs, req.Spot)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	h.logger.Debug().
		Str("template", tpl.ID).
		Float64("spot", req.Spot).
		Msg("analyzed template")

	respondJSON(w, http.StatusOK, analysis)
}

// Chance returns the touch-chance readout for a price given a spot.
func (h *Handler) Chance(w http.ResponseWriter, r *http.Request) {
	spot, err := parseFloatParam(r, "spot")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := parseFloatParam(r, "price")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if spot <= 0 {
		respondError(w, http.StatusBadRequest, "spot must be positive")
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{
		"spot":   spot,
		"price":  price,
		"chance": h.analyzer.Chance(spot, price),
	})
}

// analyzerFor returns the shared analyzer, or a one-off configured for a
// custom sample count. One-offs skip the curve cache.
func (h *Handler) analyzerFor(samples int) *payoff.Analyzer {
	base := h.analyzer.Config()
	if samples <= 0 || samples == base.Samples {
		return h.analyzer
	}
	cfg := base
	cfg.Samples = samples
	return payoff.NewAnalyzerWithConfig(cfg)
}

// respondAnalysisError maps engine errors to HTTP status codes.
func respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrEmptyLegSet),
		errors.Is(err, apperrors.ErrInvalidSpot),
		errors.Is(err, apperrors.ErrInvalidStep),
		errors.Is(err, apperrors.ErrDegenerateDomain):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		var legErr *apperrors.LegError
		if errors.As(err, &legErr) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
