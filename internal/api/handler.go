// Package api exposes dashboards to the presentation layer over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"agent-insights-go/internal/actionable"
	"agent-insights-go/internal/config"
	"agent-insights-go/internal/export"
	"agent-insights-go/internal/impact"
	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/metrics"
	"agent-insights-go/internal/pipeline"
	"agent-insights-go/internal/series"
	"agent-insights-go/internal/source"
	"agent-insights-go/internal/types"
	"agent-insights-go/internal/window"
)

// Dashboarder builds one client's dashboard; *pipeline.Service satisfies it.
type Dashboarder interface {
	Dashboard(ctx context.Context, req pipeline.Request) (types.Dashboard, error)
	Constants() config.Constants
}

type Handler struct {
	svc     Dashboarder
	log     *logger.Logger
	metrics *metrics.Metrics

	// AllowedOrigins enables CORS for browser clients when non-empty.
	AllowedOrigins []string
}

func NewHandler(svc Dashboarder, log *logger.Logger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(h.log))
	r.Use(chimiddleware.Recoverer)
	if len(h.AllowedOrigins) > 0 {
		r.Use(CORS(h.AllowedOrigins))
	}

	r.Get("/healthz", h.health)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/clients/{clientID}/dashboards/{channel}", h.getDashboard)
		r.Get("/clients/{clientID}/dashboards/{channel}/export", h.exportDashboard)
		r.Post("/impact", h.postImpact)
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// GET /v1/clients/{clientID}/dashboards/{channel}?window=7days&metric=count
func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.Dashboard(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GET /v1/clients/{clientID}/dashboards/{channel}/export?window=7days
func (h *Handler) exportDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.Dashboard(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(d)+`"`)
	if err := export.Write(w, d); err != nil {
		h.log.WithRequest(r).WithError(err).Error("failed to write export")
	}
}

type impactRequest struct {
	KPIs         types.KPIs                `json:"kpis"`
	Distribution []types.DistributionPoint `json:"distribution"`
	Baseline     impact.Baseline           `json:"baseline"`
}

type impactResponse struct {
	Impact   types.ImpactSnapshot `json:"impact"`
	Insights []types.Insight      `json:"insights"`
}

// POST /v1/impact recomputes the business impact calculator from client-side aggregates.
func (h *Handler) postImpact(w http.ResponseWriter, r *http.Request) {
	var body impactRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c := h.svc.Constants()
	s := impact.Estimate(body.KPIs, body.Distribution, body.Baseline, c.Impact)
	writeJSON(w, http.StatusOK, impactResponse{
		Impact:   s,
		Insights: actionable.Evaluate(body.KPIs, s, c.Thresholds),
	})
}

func parseRequest(r *http.Request) (pipeline.Request, error) {
	ch, ok := types.ParseChannel(chi.URLParam(r, "channel"))
	if !ok {
		return pipeline.Request{}, errors.New("channel must be voice or email")
	}
	q := r.URL.Query()
	metric, ok := series.ParseMetric(q.Get("metric"))
	if !ok {
		return pipeline.Request{}, errors.New("metric must be count or value")
	}
	w := window.Last7Days
	if v := q.Get("window"); v != "" {
		w = window.Window(v)
	}

	var b impact.Baseline
	if v := q.Get("missed_before"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pipeline.Request{}, errors.New("missed_before must be an integer")
		}
		b.MissedBefore = &n
	}
	if v := q.Get("hours_saved"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Request{}, errors.New("hours_saved must be a number")
		}
		b.HoursSaved = &f
	}
	if v := q.Get("daily_savings_rate"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Request{}, errors.New("daily_savings_rate must be a number")
		}
		b.DailySavingsRate = &f
	}

	return pipeline.Request{
		ClientID: chi.URLParam(r, "clientID"),
		Channel:  ch,
		Window:   w,
		Metric:   metric,
		Baseline: b,
	}, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, source.ErrUnknownClient):
		writeError(w, http.StatusNotFound, "unknown client")
	case errors.Is(err, pipeline.ErrUnknownChannel):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.log.WithRequest(r).WithError(err).Warn("record source timed out")
		writeError(w, http.StatusGatewayTimeout, "record source timed out")
	default:
		h.log.WithRequest(r).WithError(err).Error("dashboard failed")
		writeError(w, http.StatusBadGateway, "failed to load records")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
