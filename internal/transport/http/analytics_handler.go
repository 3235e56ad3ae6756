package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"upscli/internal/analytics"
	apierrors "upscli/internal/errors"
	"upscli/internal/middleware"
	"upscli/internal/services"
)

// defaultTopExpenses is the top-expense row count when the caller does
// not ask for a specific limit.
const defaultTopExpenses = 10

// AnalyticsHandler serves the dataset summary, rollup, filter and
// report-file endpoints with RFC 7807 error responses.
type AnalyticsHandler struct {
	service      InvoiceServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service InvoiceServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, validate *middleware.ValidationMiddleware) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
		validate:     validate,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the analytics routes. The router is mounted under /api.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Use render for consistent JSON responses
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)

	r.Route("/rollups", func(r chi.Router) {
		r.Get("/cost-breakdown", h.GetCostBreakdown)
		r.Get("/destinations", h.GetDestinations)
		r.Get("/trends", h.GetTrends)
		r.Get("/returns", h.GetReturns)
		r.Get("/weights", h.GetWeights)
		r.Get("/services", h.GetServices)
		r.Get("/duties", h.GetDuties)
		r.Get("/accessorials", h.GetAccessorials)
		r.Get("/top-expenses", h.GetTopExpenses)
	})

	r.Post("/filter", h.FilterDataset)
	r.Get("/shipments", h.GetShipments)
	r.Post("/datasets/reload", h.ReloadDataset)

	r.Get("/reports", h.ListReports)
	r.Get("/reports/{filename}", h.DownloadReport)

	return r
}

// handleServiceError maps service sentinel errors onto API errors before
// delegating to the central error handler.
func (h *AnalyticsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoDataset) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}

// GetSummary handles GET /api/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching dataset summary",
		slog.String("request_id", reqID))

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get summary",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetCostBreakdown handles GET /api/rollups/cost-breakdown
func (h *AnalyticsHandler) GetCostBreakdown(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching cost breakdown",
		slog.String("request_id", reqID))

	rows, err := h.service.CostBreakdown(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get cost breakdown",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetDestinations handles GET /api/rollups/destinations
func (h *AnalyticsHandler) GetDestinations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching destination rollup",
		slog.String("request_id", reqID))

	rows, err := h.service.Destinations(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get destinations",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetTrends handles GET /api/rollups/trends with an optional period
// query parameter (week or month, month by default).
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	period, ok := h.query.ValidateEnum(w, r, "period", []string{"week", "month"}, "month")
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching cost trends",
		slog.String("request_id", reqID),
		slog.String("period", period))

	rows, err := h.service.Trends(r.Context(), analytics.Period(period))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get trends",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
		"period": period,
	})
}

// GetReturns handles GET /api/rollups/returns
func (h *AnalyticsHandler) GetReturns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching returns analysis",
		slog.String("request_id", reqID))

	analysis, err := h.service.Returns(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get returns analysis",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   analysis,
	})
}

// GetWeights handles GET /api/rollups/weights
func (h *AnalyticsHandler) GetWeights(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching weight analysis",
		slog.String("request_id", reqID))

	analysis, err := h.service.Weights(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get weight analysis",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   analysis,
	})
}

// GetServices handles GET /api/rollups/services
func (h *AnalyticsHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching service rollup",
		slog.String("request_id", reqID))

	rows, err := h.service.Services(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get service rollup",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetDuties handles GET /api/rollups/duties
func (h *AnalyticsHandler) GetDuties(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching duties analysis",
		slog.String("request_id", reqID))

	analysis, err := h.service.Duties(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get duties analysis",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   analysis,
	})
}

// GetAccessorials handles GET /api/rollups/accessorials
func (h *AnalyticsHandler) GetAccessorials(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching accessorial analysis",
		slog.String("request_id", reqID))

	analysis, err := h.service.Accessorials(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get accessorial analysis",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   analysis,
	})
}

// GetTopExpenses handles GET /api/rollups/top-expenses with an optional
// limit query parameter (10 by default).
func (h *AnalyticsHandler) GetTopExpenses(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	limit, ok := h.query.ValidateInt(w, r, "limit", 1, 1000, defaultTopExpenses)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching top expenses",
		slog.String("request_id", reqID),
		slog.Int("limit", limit))

	shipments, err := h.service.TopExpenses(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get top expenses",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   shipments,
		"count":  len(shipments),
		"limit":  limit,
	})
}

// GetShipments handles GET /api/shipments
func (h *AnalyticsHandler) GetShipments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching shipment table",
		slog.String("request_id", reqID))

	shipments, err := h.service.Shipments(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get shipments",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   shipments,
		"count":  len(shipments),
	})
}

// ListReports handles GET /api/reports
func (h *AnalyticsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "listing report files",
		slog.String("request_id", reqID))

	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list reports",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("list reports", err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   reports,
		"count":  len(reports),
	})
}

// DownloadReport handles GET /api/reports/{filename}
func (h *AnalyticsHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	filename := chi.URLParam(r, "filename")

	h.logger.InfoContext(r.Context(), "serving report file",
		slog.String("request_id", reqID),
		slog.String("filename", filename))

	path, err := h.service.ReportPath(r.Context(), filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReportName):
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Report name must not contain path separators"))
		case errors.Is(err, services.ErrReportNotFound):
			h.errorHandler.HandleError(w, r, apierrors.ErrReportNotFound)
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
}

// ReloadDataset handles POST /api/datasets/reload
func (h *AnalyticsHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "reloading invoice dataset",
		slog.String("request_id", reqID))

	result, err := h.service.Load(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, apierrors.ParseFailedError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// FilterRequest is the POST /api/filter body. Include names follow the
// JSON keys of the report rollups; an empty include list selects all of
// them.
type FilterRequest struct {
	From        string   `json:"from,omitempty" validate:"omitempty,iso8601"`
	To          string   `json:"to,omitempty" validate:"omitempty,iso8601"`
	Countries   []string `json:"countries,omitempty" validate:"omitempty,dive,country_code"`
	Services    []string `json:"services,omitempty"`
	ReturnsOnly bool     `json:"returns_only,omitempty"`
	Include     []string `json:"include,omitempty" validate:"omitempty,dive,oneof=summary cost_breakdown destinations trends returns weights services duties accessorials top_expenses"`
}

// toFilter converts the request into an analytics filter.
func (req FilterRequest) toFilter() (analytics.Filter, error) {
	var f analytics.Filter

	if req.From != "" {
		t, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return f, apierrors.ErrValidation("from", "from must be a valid YYYY-MM-DD date")
		}
		f.StartDate = &t
	}
	if req.To != "" {
		t, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return f, apierrors.ErrValidation("to", "to must be a valid YYYY-MM-DD date")
		}
		f.EndDate = &t
	}

	f.Countries = req.Countries
	f.Services = req.Services
	f.ReturnsOnly = req.ReturnsOnly
	return f, nil
}

// FilterDataset handles POST /api/filter
func (h *AnalyticsHandler) FilterDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req FilterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "filtering dataset",
		slog.String("request_id", reqID),
		slog.Int("countries", len(req.Countries)),
		slog.Int("services", len(req.Services)),
		slog.Bool("returns_only", req.ReturnsOnly),
		slog.Int("include", len(req.Include)))

	analyzer, err := h.service.Filtered(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to filter dataset",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"filter":    req,
		"records":   len(analyzer.Records()),
		"shipments": len(analyzer.Shipments()),
		"data":      rollupsFor(analyzer, req.Include),
	})
}

// rollupsFor computes the requested rollups over the filtered analyzer.
func rollupsFor(a *analytics.Analyzer, include []string) map[string]interface{} {
	if len(include) == 0 {
		include = []string{"summary", "cost_breakdown", "destinations", "trends",
			"returns", "weights", "services", "duties", "accessorials", "top_expenses"}
	}

	data := make(map[string]interface{}, len(include))
	for _, name := range include {
		switch name {
		case "summary":
			data[name] = a.Summary()
		case "cost_breakdown":
			data[name] = a.CostBreakdown()
		case "destinations":
			data[name] = a.ByDestination()
		case "trends":
			data[name] = a.Trends(analytics.PeriodMonth)
		case "returns":
			data[name] = a.Returns()
		case "weights":
			data[name] = a.Weights()
		case "services":
			data[name] = a.Services()
		case "duties":
			data[name] = a.DutiesAndBrokerage()
		case "accessorials":
			data[name] = a.Accessorials()
		case "top_expenses":
			data[name] = a.TopExpenses(defaultTopExpenses)
		}
	}
	return data
}
