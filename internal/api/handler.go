package api

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"crime_service/internal/core"
	"crime_service/internal/domain/model"
	"crime_service/internal/report"

	"github.com/gin-gonic/gin"
)

// Reporter runs one report; *core.ReportService satisfies it.
type Reporter interface {
	Run(ctx context.Context, req model.ReportRequest) (*model.Report, error)
}

type Handler struct {
	reporter Reporter
	defaults model.ReportRequest
	chart    *report.ChartRenderer
}

// NewHandler serves reports, filling parameters the caller omits from defaults.
func NewHandler(reporter Reporter, defaults model.ReportRequest) *Handler {
	return &Handler{
		reporter: reporter,
		defaults: defaults,
		chart:    report.NewChartRenderer(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.GET("/report", h.Report)
	api.GET("/report/chart.png", h.Chart)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Report runs a report for ?month=YYYY-MM&poly=lat,lon:...&area=name and
// returns it as JSON.
func (h *Handler) Report(c *gin.Context) {
	rep, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

// Chart runs a report and returns its bar chart.
func (h *Handler) Chart(c *gin.Context) {
	rep, ok := h.run(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.chart.Render(&buf, rep); err != nil {
		if errors.Is(err, report.ErrNoData) {
			c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		log.Printf("Error rendering chart: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) run(c *gin.Context) (*model.Report, bool) {
	req, err := h.parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}

	rep, err := h.reporter.Run(c.Request.Context(), req)
	if err != nil {
		status, body := errorStatus(err)
		log.Printf("Error running report for %s: %v", req.Month, err)
		c.JSON(status, body)
		return nil, false
	}
	return rep, true
}

func (h *Handler) parseRequest(c *gin.Context) (model.ReportRequest, error) {
	req := h.defaults

	if month := strings.TrimSpace(c.Query("month")); month != "" {
		if err := core.ValidateMonth(month); err != nil {
			return req, err
		}
		req.Month = month
	}
	if poly := c.Query("poly"); poly != "" {
		parsed, err := model.ParsePolygon(poly)
		if err != nil {
			return req, err
		}
		req.Polygon = parsed
		req.Area = ""
	}
	if area := strings.TrimSpace(c.Query("area")); area != "" {
		req.Area = area
	}
	return req, nil
}

func errorStatus(err error) (int, errorResponse) {
	var ne *model.NetworkError
	if errors.As(err, &ne) {
		return http.StatusBadGateway, errorResponse{Error: err.Error()}
	}
	var mfe *model.MissingFieldError
	if errors.As(err, &mfe) {
		return http.StatusBadGateway, errorResponse{Error: err.Error(), Field: mfe.Field}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, errorResponse{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Error: err.Error()}
}
