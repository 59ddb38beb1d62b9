package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"crime_service/internal/domain/model"

	"github.com/gin-gonic/gin"
)

type fakeReporter struct {
	report *model.Report
	err    error
	got    model.ReportRequest
}

func (f *fakeReporter) Run(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	f.got = req
	return f.report, f.err
}

var defaultRequest = model.ReportRequest{
	Month:   "2023-11",
	Polygon: model.Polygon{{Lat: 52.268, Lon: 0.543}, {Lat: 52.794, Lon: 0.238}, {Lat: 52.130, Lon: 0.478}},
}

func sampleReport() *model.Report {
	outcome := "no-further-action"
	return &model.Report{
		RunID: "run-1",
		Month: "2023-11",
		Rows: []model.EnrichedRow{
			model.NewEnrichedRow("burglary", &outcome, "Alpha"),
			model.NewEnrichedRow("robbery", nil, "Beta"),
		},
		MissingOutcomeForces: []string{"Beta"},
		Counts:               []model.AggregatedCount{{Category: "burglary", Count: 1}},
	}
}

func newRouter(rep Reporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(rep, defaultRequest).Register(r)
	return r
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newRouter(&fakeReporter{}), "/healthz")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestReportUsesDefaults(t *testing.T) {
	rep := &fakeReporter{report: sampleReport()}
	w := serve(newRouter(rep), "/api/report")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if rep.got.Month != "2023-11" || len(rep.got.Polygon) != 3 {
		t.Errorf("request = %+v", rep.got)
	}

	var body model.Report
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.MissingOutcomeForces) != 1 || body.MissingOutcomeForces[0] != "Beta" {
		t.Errorf("forces = %v", body.MissingOutcomeForces)
	}
	if len(body.Counts) != 1 || body.Counts[0].Count != 1 {
		t.Errorf("counts = %v", body.Counts)
	}
}

func TestReportQueryParameters(t *testing.T) {
	rep := &fakeReporter{report: sampleReport()}
	w := serve(newRouter(rep), "/api/report?month=2023-06&poly=52,0:53,0:53,1&area=Norfolk")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if rep.got.Month != "2023-06" || rep.got.Polygon.String() != "52,0:53,0:53,1" || rep.got.Area != "Norfolk" {
		t.Errorf("request = %+v", rep.got)
	}
}

func TestReportBadParameters(t *testing.T) {
	for _, target := range []string{
		"/api/report?month=June",
		"/api/report?poly=52,0:53,0",
	} {
		rep := &fakeReporter{report: sampleReport()}
		w := serve(newRouter(rep), target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestReportErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"network", fmt.Errorf("enrichment failed: %w", &model.NetworkError{Op: "GET", URL: "x", StatusCode: 500}), http.StatusBadGateway},
		{"missing field", &model.MissingFieldError{Field: "location", Index: 2}, http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newRouter(&fakeReporter{err: tt.err}), "/api/report")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestChart(t *testing.T) {
	w := serve(newRouter(&fakeReporter{report: sampleReport()}), "/api/report/chart.png")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %s", ct)
	}

	empty := sampleReport()
	empty.Counts = nil
	w = serve(newRouter(&fakeReporter{report: empty}), "/api/report/chart.png")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
