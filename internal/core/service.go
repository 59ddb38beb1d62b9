package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"crime_service/internal/domain/model"

	"github.com/google/uuid"
)

// ReportService runs the fetch, enrich and aggregate steps for one report.
type ReportService struct {
	crimes   model.CrimeSource
	pipeline *Pipeline
	areas    model.AreaResolver
	now      func() time.Time
}

// NewReportService wires a report service. areas may be nil, in which case
// requests naming an area are rejected.
func NewReportService(
	crimes model.CrimeSource,
	pipeline *Pipeline,
	areas model.AreaResolver,
) *ReportService {
	return &ReportService{
		crimes:   crimes,
		pipeline: pipeline,
		areas:    areas,
		now:      time.Now,
	}
}

func (s *ReportService) Run(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	if err := ValidateMonth(req.Month); err != nil {
		return nil, err
	}

	poly, err := s.resolvePolygon(ctx, req)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log.Printf("Run %s: fetching crimes for %s", runID, req.Month)

	records, err := s.crimes.Crimes(ctx, req.Month, poly)
	if err != nil {
		return nil, fmt.Errorf("failed to get crimes: %w", err)
	}
	log.Printf("Run %s: %d crimes fetched, locating neighbourhoods", runID, len(records))

	rows, skipped, err := s.pipeline.Enrich(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}

	agg := Aggregate(rows)
	log.Printf("Run %s: %d rows, %d categories with outcomes, %d forces without outcomes",
		runID, len(rows), len(agg.Counts), len(agg.MissingOutcomeForces))

	return &model.Report{
		RunID:                runID,
		Month:                req.Month,
		Polygon:              poly.String(),
		AreaKm2:              poly.Bounds().AreaKm2(),
		Rows:                 rows,
		MissingOutcomeForces: agg.MissingOutcomeForces,
		Counts:               agg.Counts,
		Skipped:              skipped,
		GeneratedAt:          s.now().UTC(),
	}, nil
}

func (s *ReportService) resolvePolygon(ctx context.Context, req model.ReportRequest) (model.Polygon, error) {
	if req.Area == "" {
		if len(req.Polygon) < 3 {
			return nil, fmt.Errorf("polygon must have at least 3 points, got %d", len(req.Polygon))
		}
		return req.Polygon, nil
	}

	if s.areas == nil {
		return nil, fmt.Errorf("area %q requested but no area resolver is configured", req.Area)
	}

	poly, err := s.areas.ResolveArea(ctx, req.Area)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve area: %w", err)
	}
	log.Printf("Using polygon %s for area %q", poly, req.Area)
	return poly, nil
}
