package core

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"crime_service/internal/domain/model"

	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 8

// Pipeline joins crime records with the force that owns each location.
type Pipeline struct {
	locator    model.NeighbourhoodLocator
	workers    int
	skipFailed bool
}

func NewPipeline(locator model.NeighbourhoodLocator, workers int, skipFailed bool) *Pipeline {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		locator:    locator,
		workers:    workers,
		skipFailed: skipFailed,
	}
}

// Enrich produces one EnrichedRow per record, in input order. Lookups run on
// at most p.workers goroutines. Unless the pipeline skips failures, the first
// error cancels outstanding lookups and no rows are returned. The second
// return value is the number of records dropped in skip mode.
func (p *Pipeline) Enrich(ctx context.Context, records []model.CrimeRecord) ([]model.EnrichedRow, int, error) {
	results := make([]model.EnrichedRow, len(records))
	failed := make([]bool, len(records))
	var skipped int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range records {
		g.Go(func() error {
			row, err := p.enrichOne(gctx, i, records[i])
			if err != nil {
				if p.skipFailed && gctx.Err() == nil {
					log.Printf("Warning: skipping record %d: %v", i, err)
					failed[i] = true
					atomic.AddInt64(&skipped, 1)
					return nil
				}
				return err
			}
			results[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if skipped == 0 {
		return results, 0, nil
	}

	rows := make([]model.EnrichedRow, 0, len(records)-int(skipped))
	for i, row := range results {
		if !failed[i] {
			rows = append(rows, row)
		}
	}
	return rows, int(skipped), nil
}

func (p *Pipeline) enrichOne(ctx context.Context, index int, rec model.CrimeRecord) (model.EnrichedRow, error) {
	if rec.Location == nil {
		return model.EnrichedRow{}, &model.MissingFieldError{Field: "location", Index: index}
	}
	if field := rec.Location.MissingField(); field != "" {
		return model.EnrichedRow{}, &model.MissingFieldError{Field: field, Index: index}
	}
	if rec.Category == "" {
		return model.EnrichedRow{}, &model.MissingFieldError{Field: "category", Index: index}
	}

	info, err := p.locator.LocateNeighbourhood(ctx, rec.Location.Query())
	if err != nil {
		return model.EnrichedRow{}, fmt.Errorf("record %d: neighbourhood lookup failed: %w", index, err)
	}

	return model.NewEnrichedRow(rec.Category, outcomeCategory(rec.OutcomeStatus), info.Force), nil
}

func outcomeCategory(status *model.OutcomeStatus) *string {
	if status == nil || status.Category == "" {
		return nil
	}
	category := status.Category
	return &category
}
