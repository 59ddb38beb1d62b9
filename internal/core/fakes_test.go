package core

import (
	"context"
	"sync"
	"time"

	"crime_service/internal/domain/model"
)

type fakeCrimes struct {
	records []model.CrimeRecord
	err     error

	gotMonth string
	gotPoly  model.Polygon
}

func (f *fakeCrimes) Crimes(ctx context.Context, month string, poly model.Polygon) ([]model.CrimeRecord, error) {
	f.gotMonth = month
	f.gotPoly = poly
	return f.records, f.err
}

// fakeLocator answers from forces keyed by "lat,lon" query. Unknown queries
// fail like a response without a force. Queries listed in fail return
// failErr; delays make later records finish before earlier ones.
type fakeLocator struct {
	forces  map[string]string
	fail    map[string]bool
	failErr error
	delay   map[string]time.Duration

	mu    sync.Mutex
	calls int
}

func (f *fakeLocator) LocateNeighbourhood(ctx context.Context, query string) (*model.NeighbourhoodInfo, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if d, ok := f.delay[query]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.fail[query] {
		return nil, f.failErr
	}
	force, ok := f.forces[query]
	if !ok {
		return nil, &model.MissingFieldError{Field: "force", Index: -1}
	}
	return &model.NeighbourhoodInfo{Force: force}, nil
}

type fakeAreas struct {
	poly model.Polygon
	err  error
}

func (f *fakeAreas) ResolveArea(ctx context.Context, name string) (model.Polygon, error) {
	return f.poly, f.err
}

func crime(category, lat, lon string, outcome *model.OutcomeStatus) model.CrimeRecord {
	return model.CrimeRecord{
		Category: category,
		Location: &model.Location{
			Latitude:  mustCoordinate(lat),
			Longitude: mustCoordinate(lon),
		},
		OutcomeStatus: outcome,
	}
}

func mustCoordinate(s string) model.Coordinate {
	c, err := model.ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

func strPtr(s string) *string { return &s }
