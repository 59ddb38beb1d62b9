package model

import (
	"context"
)

// CrimeSource fetches street-level crimes for a month inside a polygon.
type CrimeSource interface {
	Crimes(ctx context.Context, month string, poly Polygon) ([]CrimeRecord, error)
}

// NeighbourhoodLocator resolves a "lat,lon" query to the neighbourhood that owns it.
type NeighbourhoodLocator interface {
	LocateNeighbourhood(ctx context.Context, query string) (*NeighbourhoodInfo, error)
}

// AreaResolver turns a named administrative area into a polygon.
type AreaResolver interface {
	ResolveArea(ctx context.Context, name string) (Polygon, error)
}
