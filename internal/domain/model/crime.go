package model

import (
	"time"
)

// CrimeRecord is one street-level crime as returned by the crimes-street endpoint.
type CrimeRecord struct {
	ID              int64          `json:"id"`
	PersistentID    string         `json:"persistent_id"`
	Category        string         `json:"category"`
	LocationType    string         `json:"location_type"`
	LocationSubtype string         `json:"location_subtype"`
	Month           string         `json:"month"`
	Location        *Location      `json:"location"`
	OutcomeStatus   *OutcomeStatus `json:"outcome_status"`
}

// Location is where a crime was mapped to. The API sends coordinates as
// strings; absent or null coordinates decode as invalid.
type Location struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
	Street    *Street    `json:"street,omitempty"`
}

type Street struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OutcomeStatus is the latest outcome recorded against a crime, if any.
type OutcomeStatus struct {
	Category string `json:"category"`
	Date     string `json:"date"`
}

// MissingField names the first absent coordinate, or "" when both are set.
func (l Location) MissingField() string {
	if !l.Latitude.Valid {
		return "location.latitude"
	}
	if !l.Longitude.Valid {
		return "location.longitude"
	}
	return ""
}

// Query returns the "lat,lon" form used by the neighbourhood lookup, built
// from the coordinates exactly as the crimes endpoint sent them.
func (l Location) Query() string {
	return l.Latitude.String() + "," + l.Longitude.String()
}

// NeighbourhoodInfo is the result of locating a coordinate pair.
type NeighbourhoodInfo struct {
	Force         string `json:"force"`
	Neighbourhood string `json:"neighbourhood"`
}

// EnrichedRow is one crime joined with the force that owns its location.
type EnrichedRow struct {
	CrimeCategory   string  `json:"crime_category"`
	OutcomeCategory *string `json:"outcome_category"`
	Force           string  `json:"force"`
	MissingOutcome  bool    `json:"missing_outcome"`
}

// NewEnrichedRow builds a row and derives the missing-outcome flag from outcome.
func NewEnrichedRow(category string, outcome *string, force string) EnrichedRow {
	return EnrichedRow{
		CrimeCategory:   category,
		OutcomeCategory: outcome,
		Force:           force,
		MissingOutcome:  outcome == nil,
	}
}

// AggregatedCount pairs a crime category with the number of resolved crimes in it.
type AggregatedCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ReportRequest selects the month and area for one report. When Area is set it
// is resolved to a polygon and takes precedence over Polygon.
type ReportRequest struct {
	Month   string
	Polygon Polygon
	Area    string
}

// Report is the outcome of one fetch-enrich-aggregate run.
type Report struct {
	RunID                string            `json:"run_id"`
	Month                string            `json:"month"`
	Polygon              string            `json:"polygon"`
	AreaKm2              float64           `json:"area_km2"`
	Rows                 []EnrichedRow     `json:"rows"`
	MissingOutcomeForces []string          `json:"missing_outcome_forces"`
	Counts               []AggregatedCount `json:"counts"`
	Skipped              int               `json:"skipped"`
	GeneratedAt          time.Time         `json:"generated_at"`
}

// ResolvedTotal is the number of rows that carry an outcome.
func (r *Report) ResolvedTotal() int {
	total := 0
	for _, c := range r.Counts {
		total += c.Count
	}
	return total
}
