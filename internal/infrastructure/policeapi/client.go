package policeapi

import (
	"context"
	"net/url"
	"time"

	"crime_service/internal/domain/model"
)

const (
	DefaultCrimesURL        = "https://data.police.uk/api/crimes-street/all-crime"
	DefaultNeighbourhoodURL = "https://data.police.uk/api/locate-neighbourhood"
)

// Client talks to the two police data endpoints used by a report.
type Client struct {
	fetcher          *Fetcher
	crimesURL        string
	neighbourhoodURL string
}

func NewClient(crimesURL, neighbourhoodURL string, timeout time.Duration) *Client {
	return &Client{
		fetcher:          NewFetcher(timeout),
		crimesURL:        crimesURL,
		neighbourhoodURL: neighbourhoodURL,
	}
}

// Crimes returns every street-level crime recorded in month within poly.
func (c *Client) Crimes(ctx context.Context, month string, poly model.Polygon) ([]model.CrimeRecord, error) {
	params := url.Values{}
	params.Set("date", month)
	params.Set("poly", poly.String())

	var records []model.CrimeRecord
	if err := c.fetcher.GetJSON(ctx, c.crimesURL, params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LocateNeighbourhood looks up the force and neighbourhood for a "lat,lon" query.
func (c *Client) LocateNeighbourhood(ctx context.Context, query string) (*model.NeighbourhoodInfo, error) {
	params := url.Values{}
	params.Set("q", query)

	var info model.NeighbourhoodInfo
	if err := c.fetcher.GetJSON(ctx, c.neighbourhoodURL, params, &info); err != nil {
		return nil, err
	}
	if info.Force == "" {
		return nil, &model.MissingFieldError{Field: "force", Index: -1}
	}
	return &info, nil
}
