package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"crime_service/internal/domain/model"

	"github.com/serjvanilla/go-overpass"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// OverpassRepository resolves OSM administrative boundaries into polygons
// usable as the crimes query area.
type OverpassRepository struct {
	client   *overpass.Client
	endpoint string
	timeout  time.Duration
}

func NewOverpassRepository(endpoint string, timeout time.Duration) *OverpassRepository {
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &OverpassRepository{
		client:   &client,
		endpoint: endpoint,
		timeout:  timeout,
	}
}

// ResolveArea returns the bounding polygon of the administrative boundary
// relation named name. Only boundaries inside Great Britain are searched, and
// a name shared by several of them is an error. The crimes endpoint takes the
// polygon as a GET parameter, so the boundary is reduced to its bounding box.
func (r *OverpassRepository) ResolveArea(ctx context.Context, name string) (model.Polygon, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("area name is empty")
	}

	query := fmt.Sprintf(`
		[out:json];
		area["ISO3166-1"="GB"]["admin_level"="2"]->.gb;
		rel(area.gb)["boundary"="administrative"]["name"="%s"]->.boundary;
		.boundary out ids;
		way(r.boundary);
		node(w);
		out skel qt;
	`, escapeTagValue(name))

	result, err := r.executeQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute boundary query for %q: %w", name, err)
	}

	if n := len(result.Relations); n > 1 {
		return nil, fmt.Errorf("area %q is ambiguous: %d boundaries match", name, n)
	}

	points := convertToPoints(result)
	if len(points) < 3 {
		return nil, fmt.Errorf("no boundary found for area %q", name)
	}

	return model.Polygon(points).Bounds().Polygon(), nil
}

func (r *OverpassRepository) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type queryResult struct {
		result overpass.Result
		err    error
	}
	done := make(chan queryResult, 1)
	go func() {
		result, err := r.client.Query(query)
		done <- queryResult{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &model.NetworkError{Op: http.MethodPost, URL: r.endpoint, Err: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			netErr := &model.NetworkError{Op: http.MethodPost, URL: r.endpoint, Err: res.err}
			var serverErr *overpass.ServerError
			if errors.As(res.err, &serverErr) {
				netErr.StatusCode = serverErr.StatusCode
			}
			return nil, netErr
		}
		return &res.result, nil
	}
}

func convertToPoints(result *overpass.Result) []model.Point {
	points := make([]model.Point, 0, len(result.Nodes))
	for _, node := range result.Nodes {
		points = append(points, model.Point{Lat: node.Lat, Lon: node.Lon})
	}

	for _, way := range result.Ways {
		for _, node := range way.Nodes {
			points = append(points, model.Point{Lat: node.Lat, Lon: node.Lon})
		}
	}

	return points
}

func escapeTagValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
