package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"crime_service/internal/domain/model"
)

// Renderer draws a report in one output format.
type Renderer interface {
	Name() string
	Ext() string
	Render(w io.Writer, rep *model.Report) error
}

// RenderersFor maps format names ("png", "xlsx") to renderers. Unknown names
// are an error so a typo in configuration is caught before any network call.
func RenderersFor(formats []string) ([]Renderer, error) {
	renderers := make([]Renderer, 0, len(formats))
	for _, name := range formats {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
			continue
		case "png":
			renderers = append(renderers, NewChartRenderer())
		case "xlsx":
			renderers = append(renderers, NewWorkbookRenderer())
		default:
			return nil, fmt.Errorf("unknown chart format %q", name)
		}
	}
	return renderers, nil
}

// WriteFile renders rep into dir and returns the created path. Partial files
// are removed on failure.
func WriteFile(dir string, r Renderer, rep *model.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(rep, r.Ext()))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := r.Render(file, rep); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// FileName is "crimes_<month>_<short run id>.<ext>".
func FileName(rep *model.Report, ext string) string {
	id := rep.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("crimes_%s_%s.%s", rep.Month, id, ext)
}
