package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"crime_service/internal/domain/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no resolved crimes to chart")

var barColor = color.RGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF}

// ChartRenderer draws the per-category counts as a PNG bar chart.
type ChartRenderer struct {
	Width  vg.Length
	Height vg.Length
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

func (r *ChartRenderer) Name() string { return "png" }

func (r *ChartRenderer) Ext() string { return "png" }

func (r *ChartRenderer) Render(w io.Writer, rep *model.Report) error {
	if len(rep.Counts) == 0 {
		return ErrNoData
	}

	values := make(plotter.Values, len(rep.Counts))
	labels := make([]string, len(rep.Counts))
	for i, c := range rep.Counts {
		values[i] = float64(c.Count)
		labels[i] = c.Category
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Crimes with an outcome, %s", rep.Month)
	p.X.Label.Text = "CRIME"
	p.Y.Label.Text = "COUNT"

	bars, err := plotter.NewBarChart(values, barWidth(r.Width, len(values)))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(7)

	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// barWidth leaves roughly a third of each category slot empty.
func barWidth(total vg.Length, n int) vg.Length {
	if n < 1 {
		n = 1
	}
	width := total * 0.8 / vg.Length(n) * 2 / 3
	if width > vg.Points(40) {
		width = vg.Points(40)
	}
	return width
}
