package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/all-mute/tg-sleepwatch/internal/domain"
)

// ErrNoData is returned when there is nothing to plot; the caller sends
// the text empty-state instead of an image.
var ErrNoData = errors.New("no data to plot")

// RenderChart draws the points-over-time line chart as PNG bytes, with
// dashed reference lines at the maximum score and at zero. The y-axis is
// padded one point beyond the observed range (or beyond 0..max when the
// data sits inside it).
func RenderChart(entries []domain.PointsEntry, displayName string, windowDays int) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoData
	}

	xs := make([]time.Time, 0, len(entries))
	ys := make([]float64, 0, len(entries))
	minY, maxY := 0.0, float64(domain.MaxPoints)
	for _, e := range entries {
		d, err := time.Parse(domain.DateLayout, e.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", e.Date, err)
		}
		p := float64(e.Points)
		xs = append(xs, d)
		ys = append(ys, p)
		if p < minY {
			minY = p
		}
		if p > maxY {
			maxY = p
		}
	}

	// Pad the x-span so single-day histories still render a valid range.
	refX := []time.Time{xs[0].Add(-12 * time.Hour), xs[len(xs)-1].Add(12 * time.Hour)}
	refLine := func(name string, y float64, color drawing.Color) chart.TimeSeries {
		return chart.TimeSeries{
			Name:    name,
			XValues: refX,
			YValues: []float64{y, y},
			Style: chart.Style{
				StrokeColor:     color,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Sleep Points for %s - Last %d Days", displayName, windowDays),
		Width:  1000,
		Height: 600,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Points",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    4,
				},
			},
			refLine(fmt.Sprintf("Maximum (%d points)", domain.MaxPoints),
				float64(domain.MaxPoints), drawing.ColorGreen),
			refLine("Zero", 0, drawing.ColorRed),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
