package export

import (
	"bytes"
	"fmt"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ChartRenderer draws a series (optionally with a forecast band) as a PNG
// line chart.
type ChartRenderer struct {
	Width  vg.Length
	Height vg.Length
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// LinePNG renders the defined points of a derived series.
func (c *ChartRenderer) LinePNG(title, yLabel string, series domain.DerivedSeries) ([]byte, error) {
	pts := make(plotter.XYs, 0, len(series))
	for _, p := range series {
		if !p.Defined {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(p.Date.Unix()), Y: p.Value})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no defined points to plot", domain.ErrInvalidInput)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	p.Add(plotter.NewGrid(), line)

	return c.renderPNG(p)
}

// ForecastPNG renders predicted values with their lower and upper bounds.
func (c *ChartRenderer) ForecastPNG(forecast *domain.Forecast) ([]byte, error) {
	if len(forecast.Points) == 0 {
		return nil, fmt.Errorf("%w: empty forecast", domain.ErrInvalidInput)
	}

	predicted := make(plotter.XYs, len(forecast.Points))
	lower := make(plotter.XYs, len(forecast.Points))
	upper := make(plotter.XYs, len(forecast.Points))
	for i, fp := range forecast.Points {
		x := float64(fp.Date.Unix())
		predicted[i] = plotter.XY{X: x, Y: fp.Value}
		lower[i] = plotter.XY{X: x, Y: fp.Lower}
		upper[i] = plotter.XY{X: x, Y: fp.Upper}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("COVID-19 %s Forecast for %s", forecast.Metric, forecast.Country)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = fmt.Sprintf("Predicted %s", forecast.Metric)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	predictedLine, err := plotter.NewLine(predicted)
	if err != nil {
		return nil, fmt.Errorf("build predicted line: %w", err)
	}
	lowerLine, err := plotter.NewLine(lower)
	if err != nil {
		return nil, fmt.Errorf("build lower bound line: %w", err)
	}
	upperLine, err := plotter.NewLine(upper)
	if err != nil {
		return nil, fmt.Errorf("build upper bound line: %w", err)
	}
	lowerLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	upperLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(plotter.NewGrid(), predictedLine, lowerLine, upperLine)
	p.Legend.Add("predicted", predictedLine)
	p.Legend.Add("bounds", lowerLine)

	return c.renderPNG(p)
}

func (c *ChartRenderer) renderPNG(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(c.Width, c.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
