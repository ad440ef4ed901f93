package visualizer

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// BarChart draws one bar per row of t, labelled by categoryCol with the
// height taken from valueCol. Values are not aggregated.
func (v *Visualizer) BarChart(t dataset.Table, categoryCol, valueCol string, opts Options) (*Chart, error) {
	labels, values, err := labelsAndValues(t, categoryCol, valueCol)
	if err != nil {
		return nil, err
	}
	color, err := parseColor(v.colorOr(opts.Color))
	if err != nil {
		return nil, err
	}

	lo, hi := 0.0, 0.0
	bars := make([]chart.Value, len(values))
	for i, val := range values {
		lo = math.Min(lo, val)
		hi = math.Max(hi, val)
		bars[i] = chart.Value{
			Label: labels[i],
			Value: val,
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		}
	}
	lo, hi = paddedRange(lo, hi)

	title := titleOr(opts.Title, "Bar Chart")
	bc := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: v.style.FontSize + 4},
		Width:      v.style.Width,
		Height:     v.style.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontSize: v.style.FontSize},
		YAxis: chart.YAxis{
			Name:  valueCol,
			Style: chart.Style{FontSize: v.style.FontSize},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, apperrors.NewRenderError("failed to render bar chart", err)
	}
	return v.finish(&Chart{Kind: KindBar, Title: title, Width: bc.Width, Height: bc.Height, png: buf.Bytes()}, opts)
}

type point struct {
	x     float64
	t     time.Time
	label string
	y     float64
}

// LineChart connects the (xCol, yCol) points of t in ascending x order. A
// date column is drawn on a time axis and a numeric column on a continuous
// one; any other column is drawn at its row positions with the values as tick
// labels.
func (v *Visualizer) LineChart(t dataset.Table, xCol, yCol string, opts Options) (*Chart, error) {
	if missing := t.Missing(xCol, yCol); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing...)
	}
	ys, err := t.Floats(yCol)
	if err != nil {
		return nil, err
	}
	color, err := parseColor(v.colorOr(opts.Color))
	if err != nil {
		return nil, err
	}

	xKind := t.Kind(xCol)
	var points []point
	for i, y := range ys {
		x := t.Value(i, xCol)
		if math.IsNaN(y) || dataset.IsMissing(x) {
			continue
		}
		p := point{y: y, label: dataset.FormatValue(x)}
		switch xKind {
		case dataset.KindDate:
			p.t = x.(time.Time)
			p.x = chart.TimeToFloat64(p.t)
		case dataset.KindNumber:
			p.x = x.(float64)
		default:
			p.x = float64(len(points))
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, apperrors.NewRenderError(fmt.Sprintf("no values to plot in column '%s'", yCol), nil)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].x < points[j].x })

	style := chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 3}
	xs := make([]float64, len(points))
	ysSorted := make([]float64, len(points))
	ylo, yhi := points[0].y, points[0].y
	for i, p := range points {
		xs[i] = p.x
		ysSorted[i] = p.y
		ylo = math.Min(ylo, p.y)
		yhi = math.Max(yhi, p.y)
	}
	xlo, xhi := xs[0], xs[len(xs)-1]

	xAxis := chart.XAxis{Name: xCol, Style: chart.Style{FontSize: v.style.FontSize}}
	var series chart.Series
	switch xKind {
	case dataset.KindDate:
		times := make([]time.Time, len(points))
		for i, p := range points {
			times[i] = p.t
		}
		series = chart.TimeSeries{Name: yCol, XValues: times, YValues: ysSorted, Style: style}
		xAxis.ValueFormatter = chart.TimeValueFormatterWithFormat(dataset.DateLayout)
		if xlo == xhi {
			day := chart.TimeToFloat64(points[0].t.Add(24*time.Hour)) - xlo
			xlo, xhi = xlo-day, xhi+day
		}
	case dataset.KindNumber:
		series = chart.ContinuousSeries{Name: yCol, XValues: xs, YValues: ysSorted, Style: style}
		xlo, xhi = paddedRange(xlo, xhi)
	default:
		series = chart.ContinuousSeries{Name: yCol, XValues: xs, YValues: ysSorted, Style: style}
		ticks := make([]chart.Tick, len(points))
		for i, p := range points {
			ticks[i] = chart.Tick{Value: p.x, Label: p.label}
		}
		xAxis.Ticks = ticks
		xlo, xhi = paddedRange(xlo, xhi)
	}
	xAxis.Range = &chart.ContinuousRange{Min: xlo, Max: xhi}
	ylo, yhi = paddedRange(ylo, yhi)

	title := titleOr(opts.Title, "Line Chart")
	ch := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: v.style.FontSize + 4},
		Width:      v.style.Width,
		Height:     v.style.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Name:  yCol,
			Style: chart.Style{FontSize: v.style.FontSize},
			Range: &chart.ContinuousRange{Min: ylo, Max: yhi},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, apperrors.NewRenderError("failed to render line chart", err)
	}
	return v.finish(&Chart{Kind: KindLine, Title: title, Width: ch.Width, Height: ch.Height, png: buf.Bytes()}, opts)
}

// PieChart draws one slice per row of t sized by valueCol. Slice labels carry
// the share of the total to one decimal, as in "Food 33.3%".
func (v *Visualizer) PieChart(t dataset.Table, valueCol, labelCol string, opts Options) (*Chart, error) {
	labels, values, err := labelsAndValues(t, labelCol, valueCol)
	if err != nil {
		return nil, err
	}

	var total float64
	for i, val := range values {
		if val <= 0 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("pie chart values must be positive, '%s' has %s", labels[i], dataset.FormatValue(val)),
				valueCol)
		}
		total += val
	}

	slices := make([]chart.Value, len(values))
	for i, val := range values {
		slices[i] = chart.Value{Value: val, Label: sliceLabel(labels[i], val, total)}
	}

	title := titleOr(opts.Title, "Pie Chart")
	pc := chart.PieChart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: v.style.FontSize + 4},
		Width:      v.style.PieSize,
		Height:     v.style.PieSize,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		SliceStyle: chart.Style{
			FontSize:    v.style.FontSize,
			FontColor:   drawing.ColorBlack,
			StrokeColor: drawing.ColorWhite,
			StrokeWidth: 1,
		},
		Values: slices,
	}

	var buf bytes.Buffer
	if err := pc.Render(chart.PNG, &buf); err != nil {
		return nil, apperrors.NewRenderError("failed to render pie chart", err)
	}
	return v.finish(&Chart{Kind: KindPie, Title: title, Width: pc.Width, Height: pc.Height, png: buf.Bytes()}, opts)
}

func sliceLabel(label string, value, total float64) string {
	return fmt.Sprintf("%s %.1f%%", label, value/total*100)
}

func (v *Visualizer) colorOr(c string) string {
	if c == "" {
		return v.style.Color
	}
	return c
}
