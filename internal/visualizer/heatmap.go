package visualizer

import (
	"bytes"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Eldaram/data-analyzer/internal/analyzer"
	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// heatmap layout in pixels
const (
	heatmapMarginLeft   = 140
	heatmapMarginTop    = 60
	heatmapMarginRight  = 110
	heatmapMarginBottom = 60
	colorbarWidth       = 24
	colorbarGap         = 24
	colorbarSteps       = 64
)

var nanColor = drawing.ColorFromHex("eeeeee")

// Heatmap draws the Pearson correlation matrix of the numeric columns of t as
// an annotated grid. Colors span the colormap from -1 to 1 and every cell is
// labelled with its coefficient to two decimals.
func (v *Visualizer) Heatmap(t dataset.Table, opts Options) (*Chart, error) {
	m, err := analyzer.Pearson(t)
	if err != nil {
		return nil, err
	}
	name := opts.Colormap
	if name == "" {
		name = v.style.Colormap
	}
	cm, err := lookupColormap(name)
	if err != nil {
		return nil, err
	}

	width, height := v.style.Width, v.style.Width*4/5
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to create heatmap canvas", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, apperrors.NewRenderError("failed to load chart font", err)
	}
	r.SetFont(font)

	fillRect(r, drawing.ColorWhite, 0, 0, width, height)

	title := titleOr(opts.Title, "Heatmap")
	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(v.style.FontSize + 4)
	tb := r.MeasureText(title)
	r.Text(title, (width-tb.Width())/2, heatmapMarginTop/2+tb.Height()/2)

	n := len(m.Columns)
	gridW := width - heatmapMarginLeft - heatmapMarginRight
	gridH := height - heatmapMarginTop - heatmapMarginBottom
	cellW, cellH := gridW/n, gridH/n

	r.SetFontSize(v.style.FontSize)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0 := heatmapMarginLeft + j*cellW
			y0 := heatmapMarginTop + i*cellH
			val := m.At(i, j)

			fill, label := nanColor, "nan"
			if !math.IsNaN(val) {
				fill = cm.at((val + 1) / 2)
				label = strconv.FormatFloat(val, 'f', 2, 64)
			}
			fillRect(r, fill, x0, y0, x0+cellW, y0+cellH)

			text := drawing.ColorBlack
			if luminance(fill) < 0.5 {
				text = drawing.ColorWhite
			}
			r.SetFontColor(text)
			lb := r.MeasureText(label)
			r.Text(label, x0+(cellW-lb.Width())/2, y0+(cellH+lb.Height())/2)
		}
	}

	r.SetFontColor(drawing.ColorBlack)
	for i, col := range m.Columns {
		lb := r.MeasureText(col)
		// row labels right-aligned against the grid
		r.Text(col, heatmapMarginLeft-8-lb.Width(), heatmapMarginTop+i*cellH+(cellH+lb.Height())/2)
		// column labels centered under the grid
		r.Text(col, heatmapMarginLeft+i*cellW+(cellW-lb.Width())/2, heatmapMarginTop+n*cellH+8+lb.Height())
	}

	drawColorbar(r, cm, heatmapMarginLeft+n*cellW+colorbarGap, heatmapMarginTop, n*cellH)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, apperrors.NewRenderError("failed to encode heatmap", err)
	}
	return v.finish(&Chart{
		Kind:   KindHeatmap,
		Title:  title,
		Width:  width,
		Height: height,
		Matrix: &m,
		png:    buf.Bytes(),
	}, opts)
}

func drawColorbar(r chart.Renderer, cm colormap, x, y, h int) {
	step := float64(h) / colorbarSteps
	for s := 0; s < colorbarSteps; s++ {
		top := y + int(math.Round(float64(s)*step))
		bottom := y + int(math.Round(float64(s+1)*step))
		// top of the bar is +1
		fillRect(r, cm.at(1-(float64(s)+0.5)/colorbarSteps), x, top, x+colorbarWidth, bottom)
	}
	r.SetFontColor(drawing.ColorBlack)
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		label := strconv.FormatFloat(tick, 'f', 1, 64)
		lb := r.MeasureText(label)
		ty := y + int(math.Round((1-tick)/2*float64(h)))
		r.Text(label, x+colorbarWidth+6, ty+lb.Height()/2)
	}
}

func fillRect(r chart.Renderer, c drawing.Color, x0, y0, x1, y1 int) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(1)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.FillStroke()
}
