package adapter

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/evoss98/ns-3-dev-git/domain"
)

type seriesStyle struct {
	color color.Color
	shape draw.GlyphDrawer
}

// blue squares and green circles first, as the fifo/drr comparison has always looked
var seriesStyles = []seriesStyle{
	{color.RGBA{B: 255, A: 255}, draw.BoxGlyph{}},
	{color.RGBA{G: 128, A: 255}, draw.CircleGlyph{}},
	{color.RGBA{R: 255, A: 255}, draw.TriangleGlyph{}},
}

func styleFor(i int) seriesStyle {
	if i < len(seriesStyles) {
		return seriesStyles[i]
	}
	return seriesStyle{plotutil.Color(i), plotutil.Shape(i)}
}

// PlotRenderer draws figures as PNG images, one panel per row.
type PlotRenderer struct {
	width       vg.Length
	panelHeight vg.Length
}

func NewPlotRenderer() *PlotRenderer {
	return &PlotRenderer{
		width:       8 * vg.Inch,
		panelHeight: 5 * vg.Inch,
	}
}

func (r *PlotRenderer) Render(fig domain.Figure, filename string) error {
	if len(fig.Panels) == 0 {
		return domain.ErrNoSeries
	}
	plots := make([][]*plot.Plot, len(fig.Panels))
	for i, chart := range fig.Panels {
		p, err := newPlot(chart)
		if err != nil {
			return fmt.Errorf("panel %q: %w", chart.Title, err)
		}
		plots[i] = []*plot.Plot{p}
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	if len(plots) == 1 {
		return plots[0][0].Save(r.width, r.panelHeight, filename)
	}

	img := vgimg.New(r.width, r.panelHeight*vg.Length(len(plots)))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Millimeter,
		PadBottom: vg.Millimeter,
		PadY:      4 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}

func newPlot(chart domain.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.X.Label.Text = chart.XLabel
	p.Y.Label.Text = chart.YLabel
	p.Legend.Top = true

	for i, s := range chart.Series {
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j].X = pt.X
			pts[j].Y = pt.Y
		}
		style := styleFor(i)
		if chart.Lines {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, err
			}
			line.Color = style.color
			p.Add(line)
			p.Legend.Add(s.Name, line)
			continue
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = style.shape
		scatter.GlyphStyle.Color = style.color
		p.Add(scatter)
		p.Legend.Add(s.Name, scatter)
	}

	// after Add, which widens the axes to the data
	if chart.YRange != nil {
		p.Y.Min = chart.YRange.Min
		p.Y.Max = chart.YRange.Max
	}
	return p, nil
}
