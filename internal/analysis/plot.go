// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Per-frame metric plots.

package analysis

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"

	"github.com/evolution-gaming/vqcompare/internal/vqm"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	panelWidth  = vg.Centimeter * 24
	panelHeight = vg.Centimeter * 7
)

var ErrNoValues = errors.New("no values to plot")

// ColorPalette pairs a base color with its darker variant.
var ColorPalette = []color.RGBA{
	{R: 230, G: 57, B: 70, A: 255},  // red
	{R: 143, G: 35, B: 43, A: 255},  // dark red
	{R: 84, G: 184, B: 50, A: 255},  // green
	{R: 50, G: 110, B: 30, A: 255},  // dark green
	{R: 63, G: 55, B: 201, A: 255},  // blue
	{R: 51, G: 45, B: 163, A: 255},  // dark blue
	{R: 86, G: 11, B: 173, A: 255},  // purple
	{R: 62, G: 8, B: 125, A: 255},   // dark purple
	{R: 31, G: 180, B: 206, A: 255}, // cyan
	{R: 11, G: 123, B: 143, A: 255}, // dark cyan
	{R: 255, G: 174, B: 0, A: 255},  // orange
	{R: 173, G: 118, B: 0, A: 255},  // dark orange
}

// tierColors is used to paint per-frame VMAF points and tier bars.
var tierColors = map[vqm.Tier]color.RGBA{
	vqm.TierBad:       ColorPalette[1],
	vqm.TierPoor:      ColorPalette[0],
	vqm.TierFair:      ColorPalette[10],
	vqm.TierGood:      ColorPalette[8],
	vqm.TierExcellent: ColorPalette[2],
}

// tierCounts returns number of frames per VMAF tier, indexed by vqm.Tier.
func tierCounts(values []float64) []float64 {
	counts := make([]float64, len(vqm.Bands))
	for _, v := range values {
		counts[vqm.ClassifyVMAF(v)]++
	}
	return counts
}

// CreateFramePlot plots metric value against frame number.
//
// VMAF frames are additionally drawn as points colored by quality tier, along
// with tier boundaries, on a fixed [0, 100] axis.
func CreateFramePlot(values []float64, metric vqm.MetricName) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Frame #"
	p.Y.Label.Text = string(metric)

	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return p, fmt.Errorf("CreateFramePlot() creating new Line: %w", err)
	}
	line.Color = ColorPalette[4]
	p.Add(plotter.NewGrid(), line)

	if metric != vqm.VMAF {
		return p, nil
	}

	points, err := plotter.NewScatter(xys)
	if err != nil {
		return p, fmt.Errorf("CreateFramePlot() creating new Scatter: %w", err)
	}
	points.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  tierColors[vqm.ClassifyVMAF(values[i])],
			Radius: vg.Points(1.5),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(points)

	xMax := float64(len(values) - 1)
	for _, b := range vqm.Bands[1:] {
		bLine, bLabel, err := horizontalLineWithLabel(b.Low, 0, xMax, b.Tier.String())
		if err != nil {
			return p, fmt.Errorf("CreateFramePlot() tier boundary: %w", err)
		}
		p.Add(bLine, bLabel)
	}
	p.Y.Min = 0
	p.Y.Max = 100

	return p, nil
}

// CreateTierPlot creates bar chart of frame counts per VMAF quality tier.
func CreateTierPlot(values []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = "Frames"

	bars, err := plotter.NewBarChart(plotter.Values(tierCounts(values)), vg.Centimeter)
	if err != nil {
		return p, fmt.Errorf("CreateTierPlot() creating new BarChart: %w", err)
	}
	bars.Color = ColorPalette[6]
	bars.LineStyle.Width = 0

	names := make([]string, len(vqm.Bands))
	for i, b := range vqm.Bands {
		names[i] = b.Tier.String()
	}
	p.NominalX(names...)
	p.Add(plotter.NewGrid(), bars)

	return p, nil
}

// CreateHistogramPlot creates histogram of metric values.
func CreateHistogramPlot(values []float64, name string) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = name
	p.Y.Label.Text = "N"

	bins := 100
	if len(values) < bins {
		bins = len(values)
	}

	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return p, fmt.Errorf("CreateHistogramPlot() creating new histogram: %w", err)
	}
	hist.Color = color.Transparent
	hist.FillColor = ColorPalette[7]
	p.Add(hist, plotter.NewGrid())

	return p, nil
}

// CreateCDFPlot creates empirical Cumulative Distribution Function plot with a
// few low quantiles marked: those are the frames viewers notice.
func CreateCDFPlot(values []float64, name string) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = name
	p.Y.Label.Text = "Probability"
	p.Y.Min = 0
	p.Y.Max = 1

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	xys := make(plotter.XYs, len(sorted))
	for i, v := range sorted {
		xys[i].X = v
		xys[i].Y = stat.CDF(v, stat.Empirical, sorted, nil)
	}
	cdf, err := plotter.NewLine(xys)
	if err != nil {
		return p, fmt.Errorf("CreateCDFPlot() creating new Line: %w", err)
	}
	cdf.Color = ColorPalette[2]
	p.Add(cdf, plotter.NewGrid())

	marks, err := quantileMarks(sorted, p.Y.Min, p.Y.Max, 0.01, 0.05, 0.5)
	if err != nil {
		return p, fmt.Errorf("CreateCDFPlot() quantiles: %w", err)
	}
	p.Add(marks...)

	return p, nil
}

// MultiPlotVqm saves per-frame metric plot, its distribution and CDF plot into
// one PNG file. For VMAF distribution is shown per quality tier.
func MultiPlotVqm(values []float64, metric vqm.MetricName, title, outFile string) error {
	if len(values) == 0 {
		return ErrNoValues
	}

	framePlot, err := CreateFramePlot(values, metric)
	if err != nil {
		return err
	}
	framePlot.Title.Text = title + "\n\nPer frame " + string(metric)

	var distPlot *plot.Plot
	if metric == vqm.VMAF {
		distPlot, err = CreateTierPlot(values)
		if err != nil {
			return err
		}
		distPlot.Title.Text = "Frames per quality tier"
	} else {
		distPlot, err = CreateHistogramPlot(values, string(metric))
		if err != nil {
			return err
		}
		distPlot.Title.Text = string(metric) + " Histogram"
		distPlot.X.Label.Text = ""
	}

	cdfPlot, err := CreateCDFPlot(values, string(metric))
	if err != nil {
		return err
	}
	cdfPlot.Title.Text = "Cumulative Distribution Function (CDF)"

	return savePanels([]*plot.Plot{framePlot, distPlot, cdfPlot}, outFile)
}

// savePanels draws plots stacked vertically and writes result as PNG.
func savePanels(panels []*plot.Plot, outFile string) error {
	grid := make([][]*plot.Plot, len(panels))
	for i, p := range panels {
		grid[i] = []*plot.Plot{p}
	}

	img := vgimg.New(panelWidth, panelHeight*vg.Length(len(panels)))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: len(panels), Cols: 1, PadY: vg.Points(10)}
	canvases := plot.Align(grid, tiles, dc)
	for i, p := range panels {
		p.Draw(canvases[i][0])
	}

	w, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("savePanels() creating file: %w", err)
	}
	defer w.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("savePanels() writing PNG: %w", err)
	}

	return w.Close()
}

func verticalLine(x, yMin, yMax float64) (*plotter.Line, error) {
	return plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
}

func horizontalLineWithLabel(y, xMin, xMax float64, label string) (*plotter.Line, *plotter.Labels, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: y}, {X: xMax, Y: y}})
	if err != nil {
		return nil, nil, err
	}
	line.Color = color.RGBA{156, 67, 162, 255}
	line.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(4)}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: xMin, Y: y}},
		Labels: []string{label},
	})
	if err != nil {
		return nil, nil, err
	}
	labels.Offset.X = 5
	labels.Offset.Y = 5

	return line, labels, nil
}

// quantileMarks returns vertical lines with labels for given quantiles and
// mean. Values must be sorted.
func quantileMarks(sorted []float64, yMin, yMax float64, quantiles ...float64) ([]plot.Plotter, error) {
	type mark struct {
		x, y  float64
		label string
		color color.RGBA
	}

	marks := make([]mark, 0, len(quantiles)+1)
	for i, q := range quantiles {
		x := stat.Quantile(q, stat.Empirical, sorted, nil)
		marks = append(marks, mark{
			x:     x,
			y:     q,
			label: fmt.Sprintf("q(%.2f)=%.3f", q, x),
			// Step through palette with wrap-around.
			color: ColorPalette[i*5%len(ColorPalette)],
		})
	}
	mean := stat.Mean(sorted, nil)
	marks = append(marks, mark{
		x:     mean,
		y:     stat.CDF(mean, stat.Empirical, sorted, nil),
		label: fmt.Sprintf("mean=%.3f", mean),
		color: ColorPalette[len(ColorPalette)-1],
	})

	plotters := make([]plot.Plotter, 0, 2*len(marks))
	for _, m := range marks {
		line, err := verticalLine(m.x, yMin, yMax)
		if err != nil {
			return nil, err
		}
		line.Color = m.color
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: m.x, Y: m.y}},
			Labels: []string{m.label},
		})
		if err != nil {
			return nil, err
		}
		labels.Offset.X = 5
		labels.Offset.Y = -5

		plotters = append(plotters, line, labels)
	}

	return plotters, nil
}
