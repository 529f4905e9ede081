package slowplot

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	slowdownChartWidth  = 864
	slowdownChartHeight = 432
	cdfChartWidth       = 720
	cdfChartHeight      = 576

	// Rendered pixels per PDF point; charts are drawn at 2x for crispness.
	pixelsPerPoint = 2

	slowdownYMin = 1.0
	slowdownYMax = 100.0
)

// makeHistogram converts per-bucket points into step coordinates:
// (x1,y1),(x2,y2) becomes (x1,y1),(x2,y1),(x2,y2), with a leading point at
// x=0 holding the first value.
func makeHistogram(xs, ys []float64) ([]float64, []float64) {
	xNew := []float64{}
	yNew := []float64{}

	for i := range xs {
		if len(xNew) != 0 {
			xNew = append(xNew, xs[i])
			yNew = append(yNew, ys[i-1])
		} else {
			xNew = append(xNew, 0)
			yNew = append(yNew, ys[i])
		}
		xNew = append(xNew, xs[i])
		yNew = append(yNew, ys[i])
	}

	return xNew, yNew
}

// clampToMin lifts values below min up to min, so log-scaled axes never see
// zero or negative coordinates.
func clampToMin(ys []float64, min float64) []float64 {
	clamped := make([]float64, len(ys))

	for i, y := range ys {
		if y < min {
			y = min
		}
		clamped[i] = y
	}

	return clamped
}

func formatLengthLabel(length int) string {
	if length < 1000 {
		return fmt.Sprintf("%d", length)
	}
	if length < 100000 {
		return fmt.Sprintf("%.1fK", float64(length)/1000)
	}
	return fmt.Sprintf("%.0fK", float64(length)/1000)
}

// getLengthTicks labels the cumulative-fraction x axis at 0.1 steps with the
// message length reached at each step.
func getLengthTicks(data *Dataset) []chart.Tick {
	ticks := []chart.Tick{}
	target := 0.0
	cumFrac := 0.0
	total := float64(data.TotalMessages)

	for _, length := range sortedLengths(data.RTTs) {
		cumFrac += float64(len(data.RTTs[length])) / total
		for cumFrac >= target {
			ticks = append(ticks, chart.Tick{Value: target, Label: formatLengthLabel(length)})
			target += 0.1
		}
	}

	return ticks
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: chart.ColorAlternateGray,
		StrokeWidth: 1.0,
	}
}

// getSlowdownChart builds the slowdown-vs-message-length step chart: x is the
// cumulative fraction of messages, y is the slowdown on a log scale.
func getSlowdownChart(title string, homa *Digest, tcp *Digest, homaData *Dataset) *chart.Chart {
	series := []chart.Series{}

	for _, line := range []struct {
		name   string
		digest *Digest
		values []float64
	}{
		{"Homa P50", homa, homa.Slow50},
		{"Homa P99", homa, homa.Slow99},
		{"TCP P50", tcp, tcp.Slow50},
		{"TCP P99", tcp, tcp.Slow99},
	} {
		if len(line.values) == 0 {
			continue
		}
		xs, ys := makeHistogram(line.digest.CumFrac, line.values)
		series = append(series, chart.ContinuousSeries{
			Name:    line.name,
			XValues: xs,
			YValues: clampToMin(ys, slowdownYMin),
		})
	}

	ch := &chart.Chart{
		Title:      title,
		Width:      slowdownChartWidth,
		Height:     slowdownChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Message Length",
			Range: &chart.ContinuousRange{Min: 0, Max: 1.0},
			Ticks: getLengthTicks(homaData),
		},
		YAxis: chart.YAxis{
			Name:  "Slowdown",
			Range: &chart.LogarithmicRange{Min: slowdownYMin, Max: slowdownYMax},
			Ticks: []chart.Tick{
				{Value: 1, Label: "1"},
				{Value: 10, Label: "10"},
				{Value: 100, Label: "100"},
			},
			GridMajorStyle: gridStyle(),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}

	return ch
}

// getShortCDFChart builds the log-log chart of short-message RTT CDFs, with
// x limits rounded outward to powers of 10 from the observed RTT range.
func getShortCDFChart(title string, homa *CDF, tcp *CDF, unloaded *CDF) (*chart.Chart, error) {
	cdfs := []struct {
		name string
		cdf  *CDF
	}{
		{"TCP", tcp},
		{"Homa", homa},
		{"Homa low load", unloaded},
	}

	xMin := math.Inf(1)
	xMax := math.Inf(-1)
	for _, item := range cdfs {
		if len(item.cdf.X) == 0 {
			continue
		}
		xMin = math.Min(xMin, item.cdf.X[0])
		xMax = math.Max(xMax, item.cdf.X[len(item.cdf.X)-1])
	}
	if math.IsInf(xMin, 1) {
		return nil, errors.New("no short-message samples to plot")
	}
	xMin = math.Pow(10, math.Floor(math.Log10(xMin)))
	xMax = math.Pow(10, math.Ceil(math.Log10(xMax)))

	// The y floor tracks the Homa series' resolution; fall back to the other
	// series only when Homa has no short messages at all.
	yMin := 1.0
	for _, cdf := range []*CDF{homa, tcp, unloaded} {
		if n := len(cdf.X); n > 0 {
			yMin = 1.0 / (float64(n)/2 + 1)
			break
		}
	}

	series := []chart.Series{}
	for _, item := range cdfs {
		if len(item.cdf.X) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    item.name,
			XValues: item.cdf.X,
			YValues: clampToMin(item.cdf.Y, yMin),
		})
	}

	ch := &chart.Chart{
		Title:      title,
		Width:      cdfChartWidth,
		Height:     cdfChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "RTT (usecs)",
			Range:          &chart.LogarithmicRange{Min: xMin, Max: xMax},
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Name:           "Cumulative Fraction of Short Messages",
			Range:          &chart.LogarithmicRange{Min: yMin, Max: 1.0},
			GridMajorStyle: gridStyle(),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}

	return ch, nil
}

// writeChartPDF renders the chart as an in-memory PNG and places it on a
// single-page PDF sized to the chart's aspect ratio.
func writeChartPDF(path string, ch *chart.Chart) error {
	buf := &bytes.Buffer{}
	if err := ch.Render(chart.PNG, buf); err != nil {
		return errors.Wrapf(err, "could not render chart for %s", path)
	}

	widthPt := float64(ch.Width) / pixelsPerPoint
	heightPt := float64(ch.Height) / pixelsPerPoint

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: widthPt, Ht: heightPt},
	})
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("chart", opts, buf)
	pdf.ImageOptions("chart", 0, 0, widthPt, heightPt, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}

	return nil
}

func writeChartPNG(path string, ch *chart.Chart) error {
	buf := &bytes.Buffer{}
	if err := ch.Render(chart.PNG, buf); err != nil {
		return errors.Wrapf(err, "could not render chart for %s", path)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}

	return nil
}
