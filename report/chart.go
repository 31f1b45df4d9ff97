package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "1200px"
	chartHeight = "600px"
)

// WriteTraceChart renders the log-likelihood trace as a standalone HTML line
// chart. sweeps[j] is the sweep after which ll[j] was measured.
func WriteTraceChart(w io.Writer, title string, sweeps []int, ll []float64) error {
	if len(sweeps) != len(ll) {
		return fmt.Errorf("trace has %d sweeps but %d values", len(sweeps), len(ll))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "joint log-likelihood log p(w, z)",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sweep"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "log-likelihood"}),
	)

	xs := make([]string, len(sweeps))
	data := make([]opts.LineData, len(ll))
	for j, s := range sweeps {
		xs[j] = strconv.Itoa(s)
		data[j] = opts.LineData{Value: ll[j]}
	}
	line.SetXAxis(xs).AddSeries("log-likelihood", data)
	return line.Render(w)
}
