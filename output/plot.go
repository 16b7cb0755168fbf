package output

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/AlexScherba16/itask/statistics"
)

// PlotIntervals renders an interactive line chart of median ask/bid and
// total volume per interval, and saves it as a standalone HTML file.
func PlotIntervals(intervals []statistics.IntervalStatistics, filename string) error {
	labels := make([]string, len(intervals))
	askMedian := make([]opts.LineData, len(intervals))
	bidMedian := make([]opts.LineData, len(intervals))
	volume := make([]opts.LineData, len(intervals))

	for i, iv := range intervals {
		labels[i] = formatInterval(iv)
		askMedian[i] = opts.LineData{Value: iv.AskMedian}
		bidMedian[i] = opts.LineData{Value: iv.BidMedian}
		volume[i] = opts.LineData{Value: iv.AskVolume + iv.BidVolume}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Quote Interval Statistics",
			Width:           "180vh",
			Height:          "100vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Ask/Bid Median and Volume per Interval",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Interval", Data: labels}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(labels).
		AddSeries("Ask Median", askMedian).
		AddSeries("Bid Median", bidMedian).
		AddSeries("Total Volume", volume)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(line)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("output: create plot file %s: %w", filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("output: render plot: %w", err)
	}

	fmt.Printf("Plot saved to %s\n", filename)
	return nil
}
