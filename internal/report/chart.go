// Package report renders clustering results for review.
package report

import (
	"fmt"
	"io"
	"math"

	"crash-clustering/internal/group"
	"crash-clustering/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const noiseColor = "#9e9e9e"

// ScatterChart draws every record at its longitude/latitude, one series per
// cluster and a grey series for noise.
type ScatterChart struct {
	title string
}

// NewScatterChart creates a chart renderer with the given page title.
func NewScatterChart(title string) *ScatterChart {
	return &ScatterChart{title: title}
}

// Render writes the chart as a standalone HTML page.
func (c *ScatterChart) Render(w io.Writer, dataset *models.Dataset, partition *group.Partition) error {
	minLon, maxLon, minLat, maxLat := extent(dataset.Points())
	padLon := math.Max((maxLon-minLon)*0.05, 1e-4)
	padLat := math.Max((maxLat-minLat)*0.05, 1e-4)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: c.title, Width: "1000px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.title,
			Subtitle: fmt.Sprintf("points=%d clusters=%d noise=%d", len(dataset.Records), len(partition.Clusters), len(partition.Noise)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(partition.Clusters) <= 20)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minLon - padLon, Max: maxLon + padLon, Name: "Longitude", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minLat - padLat, Max: maxLat + padLat, Name: "Latitude", NameLocation: "middle", NameGap: 40}),
	)

	scatter.AddSeries("noise", scatterData(dataset, partition.Noise),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: noiseColor}),
	)
	for _, label := range partition.Labels() {
		scatter.AddSeries(fmt.Sprintf("cluster %02d", int(label)), scatterData(dataset, partition.Clusters[label]),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
		)
	}

	return scatter.Render(w)
}

func scatterData(dataset *models.Dataset, indices []int) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(indices))
	for _, idx := range indices {
		p := dataset.Records[idx].Point
		data = append(data, opts.ScatterData{Value: []interface{}{p.Longitude, p.Latitude}})
	}
	return data
}

func extent(points []models.GeoPoint) (minLon, maxLon, minLat, maxLat float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minLon, maxLon = points[0].Longitude, points[0].Longitude
	minLat, maxLat = points[0].Latitude, points[0].Latitude
	for _, p := range points[1:] {
		minLon = math.Min(minLon, p.Longitude)
		maxLon = math.Max(maxLon, p.Longitude)
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
	}
	return minLon, maxLon, minLat, maxLat
}
