/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package report

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	CSVName  = "assembly_summary.csv"
	HTMLName = "assembly_summary.html"

	sizeChartTitle       = "Assembly size"
	contiguityChartTitle = "Assembly contiguity"
	lengthAxisName       = "Length (bp)"
)

// Write writes the CSV and HTML forms of the given Metrics to CSVName and
// HTMLName in the given dir, returning their paths.
func Write(dir string, metrics []Metrics) (string, string, error) {
	if len(metrics) == 0 {
		return "", "", ErrNoAssemblies
	}

	csvPath := filepath.Join(dir, CSVName)
	if err := writeFile(csvPath, metrics, WriteCSV); err != nil {
		return "", "", err
	}

	htmlPath := filepath.Join(dir, HTMLName)
	if err := writeFile(htmlPath, metrics, WriteHTML); err != nil {
		return csvPath, "", err
	}

	return csvPath, htmlPath, nil
}

func writeFile(path string, metrics []Metrics, write func(io.Writer, []Metrics) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = write(f, metrics); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

// WriteCSV writes the Metrics as a table with a header row.
func WriteCSV(w io.Writer, metrics []Metrics) error {
	n := len(metrics)
	names := make([]string, n)
	contigs := make([]int, n)
	totals := make([]int, n)
	mins := make([]int, n)
	maxs := make([]int, n)
	means := make([]float64, n)
	n50s := make([]int, n)
	circular := make([]int, n)

	for i, m := range metrics {
		names[i] = m.Sample
		contigs[i] = m.Contigs
		totals[i] = m.TotalLength
		mins[i] = m.MinLength
		maxs[i] = m.MaxLength
		means[i] = m.MeanLength
		n50s[i] = m.N50
		circular[i] = m.Circular
	}

	df := dataframe.New(
		series.New(names, series.String, "sample"),
		series.New(contigs, series.Int, "contigs"),
		series.New(totals, series.Int, "total_length"),
		series.New(mins, series.Int, "min_length"),
		series.New(maxs, series.Int, "max_length"),
		series.New(means, series.Float, "mean_length"),
		series.New(n50s, series.Int, "n50"),
		series.New(circular, series.Int, "circular_contigs"),
	)

	if df.Err != nil {
		return df.Err
	}

	return df.WriteCSV(w)
}

// WriteHTML writes a page of bar charts comparing the assemblies.
func WriteHTML(w io.Writer, metrics []Metrics) error {
	names := make([]string, len(metrics))
	totals := make([]opts.BarData, len(metrics))
	n50s := make([]opts.BarData, len(metrics))
	maxs := make([]opts.BarData, len(metrics))

	for i, m := range metrics {
		names[i] = m.Sample
		totals[i] = opts.BarData{Value: m.TotalLength}
		n50s[i] = opts.BarData{Value: m.N50}
		maxs[i] = opts.BarData{Value: m.MaxLength}
	}

	size := newBar(sizeChartTitle)
	size.SetXAxis(names).AddSeries("total length", totals)

	contiguity := newBar(contiguityChartTitle)
	contiguity.SetXAxis(names).
		AddSeries("N50", n50s).
		AddSeries("longest contig", maxs)

	page := components.NewPage()
	page.AddCharts(size, contiguity)

	return page.Render(w)
}

func newBar(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: lengthAxisName}),
	)

	return bar
}
