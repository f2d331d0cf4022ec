package visualiser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderScatter3D writes an HTML page with every waypoint of the tree as a
// 3D scatter point, one series per depth.
func RenderScatter3D(root *segment.Segment, w io.Writer, title string) error {
	if root == nil {
		return errors.New("render tree: nil root")
	}

	depth := root.Depth()
	series := make([][]opts.Chart3DData, depth+1)
	points := 0
	root.Walk(func(seg *segment.Segment, d int) bool {
		for _, wp := range seg.Trajectory {
			series[d] = append(series[d], opts.Chart3DData{
				Value: []interface{}{wp.Position.X, wp.Position.Y, wp.Position.Z},
			})
			points++
		}
		return true
	})

	chart := charts.NewScatter3D()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("segments=%d depth=%d points=%d", root.Count(), depth, points)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X (m)"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y (m)"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z (m)"}),
	)

	colors := depthColors(depth + 1)
	for d, data := range series {
		name := fmt.Sprintf("depth %d", d)
		if d == 0 {
			name = "root"
		}
		chart.AddSeries(name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[d])}),
		)
	}

	if err := chart.Render(w); err != nil {
		return fmt.Errorf("render scatter3d: %w", err)
	}
	return nil
}

// SaveScatter3DHTML renders the tree with RenderScatter3D into a file.
func SaveScatter3DHTML(root *segment.Segment, path, title string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return RenderScatter3D(root, f, title)
}
