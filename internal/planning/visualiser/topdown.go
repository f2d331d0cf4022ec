package visualiser

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SaveTopDownPNG draws the tree rooted at root onto the XY plane and writes
// it to path. The image format follows the file extension (png, svg, pdf).
// Each segment is drawn from its parent's end point so branches connect;
// dead-end leaves (visited, no children) are marked with a cross.
func SaveTopDownPNG(root *segment.Segment, path, title string) error {
	if root == nil {
		return errors.New("plot tree: nil root")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	colors := depthColors(root.Depth() + 1)
	var deadEnds plotter.XYs

	var walkErr error
	root.Walk(func(seg *segment.Segment, depth int) bool {
		for _, c := range seg.Children {
			pts := make(plotter.XYs, 0, len(c.Trajectory)+1)
			if from, ok := seg.LastWaypoint(); ok {
				pts = append(pts, plotter.XY{X: from.Position.X, Y: from.Position.Y})
			}
			for _, w := range c.Trajectory {
				pts = append(pts, plotter.XY{X: w.Position.X, Y: w.Position.Y})
			}
			if len(pts) < 2 {
				continue
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				walkErr = fmt.Errorf("segment line: %w", err)
				return false
			}
			line.Color = colors[depth+1]
			line.Width = vg.Points(1)
			p.Add(line)
		}
		if seg != root && seg.Visited && len(seg.Children) == 0 {
			if last, ok := seg.LastWaypoint(); ok {
				deadEnds = append(deadEnds, plotter.XY{X: last.Position.X, Y: last.Position.Y})
			}
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	if start, ok := root.LastWaypoint(); ok {
		origin, err := plotter.NewScatter(plotter.XYs{{X: start.Position.X, Y: start.Position.Y}})
		if err != nil {
			return fmt.Errorf("root marker: %w", err)
		}
		origin.GlyphStyle = draw.GlyphStyle{Color: color.Black, Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
		p.Add(origin)
		p.Legend.Add("root", origin)
	}
	if len(deadEnds) > 0 {
		marks, err := plotter.NewScatter(deadEnds)
		if err != nil {
			return fmt.Errorf("dead end markers: %w", err)
		}
		marks.GlyphStyle = draw.GlyphStyle{Color: color.RGBA{R: 200, A: 255}, Radius: vg.Points(3), Shape: draw.CrossGlyph{}}
		p.Add(marks)
		p.Legend.Add("dead end", marks)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
