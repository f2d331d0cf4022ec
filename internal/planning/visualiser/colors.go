package visualiser

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/palette"
)

// depthColors returns n distinct colours, one per tree depth, running from
// red to magenta so the deepest level is not red again.
func depthColors(n int) []color.Color {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		// Rainbow divides the hue range by n-1.
		return palette.Rainbow(2, palette.Red, palette.Magenta, 0.7, 0.9, 1).Colors()[:1]
	}
	return palette.Rainbow(n, palette.Red, palette.Magenta, 0.7, 0.9, 1).Colors()
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
