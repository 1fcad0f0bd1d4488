package heightmap

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"heightmap-converter/internal/model"
)

// WritePNG16 scales g into a 16-bit grayscale image. rng fixes the low/high
// mapping (shared across a batch); without it the grid's own range is used.
// No-data cells are written as black.
func WritePNG16(w io.Writer, g *Grid, rng *model.ValueRange) error {
	low, high := 0.0, 0.0
	if rng != nil {
		low, high = rng.Low, rng.High
	} else if st, ok := g.Stats(); ok {
		low, high = st.Low, st.High
	}
	span := high - low

	img := image.NewGray16(image.Rect(0, 0, g.Cols, g.Rows))
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			v := g.At(col, row)
			var y uint16
			if !g.IsNoData(v) && span > 0 {
				t := math.Max(0, math.Min(1, (v-low)/span))
				y = uint16(math.Round(t * math.MaxUint16))
			}
			img.SetGray16(col, row, color.Gray16{Y: y})
		}
	}
	return png.Encode(w, img)
}
