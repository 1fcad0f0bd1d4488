package heightmap

import (
	"bufio"
	"io"
)

// WriteXYZ writes one "x y z" line per data cell, using cell centres.
func WriteXYZ(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	for row := 0; row < g.Rows; row++ {
		y := g.YLL + (float64(g.Rows-1-row)+0.5)*g.CellSize
		for col := 0; col < g.Cols; col++ {
			v := g.At(col, row)
			if g.IsNoData(v) {
				continue
			}
			x := g.XLL + (float64(col)+0.5)*g.CellSize
			bw.WriteString(formatValue(x))
			bw.WriteByte(' ')
			bw.WriteString(formatValue(y))
			bw.WriteByte(' ')
			bw.WriteString(formatValue(v))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
