package heightmap

import (
	"math"

	"heightmap-converter/internal/job"
)

// Grid is a regular elevation grid stored row-major, north row first.
type Grid struct {
	Cols      int
	Rows      int
	XLL       float64
	YLL       float64
	CellSize  float64
	NoData    float64
	HasNoData bool
	Values    []float64
}

func NewGrid(cols, rows int, cellSize float64) *Grid {
	return &Grid{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		Values:   make([]float64, cols*rows),
	}
}

func (g *Grid) Valid() bool {
	return g != nil && g.Cols > 0 && g.Rows > 0 && g.CellSize > 0 && len(g.Values) == g.Cols*g.Rows
}

func (g *Grid) At(col, row int) float64 {
	return g.Values[row*g.Cols+col]
}

func (g *Grid) Set(col, row int, v float64) {
	g.Values[row*g.Cols+col] = v
}

func (g *Grid) IsNoData(v float64) bool {
	return g.HasNoData && v == g.NoData
}

func (g *Grid) Clone() *Grid {
	c := *g
	c.Values = append([]float64(nil), g.Values...)
	return &c
}

// Stats returns low, high and mean over all cells that hold data.
func (g *Grid) Stats() (job.DataInfo, bool) {
	low, high, sum := math.MaxFloat64, -math.MaxFloat64, 0.0
	n := 0
	for _, v := range g.Values {
		if g.IsNoData(v) {
			continue
		}
		low = math.Min(low, v)
		high = math.Max(high, v)
		sum += v
		n++
	}
	if n == 0 {
		return job.DataInfo{}, false
	}
	return job.DataInfo{Low: low, High: high, Average: sum / float64(n)}, true
}

// mapValues returns a copy of g with fn applied to every data cell.
func (g *Grid) mapValues(fn func(float64) float64) *Grid {
	out := g.Clone()
	for i, v := range out.Values {
		if out.IsNoData(v) {
			continue
		}
		out.Values[i] = fn(v)
	}
	return out
}
