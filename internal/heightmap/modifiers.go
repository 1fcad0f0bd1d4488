package heightmap

import (
	"fmt"
	"math"

	"heightmap-converter/internal/job"
)

type Offset struct {
	Amount float64
}

func (m Offset) Name() string { return fmt.Sprintf("offset(%s)", formatValue(m.Amount)) }

func (m Offset) Apply(d job.Data) (job.Data, error) {
	g, err := asGrid(d)
	if err != nil {
		return nil, err
	}
	return g.mapValues(func(v float64) float64 { return v + m.Amount }), nil
}

type Scale struct {
	Factor float64
}

func (m Scale) Name() string { return fmt.Sprintf("scale(%s)", formatValue(m.Factor)) }

func (m Scale) Apply(d job.Data) (job.Data, error) {
	g, err := asGrid(d)
	if err != nil {
		return nil, err
	}
	return g.mapValues(func(v float64) float64 { return v * m.Factor }), nil
}

type Clamp struct {
	Min float64
	Max float64
}

func NewClamp(min, max float64) (Clamp, error) {
	if min > max {
		return Clamp{}, fmt.Errorf("clamp minimum %s is above maximum %s", formatValue(min), formatValue(max))
	}
	return Clamp{Min: min, Max: max}, nil
}

func (m Clamp) Name() string {
	return fmt.Sprintf("clamp(%s..%s)", formatValue(m.Min), formatValue(m.Max))
}

func (m Clamp) Apply(d job.Data) (job.Data, error) {
	g, err := asGrid(d)
	if err != nil {
		return nil, err
	}
	return g.mapValues(func(v float64) float64 { return math.Max(m.Min, math.Min(m.Max, v)) }), nil
}

// Invert mirrors heights inside the grid's own range, turning peaks into pits.
type Invert struct{}

func (Invert) Name() string { return "invert" }

func (Invert) Apply(d job.Data) (job.Data, error) {
	g, err := asGrid(d)
	if err != nil {
		return nil, err
	}
	st, ok := g.Stats()
	if !ok {
		return g.Clone(), nil
	}
	return g.mapValues(func(v float64) float64 { return st.High + st.Low - v }), nil
}

func asGrid(d job.Data) (*Grid, error) {
	g, ok := d.(*Grid)
	if !ok || !g.Valid() {
		return nil, fmt.Errorf("modifier needs a valid grid, got %T", d)
	}
	return g, nil
}
