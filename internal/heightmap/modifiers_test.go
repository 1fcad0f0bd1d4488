package heightmap

import (
	"reflect"
	"testing"

	"heightmap-converter/internal/job"
)

func sampleGrid() *Grid {
	g := NewGrid(2, 2, 1)
	g.HasNoData = true
	g.NoData = -1
	g.Values = []float64{0, 10, -1, 4}
	return g
}

func applyGrid(t *testing.T, m job.Modifier, g *Grid) []float64 {
	t.Helper()
	out, err := m.Apply(g)
	if err != nil {
		t.Fatalf("%s: %v", m.Name(), err)
	}
	return out.(*Grid).Values
}

func TestModifiersSkipNoData(t *testing.T) {
	cases := []struct {
		mod  job.Modifier
		want []float64
	}{
		{Offset{Amount: 5}, []float64{5, 15, -1, 9}},
		{Scale{Factor: 2}, []float64{0, 20, -1, 8}},
		{Clamp{Min: 1, Max: 5}, []float64{1, 5, -1, 4}},
		{Invert{}, []float64{10, 0, -1, 6}},
	}
	for _, tc := range cases {
		g := sampleGrid()
		got := applyGrid(t, tc.mod, g)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.mod.Name(), tc.want, got)
		}
		if !reflect.DeepEqual(g.Values, []float64{0, 10, -1, 4}) {
			t.Fatalf("%s mutated its input", tc.mod.Name())
		}
	}
}

func TestModifierNames(t *testing.T) {
	if got := (Offset{Amount: -2.5}).Name(); got != "offset(-2.5)" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := (Clamp{Min: 0, Max: 100}).Name(); got != "clamp(0..100)" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestNewClampRejectsInvertedBounds(t *testing.T) {
	if _, err := NewClamp(5, 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestModifierRejectsForeignData(t *testing.T) {
	if _, err := (Scale{Factor: 2}).Apply(nil); err == nil {
		t.Fatalf("expected error for nil data")
	}
}
