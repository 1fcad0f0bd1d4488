package heightmap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxCells bounds the grid size a header may declare.
const MaxCells = 1 << 26

// initialCap is the most ReadASC reserves before values are actually read.
const initialCap = 1 << 16

// ReadASC parses an ESRI ASCII grid.
func ReadASC(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	g := &Grid{}
	header := map[string]string{}
	var pending string
	for sc.Scan() {
		tok := sc.Text()
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			pending = tok
			break
		}
		key := strings.ToLower(tok)
		if !sc.Scan() {
			return nil, fmt.Errorf("asc header %q has no value", tok)
		}
		header[key] = sc.Text()
	}

	var err error
	if g.Cols, err = headerInt(header, "ncols"); err != nil {
		return nil, err
	}
	if g.Rows, err = headerInt(header, "nrows"); err != nil {
		return nil, err
	}
	if g.CellSize, err = headerFloat(header, "cellsize"); err != nil {
		return nil, err
	}
	centered := false
	if _, ok := header["xllcenter"]; ok {
		centered = true
		header["xllcorner"] = header["xllcenter"]
		header["yllcorner"] = header["yllcenter"]
	}
	if g.XLL, err = headerFloat(header, "xllcorner"); err != nil {
		return nil, err
	}
	if g.YLL, err = headerFloat(header, "yllcorner"); err != nil {
		return nil, err
	}
	if centered {
		g.XLL -= g.CellSize / 2
		g.YLL -= g.CellSize / 2
	}
	if raw, ok := header["nodata_value"]; ok {
		if g.NoData, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("asc header nodata_value: %w", err)
		}
		g.HasNoData = true
	}
	if g.Cols <= 0 || g.Rows <= 0 {
		return nil, fmt.Errorf("asc grid size %dx%d is empty", g.Cols, g.Rows)
	}

	if g.Cols > MaxCells/g.Rows {
		return nil, fmt.Errorf("asc grid size %dx%d exceeds %d cells", g.Cols, g.Rows, MaxCells)
	}
	want := g.Cols * g.Rows
	g.Values = make([]float64, 0, min(want, initialCap))
	if pending != "" {
		v, _ := strconv.ParseFloat(pending, 64)
		g.Values = append(g.Values, v)
	}
	for len(g.Values) < want && sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("asc value %d: %w", len(g.Values)+1, err)
		}
		g.Values = append(g.Values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read asc: %w", err)
	}
	if len(g.Values) != want {
		return nil, fmt.Errorf("asc grid has %d values, want %d", len(g.Values), want)
	}
	return g, nil
}

// WriteASC writes g as an ESRI ASCII grid with corner registration.
func WriteASC(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", g.Cols)
	fmt.Fprintf(bw, "nrows %d\n", g.Rows)
	fmt.Fprintf(bw, "xllcorner %s\n", formatValue(g.XLL))
	fmt.Fprintf(bw, "yllcorner %s\n", formatValue(g.YLL))
	fmt.Fprintf(bw, "cellsize %s\n", formatValue(g.CellSize))
	if g.HasNoData {
		fmt.Fprintf(bw, "NODATA_value %s\n", formatValue(g.NoData))
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatValue(g.At(col, row)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func headerInt(h map[string]string, key string) (int, error) {
	raw, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("asc header %s missing", key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("asc header %s: %w", key, err)
	}
	return v, nil
}

func headerFloat(h map[string]string, key string) (float64, error) {
	raw, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("asc header %s missing", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("asc header %s: %w", key, err)
	}
	return v, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
