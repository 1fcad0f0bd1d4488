package job

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// EqualizeExtension is the only file type that reports data info cheaply.
const EqualizeExtension = ".asc"

var ErrNoEligibleFiles = errors.New("no eligible files to equalize")

type EqualizeResult struct {
	Low      float64
	High     float64
	Average  float64
	Eligible int
}

// Equalize aggregates the value range over every eligible path: the lowest low,
// the highest high and the mean of the per-file averages. Ineligible files and
// files whose info cannot be read go to onError and are excluded.
func Equalize(paths []string, info func(string) (DataInfo, error), progress func(i, total int), onError func(path string, err error)) (EqualizeResult, error) {
	res := EqualizeResult{
		Low:  math.MaxFloat64,
		High: -math.MaxFloat64,
	}
	sum := 0.0
	for _, path := range paths {
		if !strings.EqualFold(filepath.Ext(path), EqualizeExtension) {
			if onError != nil {
				onError(path, fmt.Errorf("%s is not a %s file", path, strings.ToUpper(strings.TrimPrefix(EqualizeExtension, "."))))
			}
			continue
		}
		di, err := info(path)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			continue
		}
		res.Eligible++
		if progress != nil {
			progress(res.Eligible, len(paths))
		}
		res.Low = math.Min(res.Low, di.Low)
		res.High = math.Max(res.High, di.High)
		sum += di.Average
	}
	if res.Eligible == 0 {
		return EqualizeResult{}, ErrNoEligibleFiles
	}
	res.Average = sum / float64(res.Eligible)
	return res, nil
}
