/*
Copyright © 2025 the ClimTab authors.
This file is part of ClimTab.

ClimTab is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ClimTab is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ClimTab.  If not, see <http://www.gnu.org/licenses/>.
*/

package climtab

import (
	"fmt"
	"io"
	"math"

	"github.com/ctessum/sparse"
)

// Aggregation specifies how the daily values within each year are
// reduced to table columns.
type Aggregation int

const (
	// AggregationMean averages the valid daily values in each cell.
	AggregationMean Aggregation = iota

	// AggregationMax keeps the largest valid daily value in each cell.
	AggregationMax

	// AggregationMin keeps the smallest valid daily value in each cell.
	AggregationMin

	// AggregationAll performs no reduction; every day becomes its own
	// column.
	AggregationAll
)

// ParseAggregation converts the name of an aggregation mode to its
// Aggregation value.
func ParseAggregation(s string) (Aggregation, error) {
	switch s {
	case "mean":
		return AggregationMean, nil
	case "max":
		return AggregationMax, nil
	case "min":
		return AggregationMin, nil
	case "all":
		return AggregationAll, nil
	default:
		return 0, fmt.Errorf("climtab: invalid aggregation %q; valid modes are mean, max, min, and all", s)
	}
}

func (a Aggregation) String() string {
	switch a {
	case AggregationMean:
		return "mean"
	case AggregationMax:
		return "max"
	case AggregationMin:
		return "min"
	case AggregationAll:
		return "all"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

// Aggregate reduces the series year by year according to mode and
// assembles the result into a Table. Reduction modes produce one column
// per year, named {variable}_{year}; AggregationAll produces one column
// per day, named {variable}_{year}_{day} with 1-based days. During a
// reduction only the accumulator and the current day slab are resident.
func Aggregate(s *Series, mode Aggregation) (*Table, error) {
	t := &Table{Grid: s.Grid}
	for i, fd := range s.Manifest.Files {
		next := s.yearData(i)
		switch mode {
		case AggregationMean, AggregationMax, AggregationMin:
			data, err := reduceYear(next, mode)
			if err != nil {
				return nil, err
			}
			t.Cols = append(t.Cols, &Column{
				Name: fmt.Sprintf("%s_%d", s.Variable, fd.Year),
				Data: data,
			})
		case AggregationAll:
			var day int
			for {
				data, err := next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, err
				}
				day++
				t.Cols = append(t.Cols, &Column{
					Name: fmt.Sprintf("%s_%d_%d", s.Variable, fd.Year, day),
					Data: data,
				})
			}
		default:
			return nil, fmt.Errorf("climtab: unknown aggregation mode %v", mode)
		}
	}
	return t, nil
}

// reduceYear folds one year of day slabs into a single array according
// to mode. Missing (NaN) values are excluded from the reduction; cells
// with no valid days at all yield NaN.
func reduceYear(next NextData, mode Aggregation) (*sparse.DenseArray, error) {
	var acc *sparse.DenseArray
	var count []int
	for {
		data, err := next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if acc == nil {
			acc = sparse.ZerosDense(data.Shape...)
			count = make([]int, len(acc.Elements))
		}
		for i, v := range data.Elements {
			if math.IsNaN(v) {
				continue
			}
			switch mode {
			case AggregationMean:
				acc.Elements[i] += v
			case AggregationMax:
				if count[i] == 0 || v > acc.Elements[i] {
					acc.Elements[i] = v
				}
			case AggregationMin:
				if count[i] == 0 || v < acc.Elements[i] {
					acc.Elements[i] = v
				}
			}
			count[i]++
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("climtab: reducing year: no day slabs")
	}
	for i, n := range count {
		if n == 0 {
			acc.Elements[i] = math.NaN()
		} else if mode == AggregationMean {
			acc.Elements[i] /= float64(n)
		}
	}
	return acc, nil
}
