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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// timeDim is the name of the temporal dimension in the input files.
// The data variable must be laid out as (time, lat, lon).
const timeDim = "time"

// NextData is a type of function that returns the data slab for the next
// day. If there are no more days, it should return the io.EOF error.
type NextData func() (*sparse.DenseArray, error)

// A Series is a handle on the multi-year daily record of one variable,
// concatenated from the manifest files in ascending year order. Data are
// read lazily, one day slab at a time; the full record is never resident
// in memory.
type Series struct {
	Manifest *Manifest
	Grid     *Grid
	Variable string

	// days holds the time dimension length of each manifest file,
	// read from the file headers.
	days []int

	msgChan chan string
}

// NewSeries opens the header of every file in the manifest and checks
// that variable is present with dimensions (time, lat, lon) matching
// grid g. No payload data is read. Progress messages are sent to
// msgChan if it is not nil.
func NewSeries(m *Manifest, g *Grid, variable string, msgChan chan string) (*Series, error) {
	s := &Series{
		Manifest: m,
		Grid:     g,
		Variable: variable,
		days:     make([]int, len(m.Files)),
		msgChan:  msgChan,
	}
	for i, fd := range m.Files {
		ndays, err := checkSeriesFile(fd.Path, variable, g)
		if err != nil {
			return nil, err
		}
		s.days[i] = ndays
	}
	return s, nil
}

// checkSeriesFile validates the header of the file at path against the
// expected variable layout and returns the file's day count.
func checkSeriesFile(path, variable string, g *Grid) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("climtab: reading %s: %v", path, err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return 0, fmt.Errorf("climtab: reading %s: %v", path, err)
	}
	dims := ff.Header.Lengths(variable)
	if len(dims) == 0 {
		return 0, fmt.Errorf("climtab: %s: variable %s not in file", path, variable)
	}
	names := ff.Header.Dimensions(variable)
	want := []string{timeDim, latVar, lonVar}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] || names[2] != want[2] {
		return 0, fmt.Errorf("climtab: %s: variable %s has dimensions %v; want %v",
			path, variable, names, want)
	}
	if dims[1] != len(g.Lat) || dims[2] != len(g.Lon) {
		return 0, fmt.Errorf("climtab: %s: variable %s has spatial shape %dx%d; grid is %dx%d",
			path, variable, dims[1], dims[2], len(g.Lat), len(g.Lon))
	}
	ndays := dims[0]
	if ndays == 0 && ff.Header.IsRecordVariable(variable) {
		// The time dimension is the record dimension; recover its
		// length from the file size.
		fi, err := f.Stat()
		if err != nil {
			return 0, fmt.Errorf("climtab: reading %s: %v", path, err)
		}
		ndays = int(ff.Header.NumRecs(fi.Size()))
	}
	if ndays <= 0 {
		return 0, fmt.Errorf("climtab: %s: variable %s has no time steps", path, variable)
	}
	return ndays, nil
}

// Days returns the total number of day slabs across all files in the
// series.
func (s *Series) Days() int {
	n := 0
	for _, d := range s.days {
		n += d
	}
	return n
}

// yearData returns an iterator over the day slabs of the i'th manifest
// file, in temporal order. The file stays open between calls and is
// closed when the iterator is exhausted or fails. Fill values are
// converted to NaN.
func (s *Series) yearData(i int) NextData {
	fd := s.Manifest.Files[i]
	ndays := s.days[i]
	var f *os.File
	var ff *cdf.File
	var fill float64
	var hasFill bool
	var day int
	fail := func(err error) (*sparse.DenseArray, error) {
		if f != nil {
			f.Close()
			f = nil
		}
		day = ndays
		return nil, err
	}
	return func() (*sparse.DenseArray, error) {
		if day >= ndays {
			return nil, io.EOF
		}
		if f == nil {
			var err error
			f, err = os.Open(fd.Path)
			if err != nil {
				return fail(fmt.Errorf("climtab: reading %s: %v", fd.Path, err))
			}
			ff, err = cdf.Open(f)
			if err != nil {
				return fail(fmt.Errorf("climtab: reading %s: %v", fd.Path, err))
			}
			fill, hasFill = fillAsFloat(ff.Header.FillValue(s.Variable))
		}
		data, err := readDayNCF(s.Variable, ff, day)
		if err != nil {
			return fail(fmt.Errorf("climtab: reading %s: %v", fd.Path, err))
		}
		if hasFill {
			for j, v := range data.Elements {
				if v == fill {
					data.Elements[j] = math.NaN()
				}
			}
		}
		day++
		if day == ndays {
			f.Close()
			f = nil
			if s.msgChan != nil {
				s.msgChan <- fmt.Sprintf("Read %d day slabs of %s from %s", day, s.Variable, fd.Path)
			}
		}
		return data, nil
	}
}

// readDayNCF reads the (lat, lon) slab for the zero-based day of
// variable v out of netcdf file ff.
func readDayNCF(v string, ff *cdf.File, day int) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("read netcdf: variable %v not in file", v)
	}
	dims = dims[1:]
	nread := 1
	for _, dim := range dims {
		nread *= dim
	}
	start, end := make([]int, len(dims)+1), make([]int, len(dims)+1)
	start[0], end[0] = day, day+1
	r := ff.Reader(v, start, end)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("read netcdf variable %s: %v", v, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("variable %s has type %T; want float or double", v, buf)
	}
	return data, nil
}

// fillAsFloat converts the fill value reported for a variable to
// float64. The second return is false if the variable has no numeric
// fill value.
func fillAsFloat(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}
