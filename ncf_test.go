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
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// testFillValue is the _FillValue attribute attached to the variable in
// the fixture files.
const testFillValue = -9999.0

// testGrid returns the small grid used by most tests.
func testGrid() (lat, lon []float64) {
	return []float64{10, 10.25}, []float64{30, 30.25}
}

// writeTestNCF writes a NetCDF file to path holding variable v laid out
// as (time, lat, lon) together with float64 coordinate variables. data
// must have shape (ndays, len(lat), len(lon)); it is stored as float32
// with a _FillValue attribute of testFillValue.
func writeTestNCF(t *testing.T, path, v string, lat, lon []float64, data *sparse.DenseArray) {
	t.Helper()
	h := cdf.NewHeader(
		[]string{"time", "lat", "lon"},
		[]int{data.Shape[0], len(lat), len(lon)})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddVariable(v, []string{"time", "lat", "lon"}, []float32{0})
	h.AddAttribute(v, "_FillValue", []float32{testFillValue})
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ff, err := cdf.Create(f, h) // writes the header to f
	if err != nil {
		t.Fatal(err)
	}
	writeTestVar(t, ff, "lat", lat)
	writeTestVar(t, ff, "lon", lon)
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	writeTestVar(t, ff, v, data32)
}

// writeTestNCF32 is like writeTestNCF but stores the coordinate
// variables as float32.
func writeTestNCF32(t *testing.T, path, v string, lat, lon []float64, data *sparse.DenseArray) {
	t.Helper()
	lat32 := make([]float32, len(lat))
	for i, c := range lat {
		lat32[i] = float32(c)
	}
	lon32 := make([]float32, len(lon))
	for i, c := range lon {
		lon32[i] = float32(c)
	}
	h := cdf.NewHeader(
		[]string{"time", "lat", "lon"},
		[]int{data.Shape[0], len(lat), len(lon)})
	h.AddVariable("lat", []string{"lat"}, []float32{0})
	h.AddVariable("lon", []string{"lon"}, []float32{0})
	h.AddVariable(v, []string{"time", "lat", "lon"}, []float32{0})
	h.AddAttribute(v, "_FillValue", []float32{testFillValue})
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ff, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	writeTestVar(t, ff, "lat", lat32)
	writeTestVar(t, ff, "lon", lon32)
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	writeTestVar(t, ff, v, data32)
}

// writeTestVar writes buf as the whole of variable v in netcdf file ff.
func writeTestVar(t *testing.T, ff *cdf.File, v string, buf interface{}) {
	t.Helper()
	end := ff.Header.Lengths(v)
	start := make([]int, len(end))
	w := ff.Writer(v, start, end)
	if _, err := w.Write(buf); err != nil {
		t.Fatal(err)
	}
}

// constantYear returns a (ndays, len(lat), len(lon)) array where every
// element holds value.
func constantYear(lat, lon []float64, ndays int, value float64) *sparse.DenseArray {
	data := sparse.ZerosDense(ndays, len(lat), len(lon))
	for i := range data.Elements {
		data.Elements[i] = value
	}
	return data
}

// newTestArchive creates a Layout rooted in a temporary directory with
// the directory for the given selector already present.
func newTestArchive(t *testing.T, model, scenario, variable string) *Layout {
	t.Helper()
	l := NewLayout(t.TempDir())
	if err := os.MkdirAll(l.Dir(model, scenario, variable), 0755); err != nil {
		t.Fatal(err)
	}
	return l
}

// archiveFile returns the path within the archive for an annual file
// named so that the year is parseable.
func archiveFile(l *Layout, model, scenario, variable string, year int) string {
	return filepath.Join(l.Dir(model, scenario, variable),
		fmt.Sprintf("%s_day_%d_v2.nc", variable, year))
}
