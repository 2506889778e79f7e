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
	"math"
	"os"

	"github.com/ctessum/cdf"
	"gonum.org/v1/gonum/floats"
)

// gridTolerance is the maximum absolute difference, in degrees, between
// corresponding coordinate values of two files that still counts as the
// same grid.
const gridTolerance = 1.0e-4

// Names of the coordinate variables in the input files.
const (
	latVar = "lat"
	lonVar = "lon"
)

// A Grid holds the spatial coordinate axes shared by all files in a
// series. Data arrays are stored latitude-major.
type Grid struct {
	Lat, Lon []float64
}

// Cells returns the number of coordinate pairs in the grid.
func (g *Grid) Cells() int {
	return len(g.Lat) * len(g.Lon)
}

// Extent returns the bounds of the grid axes in degrees.
func (g *Grid) Extent() (latMin, latMax, lonMin, lonMax float64) {
	return floats.Min(g.Lat), floats.Max(g.Lat), floats.Min(g.Lon), floats.Max(g.Lon)
}

// readGrid reads the coordinate axes from the NetCDF file at path.
func readGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("climtab: reading grid: %v", err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("climtab: reading grid from %s: %v", path, err)
	}
	lat, err := coordFromNCF(latVar, ff)
	if err != nil {
		return nil, fmt.Errorf("climtab: reading grid from %s: %v", path, err)
	}
	lon, err := coordFromNCF(lonVar, ff)
	if err != nil {
		return nil, fmt.Errorf("climtab: reading grid from %s: %v", path, err)
	}
	return &Grid{Lat: lat, Lon: lon}, nil
}

// coordFromNCF reads the one-dimensional coordinate variable v out of
// netcdf file ff, accepting either float or double storage.
func coordFromNCF(v string, ff *cdf.File) ([]float64, error) {
	dims := ff.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("coordinate variable %v not in file", v)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("coordinate variable %v has %d dimensions; want 1", v, len(dims))
	}
	r := ff.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("read netcdf variable %s: %v", v, err)
	}
	out := make([]float64, dims[0])
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			out[i] = float64(val)
		}
	case []float64:
		copy(out, b)
	default:
		return nil, fmt.Errorf("coordinate variable %s has type %T; want float or double", v, buf)
	}
	return out, nil
}

// ValidateGrids reads the coordinate axes of every file in the manifest
// and checks that they all describe the same grid, within gridTolerance.
// It returns the shared grid. Only headers and coordinate vectors are
// read; no payload data is touched.
func ValidateGrids(m *Manifest) (*Grid, error) {
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("climtab: validating grids: empty manifest")
	}
	grid, err := readGrid(m.Files[0].Path)
	if err != nil {
		return nil, err
	}
	for _, fd := range m.Files[1:] {
		g, err := readGrid(fd.Path)
		if err != nil {
			return nil, err
		}
		if err := compareAxis(latVar, grid.Lat, g.Lat, fd.Path); err != nil {
			return nil, err
		}
		if err := compareAxis(lonVar, grid.Lon, g.Lon, fd.Path); err != nil {
			return nil, err
		}
	}
	return grid, nil
}

// compareAxis checks coordinate axis have from the file at path against
// the reference axis want.
func compareAxis(axis string, want, have []float64, path string) error {
	if len(have) != len(want) {
		return fmt.Errorf("climtab: grid mismatch in %s: %s has %d values; want %d",
			path, axis, len(have), len(want))
	}
	for i, w := range want {
		if d := math.Abs(have[i] - w); d > gridTolerance {
			return fmt.Errorf("climtab: grid mismatch in %s: %s[%d] = %g differs from %g by %g",
				path, axis, i, have[i], w, d)
		}
	}
	return nil
}
