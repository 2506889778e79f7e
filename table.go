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

import "github.com/ctessum/sparse"

// A Column is one value column of an output table: a named (lat, lon)
// array.
type Column struct {
	Name string
	Data *sparse.DenseArray
}

// A Table is the tabular form of an aggregated series: one row per
// coordinate pair and one value column per aggregate. It is a reshape
// of the gridded data; no aggregation happens here.
type Table struct {
	Grid *Grid
	Cols []*Column
}

// Header returns the column names, beginning with the coordinate
// columns.
func (t *Table) Header() []string {
	h := make([]string, 0, len(t.Cols)+2)
	h = append(h, "lat", "lon")
	for _, c := range t.Cols {
		h = append(h, c.Name)
	}
	return h
}

// NRows returns the number of data rows, one per grid cell.
func (t *Table) NRows() int {
	return t.Grid.Cells()
}

// Row returns data row i. Rows traverse the grid latitude-major:
// row i holds lat = Lat[i/len(Lon)] and lon = Lon[i%len(Lon)], followed
// by one value per column. The ordering is deterministic, so tables
// built on the same grid align row for row.
func (t *Table) Row(i int) []float64 {
	nlon := len(t.Grid.Lon)
	row := make([]float64, 0, len(t.Cols)+2)
	row = append(row, t.Grid.Lat[i/nlon], t.Grid.Lon[i%nlon])
	for _, c := range t.Cols {
		row = append(row, c.Data.Elements[i])
	}
	return row
}
