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
)

// A Result summarizes a completed merge run.
type Result struct {
	// Path is where the workbook was written.
	Path string

	// Years lists the years that were merged, ascending.
	Years []int

	// Rows is the number of data rows written; Cols is the number of
	// columns, including the two coordinate columns.
	Rows, Cols int

	// Warnings holds the non-fatal problems encountered during the run.
	Warnings []string
}

// Merge runs the full pipeline for one model/scenario/variable
// selector: locate the annual files, validate that they share a grid,
// aggregate the daily series according to mode, and write the result
// to a workbook in outDir. If years is non-empty, only the listed years
// are merged. The written workbook is verified by reading it back
// before Merge returns. Any error aborts the run before the output
// file is created, so a failed run leaves no partial output. Progress
// messages are sent to msgChan if it is not nil.
func Merge(l *Layout, outDir, model, scenario, variable string, years []int, mode Aggregation, msgChan chan string) (*Result, error) {
	m, err := Locate(l, model, scenario, variable)
	if err != nil {
		return nil, err
	}
	m, err = m.FilterYears(years)
	if err != nil {
		return nil, err
	}
	if msgChan != nil {
		msgChan <- fmt.Sprintf("Found %d files for %s %s %s", len(m.Files), model, scenario, variable)
	}
	grid, err := ValidateGrids(m)
	if err != nil {
		return nil, err
	}
	if msgChan != nil {
		latMin, latMax, lonMin, lonMax := grid.Extent()
		msgChan <- fmt.Sprintf("Validated grid: %d coordinate pairs; lat %g to %g, lon %g to %g",
			grid.Cells(), latMin, latMax, lonMin, lonMax)
	}
	s, err := NewSeries(m, grid, variable, msgChan)
	if err != nil {
		return nil, err
	}
	t, err := Aggregate(s, mode)
	if err != nil {
		return nil, err
	}
	path := OutputFile(outDir, model, scenario, variable)
	if err := WriteXLSX(t, path); err != nil {
		return nil, err
	}
	if err := VerifyXLSX(path, t.NRows()); err != nil {
		return nil, err
	}
	if msgChan != nil {
		msgChan <- fmt.Sprintf("Wrote %s", path)
	}
	return &Result{
		Path:     path,
		Years:    m.Years(),
		Rows:     t.NRows(),
		Cols:     len(t.Header()),
		Warnings: m.Warnings,
	}, nil
}

// An ArchiveInfo summarizes the files available for one selector.
type ArchiveInfo struct {
	// Dir is the directory that was scanned.
	Dir string

	// Count is the number of usable annual files found.
	Count int

	// Years lists the years covered, ascending.
	Years []int

	// Warnings holds the non-fatal problems encountered while
	// scanning.
	Warnings []string
}

// FileInfo scans the archive for the given selector and reports what it
// holds. Only file names are examined; no data is read.
func FileInfo(l *Layout, model, scenario, variable string) (*ArchiveInfo, error) {
	m, err := Locate(l, model, scenario, variable)
	if err != nil {
		return nil, err
	}
	return &ArchiveInfo{
		Dir:      l.Dir(model, scenario, variable),
		Count:    len(m.Files),
		Years:    m.Years(),
		Warnings: m.Warnings,
	}, nil
}

// A PathStatus reports whether the configured input and output
// locations exist.
type PathStatus struct {
	InputDir  string
	InputOK   bool
	OutputDir string
	OutputOK  bool
}

// CheckPaths reports whether the input root and the output directory
// exist. A missing output directory is not unusual, since it is created
// at merge time; how to treat a missing input root is the caller's
// decision.
func CheckPaths(l *Layout, outDir string) *PathStatus {
	ps := &PathStatus{InputDir: l.Root, OutputDir: outDir}
	if fi, err := os.Stat(l.Root); err == nil && fi.IsDir() {
		ps.InputOK = true
	}
	if fi, err := os.Stat(outDir); err == nil && fi.IsDir() {
		ps.OutputOK = true
	}
	return ps
}
