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
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// yearRE extracts the four-digit year embedded in projection file names
// (for example tasmax_day_ACCESS-CM2_ssp585_2035_v2.nc).
var yearRE = regexp.MustCompile(`_(\d{4})_`)

// Layout describes how a projection archive is laid out on disk. All
// input path resolution goes through it.
type Layout struct {
	// Root is the base directory that holds one subdirectory per
	// model/scenario combination.
	Root string

	// FolderPrefix is the prefix of the per-variable directory name
	// within a model/scenario directory. The default is "CMIP6 Files".
	FolderPrefix string

	// Pattern is the glob pattern that data files must match.
	// The default is "*.nc".
	Pattern string
}

// NewLayout returns a Layout rooted at root with the default
// folder prefix and file pattern.
func NewLayout(root string) *Layout {
	return &Layout{
		Root:         root,
		FolderPrefix: "CMIP6 Files",
		Pattern:      "*.nc",
	}
}

// Dir returns the directory that holds the daily files for the given
// model, scenario, and variable:
// {Root}/{model} {scenario}/{FolderPrefix}_{variable}.
func (l *Layout) Dir(model, scenario, variable string) string {
	return filepath.Join(l.Root, model+" "+scenario, l.FolderPrefix+"_"+variable)
}

// OutputFile returns the path of the workbook written for the given
// selector within dir. Spaces in the model and scenario names are
// replaced with underscores.
func OutputFile(dir, model, scenario, variable string) string {
	name := fmt.Sprintf("%s_%s_%s.xlsx",
		strings.ReplaceAll(model, " ", "_"),
		strings.ReplaceAll(scenario, " ", "_"),
		variable)
	return filepath.Join(dir, name)
}

// A FileDesc describes one annual data file within a projection archive.
type FileDesc struct {
	// Path is the location of the file on disk.
	Path string

	// Year is the calendar year covered by the file, parsed from the
	// file name.
	Year int

	Model, Scenario, Variable string
}

// A Manifest is the ordered set of annual files that make up one
// model/scenario/variable series, sorted by ascending year.
type Manifest struct {
	Files []*FileDesc

	// Warnings holds non-fatal problems encountered while scanning,
	// such as files without a recognizable year in their name.
	Warnings []string
}

// Years returns the ascending list of years covered by the manifest.
func (m *Manifest) Years() []int {
	years := make([]int, len(m.Files))
	for i, f := range m.Files {
		years[i] = f.Year
	}
	return years
}

// FilterYears returns a manifest restricted to the given years. An
// empty filter returns m unchanged. Requested years that the manifest
// does not cover are recorded as warnings; it is an error if no
// requested year is covered at all.
func (m *Manifest) FilterYears(years []int) (*Manifest, error) {
	if len(years) == 0 {
		return m, nil
	}
	want := make(map[int]bool)
	for _, y := range years {
		want[y] = true
	}
	out := &Manifest{Warnings: append([]string{}, m.Warnings...)}
	for _, f := range m.Files {
		if want[f.Year] {
			out.Files = append(out.Files, f)
			delete(want, f.Year)
		}
	}
	if len(out.Files) == 0 {
		return nil, fmt.Errorf("climtab: none of the requested years %v are present in the archive", years)
	}
	for _, y := range years {
		if want[y] {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("requested year %d has no file; ignoring it", y))
		}
	}
	return out, nil
}

// Locate scans the directory given by l.Dir(model, scenario, variable)
// for annual data files and assembles them into a Manifest. Files whose
// names do not contain a _YYYY_ year are skipped with a warning, as are
// files that repeat a year already seen (the first file in scan order
// wins). A missing directory or a scan that yields no usable files is
// an error.
func Locate(l *Layout, model, scenario, variable string) (*Manifest, error) {
	dir := l.Dir(model, scenario, variable)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("climtab: no files found for %s %s %s: directory %s: %v",
			model, scenario, variable, dir, err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, l.Pattern))
	if err != nil {
		return nil, fmt.Errorf("climtab: scanning %s: %v", dir, err)
	}
	m := new(Manifest)
	seen := make(map[int]string)
	for _, p := range paths {
		match := yearRE.FindStringSubmatch(filepath.Base(p))
		if match == nil {
			m.Warnings = append(m.Warnings,
				fmt.Sprintf("skipping %s: file name has no _YYYY_ year", p))
			continue
		}
		year, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("climtab: parsing year in %s: %v", p, err)
		}
		if first, ok := seen[year]; ok {
			m.Warnings = append(m.Warnings,
				fmt.Sprintf("duplicate year %d: keeping %s, skipping %s", year, first, p))
			continue
		}
		seen[year] = p
		m.Files = append(m.Files, &FileDesc{
			Path:     p,
			Year:     year,
			Model:    model,
			Scenario: scenario,
			Variable: variable,
		})
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("climtab: no files found for %s %s %s in %s",
			model, scenario, variable, dir)
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Year < m.Files[j].Year })
	return m, nil
}
