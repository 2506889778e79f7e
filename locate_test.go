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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLayoutDir(t *testing.T) {
	l := NewLayout("/data")
	have := l.Dir("ACCESS CM2", "SSP585", "tasmax")
	want := filepath.Join("/data", "ACCESS CM2 SSP585", "CMIP6 Files_tasmax")
	if have != want {
		t.Errorf("dir: want %s but have %s", want, have)
	}
}

func TestOutputFile(t *testing.T) {
	have := OutputFile("/out", "ACCESS CM2", "SSP585", "tasmax")
	want := filepath.Join("/out", "ACCESS_CM2_SSP585_tasmax.xlsx")
	if have != want {
		t.Errorf("output file: want %s but have %s", want, have)
	}
}

func TestLocate(t *testing.T) {
	l := newTestArchive(t, "ACCESS CM2", "SSP585", "tasmax")
	dir := l.Dir("ACCESS CM2", "SSP585", "tasmax")
	// Written out of order; the manifest must come back sorted by year.
	for _, name := range []string{
		"tasmax_day_2036_v2.nc",
		"tasmax_day_2035_v2.nc",
		"tasmax_daily_readme.nc", // no year in the name
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	m, err := Locate(l, "ACCESS CM2", "SSP585", "tasmax")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2035, 2036}; !reflect.DeepEqual(m.Years(), want) {
		t.Errorf("years: want %v but have %v", want, m.Years())
	}
	if len(m.Warnings) != 1 {
		t.Fatalf("want 1 warning but have %d: %v", len(m.Warnings), m.Warnings)
	}
	if !strings.Contains(m.Warnings[0], "tasmax_daily_readme.nc") {
		t.Errorf("warning %q doesn't name the skipped file", m.Warnings[0])
	}
	for _, f := range m.Files {
		if f.Model != "ACCESS CM2" || f.Scenario != "SSP585" || f.Variable != "tasmax" {
			t.Errorf("file descriptor %+v has wrong selector", f)
		}
	}
}

func TestLocateDuplicateYear(t *testing.T) {
	l := newTestArchive(t, "ACCESS CM2", "SSP585", "tasmax")
	dir := l.Dir("ACCESS CM2", "SSP585", "tasmax")
	for _, name := range []string{"a_2035_v1.nc", "b_2035_v2.nc"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	m, err := Locate(l, "ACCESS CM2", "SSP585", "tasmax")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Files) != 1 {
		t.Fatalf("want 1 file but have %d", len(m.Files))
	}
	// Scan order is lexical, so the first file wins.
	if base := filepath.Base(m.Files[0].Path); base != "a_2035_v1.nc" {
		t.Errorf("kept %s; want a_2035_v1.nc", base)
	}
	if len(m.Warnings) != 1 || !strings.Contains(m.Warnings[0], "b_2035_v2.nc") {
		t.Errorf("want a warning naming b_2035_v2.nc but have %v", m.Warnings)
	}
}

func TestLocateNoFiles(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		l := NewLayout(t.TempDir())
		_, err := Locate(l, "ACCESS CM2", "SSP585", "tasmax")
		if err == nil {
			t.Fatal("want an error for a missing directory")
		}
		if !strings.Contains(err.Error(), l.Dir("ACCESS CM2", "SSP585", "tasmax")) {
			t.Errorf("error %q doesn't name the searched directory", err)
		}
	})
	t.Run("empty directory", func(t *testing.T) {
		l := newTestArchive(t, "ACCESS CM2", "SSP585", "tasmax")
		_, err := Locate(l, "ACCESS CM2", "SSP585", "tasmax")
		if err == nil {
			t.Fatal("want an error for an empty directory")
		}
		if !strings.Contains(err.Error(), "no files found") {
			t.Errorf("unexpected error %q", err)
		}
	})
}

func TestFilterYears(t *testing.T) {
	m := &Manifest{Files: []*FileDesc{
		{Path: "a_2035_v2.nc", Year: 2035},
		{Path: "a_2036_v2.nc", Year: 2036},
		{Path: "a_2037_v2.nc", Year: 2037},
	}}
	t.Run("empty filter keeps everything", func(t *testing.T) {
		got, err := m.FilterYears(nil)
		if err != nil {
			t.Fatal(err)
		}
		if want := []int{2035, 2036, 2037}; !reflect.DeepEqual(got.Years(), want) {
			t.Errorf("want years %v but have %v", want, got.Years())
		}
	})
	t.Run("subset", func(t *testing.T) {
		got, err := m.FilterYears([]int{2037, 2035})
		if err != nil {
			t.Fatal(err)
		}
		if want := []int{2035, 2037}; !reflect.DeepEqual(got.Years(), want) {
			t.Errorf("want years %v but have %v", want, got.Years())
		}
		if len(got.Warnings) != 0 {
			t.Errorf("unexpected warnings %v", got.Warnings)
		}
	})
	t.Run("missing year warns", func(t *testing.T) {
		got, err := m.FilterYears([]int{2036, 2099})
		if err != nil {
			t.Fatal(err)
		}
		if want := []int{2036}; !reflect.DeepEqual(got.Years(), want) {
			t.Errorf("want years %v but have %v", want, got.Years())
		}
		if len(got.Warnings) != 1 || !strings.Contains(got.Warnings[0], "2099") {
			t.Errorf("want a warning naming 2099; have %v", got.Warnings)
		}
	})
	t.Run("no overlap is an error", func(t *testing.T) {
		if _, err := m.FilterYears([]int{2000}); err == nil {
			t.Fatal("want an error when no requested year is present")
		}
	})
}
