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
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet in every workbook
// written by this package.
const SheetName = "Data"

// Hard limits of the xlsx file format.
const (
	maxSheetRows = 1048576
	maxSheetCols = 16384
)

// WriteXLSX writes table t to a workbook at path, streaming rows so the
// whole sheet is never held in memory. The workbook holds the single
// sheet SheetName with the table header in its first row. Before
// anything is created the table size is checked against the xlsx format
// limits; a table that does not fit is an error and no file is written.
// The directory containing path must already exist. An existing file at
// path is overwritten.
func WriteXLSX(t *Table, path string) error {
	nrows := t.NRows() + 1 // including the header row
	if nrows > maxSheetRows {
		return fmt.Errorf("climtab: writing %s: table needs %d rows including the header; the xlsx sheet limit is %d",
			path, nrows, maxSheetRows)
	}
	header := t.Header()
	if len(header) > maxSheetCols {
		return fmt.Errorf("climtab: writing %s: table needs %d columns; the xlsx sheet limit is %d",
			path, len(header), maxSheetCols)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("climtab: writing %s: %v", path, err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("climtab: writing %s: %v", path, err)
	}
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := writeRow(sw, 1, row); err != nil {
		return fmt.Errorf("climtab: writing %s: %v", path, err)
	}
	for i := 0; i < t.NRows(); i++ {
		for j, v := range t.Row(i) {
			if math.IsNaN(v) {
				row[j] = nil // missing data becomes a blank cell
			} else {
				row[j] = v
			}
		}
		if err := writeRow(sw, i+2, row); err != nil {
			return fmt.Errorf("climtab: writing %s: %v", path, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("climtab: writing %s: %v", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("climtab: writing %s: %v", path, err)
	}
	return nil
}

// writeRow writes vals as the 1-based spreadsheet row r.
func writeRow(sw *excelize.StreamWriter, r int, vals []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		return err
	}
	return sw.SetRow(cell, vals)
}

// workbookCache holds previously opened workbooks to avoid reading the
// same file multiple times.
var workbookCache *requestcache.Cache

var loadWorkbookCacheOnce sync.Once

// loadWorkbook opens the workbook at path, utilizing a cache so that
// repeated verifications of an unchanged file do not reread it. The
// cache key includes the file size and modification time, so a
// rewritten file is read fresh.
func loadWorkbook(path string) (*xlsx.File, error) {
	loadWorkbookCacheOnce.Do(func() {
		workbookCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			f, err := xlsx.OpenFile(req.(string))
			if err != nil {
				return nil, fmt.Errorf("climtab: opening xlsx file: %v", err)
			}
			return f, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("climtab: opening xlsx file: %v", err)
	}
	key := fmt.Sprintf("%s@%d/%d", path, fi.Size(), fi.ModTime().UnixNano())
	r := workbookCache.NewRequest(context.Background(), path, key)
	fI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return fI.(*xlsx.File), nil
}

// VerifyXLSX confirms that the workbook at path holds sheet SheetName
// with a header row followed by wantRows data rows.
func VerifyXLSX(path string, wantRows int) error {
	f, err := loadWorkbook(path)
	if err != nil {
		return err
	}
	s, ok := f.Sheet[SheetName]
	if !ok {
		return fmt.Errorf("climtab: verifying %s: no sheet %s", path, SheetName)
	}
	if got := len(s.Rows) - 1; got != wantRows {
		return fmt.Errorf("climtab: verifying %s: sheet %s has %d data rows; want %d",
			path, SheetName, got, wantRows)
	}
	return nil
}
