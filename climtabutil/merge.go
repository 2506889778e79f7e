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

package climtabutil

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climtab"
)

// Log is the logger used for run summaries and warnings.
var Log logrus.FieldLogger = logrus.StandardLogger()

// Merge runs the merge pipeline for one model/scenario/variable
// selection, creating outputDir if necessary. If years is non-empty,
// only the listed years are merged.
func Merge(inputDir, outputDir, folderPrefix, filePattern, model, scenario, variable string,
	years []int, mode climtab.Aggregation, msgChan chan string) error {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("climtab: creating output directory: %v", err)
	}
	l := &climtab.Layout{
		Root:         inputDir,
		FolderPrefix: folderPrefix,
		Pattern:      filePattern,
	}
	r, err := climtab.Merge(l, outputDir, model, scenario, variable, years, mode, msgChan)
	if err != nil {
		return err
	}
	for _, w := range r.Warnings {
		Log.Warn(w)
	}
	Log.WithFields(logrus.Fields{
		"output":  r.Path,
		"years":   fmt.Sprintf("%v", r.Years),
		"rows":    r.Rows,
		"columns": r.Cols,
	}).Info("climtab merge finished")
	return nil
}
