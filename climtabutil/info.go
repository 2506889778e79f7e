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

	"github.com/spatialmodel/climtab"
)

// Info scans the archive for one model/scenario/variable selection and
// prints a summary of the files found there.
func Info(inputDir, folderPrefix, filePattern, model, scenario, variable string) error {
	l := &climtab.Layout{
		Root:         inputDir,
		FolderPrefix: folderPrefix,
		Pattern:      filePattern,
	}
	info, err := climtab.FileInfo(l, model, scenario, variable)
	if err != nil {
		return err
	}
	for _, w := range info.Warnings {
		Log.Warn(w)
	}
	fmt.Printf("Directory: %s\n", info.Dir)
	fmt.Printf("Files: %d\n", info.Count)
	fmt.Printf("Years: %v\n", info.Years)
	fmt.Printf("Range: %d to %d\n", info.Years[0], info.Years[len(info.Years)-1])
	fmt.Printf("Known models: %v\n", climtab.Models)
	fmt.Printf("Known scenarios: %v\n", climtab.Scenarios)
	fmt.Printf("Known variables: %v\n", climtab.Variables)
	return nil
}

// ValidatePaths checks that the input directory exists and reports
// whether the output directory exists. A missing output directory is
// not an error, because merge creates it.
func ValidatePaths(inputDir, outputDir string) error {
	l := &climtab.Layout{Root: inputDir}
	ps := climtab.CheckPaths(l, outputDir)
	if !ps.InputOK {
		return fmt.Errorf("climtab: input directory %s does not exist", ps.InputDir)
	}
	fmt.Printf("Input directory: %s\n", ps.InputDir)
	if ps.OutputOK {
		fmt.Printf("Output directory: %s\n", ps.OutputDir)
	} else {
		fmt.Printf("Output directory %s does not exist; merge will create it\n", ps.OutputDir)
	}
	return nil
}
