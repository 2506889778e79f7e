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

// Package climtab merges daily climate-model output stored in annual NetCDF
// files and reshapes it into per-coordinate spreadsheet tables, with one
// aggregated column per year.
package climtab

// Version gives the version of this software.
const Version = "0.1.0" // versioning scheme at: http://semver.org/

// Models lists the climate models that projection archives are
// typically organized under. It is informational; any model name
// present on disk can be processed.
var Models = []string{"ACCESS CM2"}

// Scenarios lists the shared socioeconomic pathway scenarios that
// projection archives are typically organized under.
var Scenarios = []string{"SSP585", "SSP245"}

// Variables lists the daily climate variables that commonly appear in
// projection archives: maximum and minimum near-surface air temperature,
// precipitation, and near-surface relative humidity.
var Variables = []string{"tasmax", "tasmin", "pr", "hurs"}
