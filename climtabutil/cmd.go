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

// Package climtabutil holds the command-line interface to ClimTab.
package climtabutil

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/climtab"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ClimTab.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputDir",
			usage: `
              InputDir is the base directory of the projection archive. It holds
              one subdirectory per model/scenario combination, for example
              'ACCESS CM2 SSP585'. Environment variables within it are expanded.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), infoCmd.Flags(), validateCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory where merged workbooks are written.
              It is created if it does not exist. Environment variables within
              it are expanded.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), validateCmd.Flags()},
		},
		{
			name: "FolderPrefix",
			usage: `
              FolderPrefix is the prefix of the per-variable directory name
              within a model/scenario directory, so that daily files for
              variable 'tasmax' live in '{FolderPrefix}_tasmax'.`,
			defaultVal: "CMIP6 Files",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "FilePattern",
			usage: `
              FilePattern is the glob pattern that annual data files must match.`,
			defaultVal: "*.nc",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "model",
			usage: `
              model specifies the climate model whose output is to be merged,
              for example 'ACCESS CM2'.`,
			shorthand:  "m",
			defaultVal: "ACCESS CM2",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "scenario",
			usage: `
              scenario specifies the emissions scenario whose output is to be
              merged, for example 'SSP585' or 'SSP245'.`,
			shorthand:  "s",
			defaultVal: "SSP585",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable specifies the climate variable to be merged, for
              example 'tasmax', 'tasmin', 'pr', or 'hurs'.`,
			shorthand:  "v",
			defaultVal: "tasmax",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "aggregation",
			usage: `
              aggregation specifies how each year's daily values are reduced
              to columns: 'mean', 'max', or 'min' produce one column per
              year, and 'all' keeps every day as its own column.`,
			shorthand:  "a",
			defaultVal: "mean",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags()},
		},
		{
			name: "years",
			usage: `
              years specifies a list of years to merge. The default is to
              merge every year found in the archive.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CLIMTAB")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(mergeCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(validateCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Println(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("climtab: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// toIntSliceE converts a configuration value to an []int, accounting
// for the fact that it might be a json array if it came from a
// command-line argument.
func toIntSliceE(s interface{}) ([]int, error) {
	if str, ok := s.(string); ok {
		var o []int
		if err := json.Unmarshal([]byte(str), &o); err != nil {
			return nil, err
		}
		return o, nil
	}
	return cast.ToIntSliceE(s)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "climtab",
	Short: "A climate-projection tabulation tool.",
	Long: `ClimTab merges the annual NetCDF files of a daily climate projection
into spreadsheet tables with one row per coordinate pair.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CLIMTAB_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ClimTab.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ClimTab v%s\n", climtab.Version)
	},
	DisableAutoGenTag: true,
}

// mergeCmd is a command that runs the merge pipeline for one
// model/scenario/variable selection.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge annual projection files into a spreadsheet.",
	Long: `merge locates the annual NetCDF files for the chosen model, scenario,
and variable, checks that they all share the same coordinate grid,
reduces each year's daily values according to the chosen aggregation,
and writes the result to an xlsx workbook with one row per
latitude/longitude pair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outChan := outChan()

		mode, err := climtab.ParseAggregation(Cfg.GetString("aggregation"))
		if err != nil {
			return err
		}
		years, err := toIntSliceE(Cfg.Get("years"))
		if err != nil {
			return fmt.Errorf("climtab: reading 'years': %v", err)
		}
		return Merge(
			os.ExpandEnv(Cfg.GetString("InputDir")),
			os.ExpandEnv(Cfg.GetString("OutputDir")),
			Cfg.GetString("FolderPrefix"),
			Cfg.GetString("FilePattern"),
			Cfg.GetString("model"),
			Cfg.GetString("scenario"),
			Cfg.GetString("variable"),
			years, mode, outChan)
	},
	DisableAutoGenTag: true,
}

// infoCmd is a command that reports what an archive holds without
// reading any data.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the files available for a selection.",
	Long: `info scans the archive directory for the chosen model, scenario, and
variable and reports the files found there, without reading any data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Info(
			os.ExpandEnv(Cfg.GetString("InputDir")),
			Cfg.GetString("FolderPrefix"),
			Cfg.GetString("FilePattern"),
			Cfg.GetString("model"),
			Cfg.GetString("scenario"),
			Cfg.GetString("variable"))
	},
	DisableAutoGenTag: true,
}

// validateCmd is a command that checks the configured paths.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configured directories exist.",
	Long: `validate checks that the input directory exists and reports whether
the output directory exists. A missing output directory is not an
error, because merge creates it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ValidatePaths(
			os.ExpandEnv(Cfg.GetString("InputDir")),
			os.ExpandEnv(Cfg.GetString("OutputDir")))
	},
	DisableAutoGenTag: true,
}
