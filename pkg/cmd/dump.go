// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/consensys/go-infer/pkg/compiler"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/ir"
	"github.com/consensys/go-infer/pkg/util/termio"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] file...",
	Short: "Print the typed tree of every declaration in a set of files.",
	Long: `Print the typed tree of every declaration in a set of files, one row per
	declaration, followed by any diagnostics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg    = getConfig(cmd)
			colour = diag.UseColour(cfg.Output.Colour, os.Stdout)
			width  = termio.Width(os.Stdout)
		)
		//
		for _, result := range checkFiles(context.Background(), compiler.NewCompiler(cfg), args) {
			fmt.Printf("%s (unit %s)\n", result.Unit.Program.Source().Filename(), result.Unit.Id)
			printResolutions(result, colour, width)
			diag.NewPrinter(os.Stdout, result.Unit.Program.Source()).
				WithColour(colour).
				WithWidth(width).
				PrintAll(result.Diagnostics)
		}
	},
}

// Print one row per declaration, giving its name, type and typed tree.
func printResolutions(result *compiler.Result, colour bool, width uint) {
	var (
		table   = termio.NewTablePrinter(3)
		heading = termio.NewAnsiEscape().Bold()
		failed  = termio.NewAnsiEscape().FgColour(termio.Red)
	)
	//
	table.AddRow("declaration", "type", "tree")
	//
	for i, r := range result.Resolutions {
		table.AddRow(r.Decl.Name(), r.Type.String(), ir.String(r.Node))
		//
		if len(r.Diagnostics) > 0 {
			table.SetEscape(0, uint(i+1), failed)
		}
	}
	//
	for col := range uint(3) {
		table.SetEscape(col, 0, heading)
	}
	//
	table.SetMaxWidth(2, max(width/2, 20))
	table.AnsiEscapes(colour)
	table.Print(os.Stdout)
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
