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
	"os/signal"

	"github.com/consensys/go-infer/pkg/compiler"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/util/termio"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file...",
	Short: "Resolve every declaration in a set of files, reporting any diagnostics.",
	Long: `Resolve every declaration in a set of files, reporting any diagnostics.
	Each file is a separate compilation unit.  The exit code is non-zero if any
	errors are reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg         = getConfig(cmd)
			ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt)
			errors      = 0
		)
		//
		defer cancel()
		//
		for _, result := range checkFiles(ctx, compiler.NewCompiler(cfg), args) {
			printer := diag.NewPrinter(os.Stdout, result.Unit.Program.Source()).
				WithColour(diag.UseColour(cfg.Output.Colour, os.Stdout)).
				WithWidth(termio.Width(os.Stdout))
			printer.PrintAll(result.Diagnostics)
			//
			for _, d := range result.Diagnostics {
				if d.IsError() {
					errors++
				}
			}
		}
		//
		if errors > 0 {
			fmt.Printf("%d error(s)\n", errors)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
