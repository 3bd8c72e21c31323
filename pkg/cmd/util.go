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
	"strings"

	"github.com/consensys/go-infer/pkg/compiler"
	"github.com/consensys/go-infer/pkg/config"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned integer, or panic if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string, or panic if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Determine the effective configuration of a command.  This is read from the
// given configuration file (if any), with explicitly set flags taking
// precedence.
func getConfig(cmd *cobra.Command) config.Config {
	cfg := config.Default()
	//
	if getFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	if filename := getString(cmd, "config"); filename != "" {
		var err error
		//
		if cfg, err = config.Load(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	if cmd.Flags().Changed("workers") {
		cfg.Compiler.Workers = getUint(cmd, "workers")
	}
	//
	if cmd.Flags().Changed("max-depth") {
		cfg.Resolution.MaxDepth = getUint(cmd, "max-depth")
	}
	//
	if cmd.Flags().Changed("colour") {
		cfg.Output.Colour = diag.ColourMode(getString(cmd, "colour"))
	}
	// Flags may have invalidated the configuration
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return cfg
}

// Load and check every given file in turn, stopping at the first with syntax
// errors.  Interrupting the process cancels checking.
func checkFiles(ctx context.Context, c *compiler.Compiler, filenames []string) []*compiler.Result {
	srcfiles, err := source.ReadFiles(filenames...)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	results := make([]*compiler.Result, len(srcfiles))
	//
	for i, srcfile := range srcfiles {
		unit, errs := c.Load(srcfile)
		//
		if len(errs) > 0 {
			printSyntaxErrors(errs)
			os.Exit(2)
		}
		//
		if results[i], err = c.Check(ctx, unit); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	return results
}

// Print a set of syntax errors with appropriate highlighting.
func printSyntaxErrors(errs []source.SyntaxError) {
	for _, err := range errs {
		printSyntaxError(&err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", err.SourceFile().Filename(), line.Number(), err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", span.Start()-line.Start()))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(1, min(span.Length(), line.Length()-span.Start()+line.Start()))))
}
