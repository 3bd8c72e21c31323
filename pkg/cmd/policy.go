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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy [flags]",
	Short: "Print the effective configuration as YAML.",
	Long: `Print the effective configuration as YAML, after applying any configuration
	file and flags.  The output can be used as a starting point for a
	configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig(cmd)
		bytes, err := cfg.Marshal()
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		fmt.Print(string(bytes))
	},
}

func init() {
	rootCmd.AddCommand(policyCmd)
}
