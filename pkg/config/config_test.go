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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_Default_01(t *testing.T) {
	config := Default()
	//
	require.NoError(t, config.Validate())
	assert.Equal(t, resolve.DefaultPolicy(), config.Policy())
	assert.Equal(t, diag.ColourAuto, config.Output.Colour)
}

func Test_Config_Parse_01(t *testing.T) {
	config := check_Parse(t, `
resolution:
  max-depth: 16
  tie-breaks: [fewer-defaults, member-over-extension]
compiler:
  workers: 2
`)
	//
	policy := config.Policy()
	assert.Equal(t, uint(16), policy.MaxDepth)
	assert.Equal(t, []resolve.TieBreak{resolve.FewerDefaults, resolve.MemberOverExtension}, policy.TieBreaks)
	assert.Equal(t, uint(2), config.Compiler.Workers)
	// Absent keys keep their defaults
	assert.Equal(t, uint(DefaultLubDepth), config.Resolution.LubDepth)
	assert.Equal(t, diag.ColourAuto, config.Output.Colour)
}

func Test_Config_Parse_02(t *testing.T) {
	// An empty list disables tie-breaking
	config := check_Parse(t, "resolution:\n  tie-breaks: []\n")
	//
	assert.Empty(t, config.Policy().TieBreaks)
}

func Test_Config_Invalid_01(t *testing.T) {
	check_ParseError(t, "resolution:\n  tie-breaks: [coin-toss]\n")
}

func Test_Config_Invalid_02(t *testing.T) {
	check_ParseError(t, "resolution:\n  tie-breaks: [fewer-defaults, fewer-defaults]\n")
}

func Test_Config_Invalid_03(t *testing.T) {
	check_ParseError(t, "resolution:\n  max-depth: 0\n")
}

func Test_Config_Invalid_04(t *testing.T) {
	check_ParseError(t, "output:\n  colour: sometimes\n")
}

func Test_Config_Invalid_05(t *testing.T) {
	check_ParseError(t, "resolution: [\n")
}

func Test_Config_Load_01(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("output:\n  colour: never\n"), 0o600))
	//
	config, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, diag.ColourNever, config.Output.Colour)
	//
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func Test_Config_Marshal_01(t *testing.T) {
	config := Default()
	bytes, err := config.Marshal()
	//
	require.NoError(t, err)
	assert.Equal(t, config, check_Parse(t, string(bytes)))
}

func check_Parse(t *testing.T, text string) Config {
	config, err := Parse([]byte(text), "test.yaml")
	//
	require.NoError(t, err)
	//
	return config
}

func check_ParseError(t *testing.T, text string) {
	_, err := Parse([]byte(text), "test.yaml")
	//
	assert.Error(t, err)
}
