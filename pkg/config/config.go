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
	"fmt"
	"os"

	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/resolve"
	"github.com/consensys/go-infer/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultLubDepth bounds the nesting of type arguments computed by a least
// upper bound.
const DefaultLubDepth = 4

// Config is the configuration of a compilation, as read from a policy file.
type Config struct {
	Resolution Resolution `yaml:"resolution"`
	Compiler   Compiler   `yaml:"compiler"`
	Output     Output     `yaml:"output"`
}

// Resolution configures overload resolution and inference.
type Resolution struct {
	MaxDepth  uint     `yaml:"max-depth"`
	LubDepth  uint     `yaml:"lub-depth"`
	TieBreaks []string `yaml:"tie-breaks"`
}

// Compiler configures the compilation driver.
type Compiler struct {
	// Number of declarations resolved concurrently (0 means one per CPU).
	Workers uint `yaml:"workers"`
}

// Output configures how diagnostics are printed.
type Output struct {
	Colour diag.ColourMode `yaml:"colour"`
}

// Default returns the default configuration.
func Default() Config {
	var (
		policy    = resolve.DefaultPolicy()
		tieBreaks = make([]string, len(policy.TieBreaks))
	)
	//
	for i, t := range policy.TieBreaks {
		tieBreaks[i] = t.String()
	}
	//
	return Config{
		Resolution: Resolution{policy.MaxDepth, DefaultLubDepth, tieBreaks},
		Output:     Output{diag.ColourAuto},
	}
}

// Load reads a configuration file.  Keys absent from the file keep their
// default values.
func Load(filename string) (Config, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", filename, err)
	}
	//
	return Parse(bytes, filename)
}

// Parse a configuration from its YAML text.  The filename is used only for
// error messages.
func Parse(bytes []byte, filename string) (Config, error) {
	config := Default()
	//
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", filename, err)
	} else if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return config, nil
}

// Validate checks a configuration for semantic errors.
func (p *Config) Validate() error {
	if p.Resolution.MaxDepth == 0 {
		return fmt.Errorf("resolution.max-depth must be positive")
	} else if p.Resolution.LubDepth == 0 {
		return fmt.Errorf("resolution.lub-depth must be positive")
	}
	//
	seen := make(map[resolve.TieBreak]bool)
	//
	for _, name := range p.Resolution.TieBreaks {
		t, err := resolve.ParseTieBreak(name)
		//
		if err != nil {
			return fmt.Errorf("resolution.tie-breaks: %w", err)
		} else if seen[t] {
			return fmt.Errorf("resolution.tie-breaks: duplicate tie-break \"%s\"", name)
		}
		//
		seen[t] = true
	}
	//
	switch p.Output.Colour {
	case diag.ColourAuto, diag.ColourAlways, diag.ColourNever:
		return nil
	default:
		return fmt.Errorf("output.colour: unknown mode \"%s\" (expected auto, always or never)", p.Output.Colour)
	}
}

// Policy returns the resolution policy of a (valid) configuration.
func (p *Config) Policy() resolve.Policy {
	policy := resolve.Policy{MaxDepth: p.Resolution.MaxDepth}
	//
	for _, name := range p.Resolution.TieBreaks {
		t, err := resolve.ParseTieBreak(name)
		//
		if err != nil {
			panic(err.Error())
		}
		//
		policy.TieBreaks = append(policy.TieBreaks, t)
	}
	//
	return policy
}

// Lattice constructs a type lattice over a given universe, as configured.
func (p *Config) Lattice(universe *types.Universe) *types.Lattice {
	return types.NewLattice(universe, p.Resolution.LubDepth)
}

// Marshal renders a configuration as YAML.
func (p *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}
