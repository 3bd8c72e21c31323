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
package compiler

import (
	"context"
	"runtime"
	"sync"

	"github.com/consensys/go-infer/pkg/ast"
	"github.com/consensys/go-infer/pkg/config"
	"github.com/consensys/go-infer/pkg/diag"
	"github.com/consensys/go-infer/pkg/loader"
	"github.com/consensys/go-infer/pkg/resolve"
	"github.com/consensys/go-infer/pkg/types"
	"github.com/consensys/go-infer/pkg/util"
	"github.com/consensys/go-infer/pkg/util/source"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Unit is a compilation unit, corresponding to one source file.
type Unit struct {
	// Identifies this unit in logs and results.
	Id      uuid.UUID
	Program *ast.Program
}

// Result holds the outcome of checking one compilation unit.
type Result struct {
	Unit *Unit
	// Resolutions of the unit's top-level declarations, in declaration order.
	Resolutions []resolve.Resolution
	// Diagnostics of the whole unit, sorted by position.
	Diagnostics []diag.Diagnostic
	// Subtype cache statistics.
	CacheHits   uint64
	CacheMisses uint64
}

// HasErrors determines whether any error diagnostics were reported.
func (p *Result) HasErrors() bool {
	for _, d := range p.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	//
	return false
}

// Compiler drives the checking of compilation units.  Units share a universe
// of built-in classes, but each is checked with its own subtype cache.  Units
// are checked one at a time, whilst the declarations within a unit are
// resolved concurrently.
type Compiler struct {
	config   config.Config
	universe *types.Universe
	// Serialises units, since the lattice cache is reset for each.
	mutex   sync.Mutex
	lattice *types.Lattice
}

// NewCompiler constructs a compiler for a given (valid) configuration.
func NewCompiler(cfg config.Config) *Compiler {
	universe := types.NewUniverse()
	//
	return &Compiler{config: cfg, universe: universe, lattice: cfg.Lattice(universe)}
}

// Universe returns the built-in classes shared by all units.
func (p *Compiler) Universe() *types.Universe {
	return p.universe
}

// Workers returns the number of declarations resolved concurrently.
func (p *Compiler) Workers() int {
	if p.config.Compiler.Workers == 0 {
		return runtime.NumCPU()
	}
	//
	return int(p.config.Compiler.Workers)
}

// Load a source file into a compilation unit.
func (p *Compiler) Load(srcfile *source.File) (*Unit, []source.SyntaxError) {
	stats := util.NewPerfStats()
	program, errs := loader.Load(p.universe, srcfile)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	unit := &Unit{uuid.New(), program}
	stats.Log(log.WithFields(log.Fields{"unit": unit.Id, "file": srcfile.Filename()}), "loading")
	//
	return unit, nil
}

// Check resolves every top-level declaration of a unit.  The context is
// consulted between declarations, and cancelling it abandons the unit.
func (p *Compiler) Check(ctx context.Context, unit *Unit) (*Result, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	var (
		workers  = p.Workers()
		tops     = unit.Program.TopLevels()
		results  = make([]resolve.Resolution, len(tops))
		sink     = diag.NewSink()
		resolver = resolve.NewResolver(unit.Program, p.lattice, p.config.Policy())
		entry    = log.WithFields(log.Fields{"unit": unit.Id, "workers": workers})
		stats    = util.NewPerfStats()
	)
	//
	group, gctx := errgroup.WithContext(ctx)
	//
	p.lattice.Reset()
	group.SetLimit(workers)
	entry.Debugf("checking %d declaration(s)", len(tops))
	//
	for i, top := range tops {
		if gctx.Err() != nil {
			break
		}
		//
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			//
			results[i] = resolver.Resolve(top)
			sink.Report(results[i].Diagnostics...)
			entry.WithField("decl", top.Decl.Name()).Tracef("resolved with %d diagnostic(s)",
				len(results[i].Diagnostics))
			//
			return nil
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	//
	hits, misses := p.lattice.Stats()
	stats.Log(entry, "resolution")
	entry.Debugf("subtype cache: %d hit(s), %d miss(es)", hits, misses)
	//
	return &Result{unit, results, sink.Diagnostics(), hits, misses}, nil
}
