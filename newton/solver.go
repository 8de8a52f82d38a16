// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package newton implements the nonlinear solvers of time steps and the time loop over a schedule
package newton

import (
	"github.com/cpmech/gosl/chk"

	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/model"
	"github.com/hakonhagland/opm-simulators/wells"
)

// Report holds the outcome of the nonlinear iterations of one time step
type Report struct {
	Converged  bool        // all convergence measures are below their tolerances
	Diverged   bool        // residuals are not finite, too large or growing; or the linear solver failed
	Iterations int         // number of Newton iterations (linear solves)
	Norms      model.Norms // measures of the last assembly
}

// Solver solves the nonlinear equations of one time step
type Solver interface {
	Step(dt float64, x *model.ReservoirState, xw *wells.State) (rep Report, err error)
}

// allocators holds all available solvers
var allocators = make(map[string]func(mdl *model.Model, prms *inp.SolverData, lsol *inp.LinSolData, sum *Summary, verbose bool) Solver)

// New returns a new nonlinear solver. sum may be nil
func New(name string, mdl *model.Model, prms *inp.SolverData, lsol *inp.LinSolData, sum *Summary, verbose bool) (Solver, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("solver %q is not available in 'newton' database", name)
	}
	return allocator(mdl, prms, lsol, sum, verbose), nil
}
