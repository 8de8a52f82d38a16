// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"errors"

	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/linsol"
	"github.com/hakonhagland/opm-simulators/model"
	"github.com/hakonhagland/opm-simulators/wells"
)

// Implicit solves time steps of the fully-implicit model with the Newton-Raphson method
type Implicit struct {
	Model   *model.Model    // black-oil model with wells
	Prms    *inp.SolverData // iteration control
	LinSol  *inp.LinSolData // linear solver
	Sum     *Summary        // residuals history; may be nil
	Verbose bool            // show messages
}

// set factory
func init() {
	allocators["imp"] = func(mdl *model.Model, prms *inp.SolverData, lsol *inp.LinSolData, sum *Summary, verbose bool) Solver {
		mdl.LinSol = lsol.Name
		return &Implicit{Model: mdl, Prms: prms, LinSol: lsol, Sum: sum, Verbose: verbose}
	}
}

// Step runs Newton iterations for one time step. x and xw hold the state at the beginning of the
// step on entry and the last iterate on exit; the caller restores them if the step fails. Numerical
// problems and failures of the linear solver are reported as divergence; other errors (e.g.
// unsupported well controls) are returned
func (o *Implicit) Step(dt float64, x *model.ReservoirState, xw *wells.State) (rep Report, err error) {

	// auxiliary
	mdl := o.Model
	mdl.PrepareStep(dt, x, xw)
	var largR, largR0 float64

	// message
	if o.Prms.ShowR {
		io.Pf("\n%13s%4s%23s\n", "Δt", "it", "largR")
	}

	// iterations
	for it := 0; ; it++ {

		// residuals
		err = mdl.Assemble(x, xw, it == 0)
		if err != nil {
			return
		}
		var converged bool
		converged, rep.Norms, err = mdl.Convergence(it)
		if err != nil {
			if errors.Is(err, model.ErrNumerical) {
				if o.Verbose {
					io.Pfred("%v\n", err)
				}
				rep.Diverged, err = true, nil
			}
			return
		}
		largR = mdl.Res.MaxAbs()
		if o.Sum != nil {
			o.Sum.appendResid(it == 0, largR)
		}
		if o.Prms.ShowR {
			io.Pf("%13.6e%4d%23.15e\n", dt, it, largR)
		}

		// check convergence
		rep.Iterations = it
		if converged && it >= o.Prms.NminIt {
			rep.Converged = true
			return
		}
		if it >= o.Prms.NmaxIt {
			if o.Verbose {
				io.Pfyel("max number of iterations reached: it = %d\n", it)
			}
			return
		}

		// check divergence
		if it == 0 {
			largR0 = largR
		} else if o.Prms.DvgCtrl && largR > o.Prms.DvgFactor*largR0 {
			if o.Verbose {
				io.Pfred("iterations diverging: largR = %g > %g・%g\n", largR, o.Prms.DvgFactor, largR0)
			}
			rep.Diverged = true
			return
		}

		// solve for increments
		eqs := mdl.Res.Stack()
		dx, e := linsol.Solve(o.LinSol.Name, ad.Collapse(eqs), eqs.Val)
		if e != nil {
			if o.Verbose {
				io.Pfred("linear solver failed:\n%v\n", e)
			}
			rep.Diverged = true
			return
		}

		// update state
		mdl.UpdateState(dx, x, xw)
	}
}
