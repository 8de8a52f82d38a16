// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/model"
	"github.com/hakonhagland/opm-simulators/wells"
)

// StepFunc is called after each converged step
type StepFunc func(t, dt float64, rep Report, x *model.ReservoirState, xw *wells.State)

// Runner runs the time loop over a schedule. Failed steps are repeated with Δt multiplied by
// CutFactor, at most NmaxCuts times in a row
type Runner struct {
	Solver  Solver          // nonlinear solver of time steps
	Prms    *inp.SolverData // time step cuts
	Sum     *Summary        // summary; may be nil
	OnStep  StepFunc        // called after each converged step; may be nil
	Verbose bool            // show messages
	Time    float64         // current time
}

// NewRunner returns a new runner
func NewRunner(solver Solver, prms *inp.SolverData, sum *Summary, verbose bool) *Runner {
	return &Runner{Solver: solver, Prms: prms, Sum: sum, Verbose: verbose}
}

// Run runs all steps of a schedule. Well changes of each entry are applied before its first step
func (o *Runner) Run(schedule []*inp.Step, wls []*wells.Well, x *model.ReservoirState, xw *wells.State) (err error) {
	for i, stp := range schedule {
		if o.Verbose {
			io.Pf("> schedule entry %d: %d steps with Δt = %g %s\n", i, stp.Nsteps, stp.Dt, stp.Desc)
		}
		err = stp.ApplyChanges(wls, xw)
		if err != nil {
			return
		}
		for n := 0; n < stp.Nsteps; n++ {
			err = o.Advance(stp.Dt, x, xw)
			if err != nil {
				return chk.Err("schedule entry %d, step %d failed:\n%v", i, n, err)
			}
		}
	}
	return
}

// Advance advances the states by dt, cutting the time step on failures
func (o *Runner) Advance(dt float64, x *model.ReservoirState, xw *wells.State) (err error) {

	// backup
	x0, xw0 := x.Clone(), xw.Clone()

	// sub-steps
	t, tf := 0.0, dt
	h := dt
	ncuts := 0
	for t < tf {

		// time increment
		if t+h > tf {
			h = tf - t
		}

		// solve
		var rep Report
		rep, err = o.Solver.Step(h, x, xw)
		if err != nil {
			return
		}

		// success
		if rep.Converged {
			t += h
			o.Time += h
			if o.Sum != nil {
				o.Sum.appendStep(o.Time, h, rep)
			}
			if o.OnStep != nil {
				o.OnStep(o.Time, h, rep, x, xw)
			}
			if o.Verbose {
				io.Pf("time = %g (Δt = %g, iterations = %d)\n", o.Time, h, rep.Iterations)
			}
			x0.CopyFrom(x)
			xw0.CopyFrom(xw)
			ncuts = 0
			continue
		}

		// restore and cut time step
		x.CopyFrom(x0)
		xw.CopyFrom(xw0)
		ncuts++
		if o.Sum != nil {
			o.Sum.Ncuts++
		}
		if ncuts > o.Prms.NmaxCuts {
			return chk.Err("time step did not converge after %d cuts; last Δt = %g", o.Prms.NmaxCuts, h)
		}
		h *= o.Prms.CutFactor
		if h < o.Prms.DtMin {
			return chk.Err("Δt increment is too small: %g < %g", h, o.Prms.DtMin)
		}
		if o.Verbose {
			io.Pfyel("time step cut (%d): Δt = %g (diverged = %v)\n", ncuts, h, rep.Diverged)
		}
	}
	return
}
