// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/model"
	"github.com/hakonhagland/opm-simulators/wells"
)

func Test_implicit01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("implicit01. one time step of the two-phase case")

	c, mdl, x, xw := readCase(tst)
	if c == nil {
		return
	}
	sum := new(Summary)
	sol, err := New(c.Solver.Type, mdl, &c.Solver, &c.LinSol, sum, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	rep, err := sol.Step(3600, x, xw)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	io.Pforan("rep = %+v\n", rep)
	if !rep.Converged || rep.Diverged {
		tst.Errorf("time step should have converged\n")
		return
	}
	if rep.Iterations < c.Solver.NminIt || rep.Iterations > c.Solver.NmaxIt {
		tst.Errorf("number of iterations %d is out of range\n", rep.Iterations)
	}

	// one list of residuals with one entry per assembly
	chk.IntAssert(len(sum.Resids), 1)
	chk.IntAssert(len(sum.Resids[0]), rep.Iterations+1)

	// states
	for i := 0; i < x.NumCells(); i++ {
		chk.Float64(tst, io.Sf("sw + so (cell %d)", i), 1e-15, x.Sat[0][i]+x.Sat[1][i], 1)
	}
	if x.Sat[0][0] <= c.Initial.Sw {
		tst.Errorf("water saturation of injection cell should increase. sw = %v\n", x.Sat[0][0])
	}
	if xw.WellRates[0] <= 0 {
		tst.Errorf("injector rate should be positive. q = %v\n", xw.WellRates[0])
	}
	if xw.WellRates[1*2+1] >= 0 {
		tst.Errorf("producer oil rate should be negative. q = %v\n", xw.WellRates[1*2+1])
	}
	chk.Float64(tst, "bhp of injector", 1e-6, xw.Bhp[0], 2.2e7)

	// assembling again at the converged state
	err = mdl.Assemble(x, xw, false)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	converged, norms, err := mdl.Convergence(rep.Iterations + 1)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	io.Pforan("norms = %+v\n", norms)
	if !converged {
		tst.Errorf("converged state should remain converged\n")
	}
}

func Test_implicit02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("implicit02. maximum number of iterations and unknown solver")

	c, mdl, x, xw := readCase(tst)
	if c == nil {
		return
	}

	_, err := New("explicit", mdl, &c.Solver, &c.LinSol, nil, chk.Verbose)
	if err == nil {
		tst.Errorf("unknown solver should have failed\n")
		return
	}
	io.Pforan("%v\n", err)

	// a single assembly is never enough since the minimum number of iterations is 1
	c.Solver.NmaxIt = 0
	sol, err := New("imp", mdl, &c.Solver, &c.LinSol, nil, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	rep, err := sol.Step(3600, x, xw)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if rep.Converged || rep.Diverged {
		tst.Errorf("time step should neither converge nor diverge: %+v\n", rep)
	}
	chk.IntAssert(rep.Iterations, 0)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// readCase reads the two-phase case and allocates its model and initial states
func readCase(tst *testing.T) (c *inp.Case, mdl *model.Model, x *model.ReservoirState, xw *wells.State) {
	c, err := inp.ReadCase("../inp/data/twophase.json")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil, nil, nil, nil
	}
	c.Model.Verbose = chk.Verbose
	mdl, x, xw, err = model.FromCase(c, nil)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return nil, nil, nil, nil
	}
	return
}
