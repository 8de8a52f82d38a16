// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/model"
	"github.com/hakonhagland/opm-simulators/wells"
)

func Test_runner01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("runner01. schedule of the two-phase case")

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
	run := NewRunner(sol, &c.Solver, sum, chk.Verbose)
	nsteps := 0
	run.OnStep = func(t, dt float64, rep Report, x *model.ReservoirState, xw *wells.State) {
		nsteps++
	}

	err = run.Run(c.Schedule, c.Wells, x, xw)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	io.Pforan("times = %v\n", sum.Times)
	io.Pforan("ncuts = %v\n", sum.Ncuts)

	// time
	chk.Float64(tst, "final time", 1e-8, run.Time, 3*86400)
	chk.IntAssert(len(sum.Times), nsteps)
	chk.IntAssert(len(sum.Dts), nsteps)
	chk.IntAssert(len(sum.Iters), nsteps)
	chk.IntAssert(len(sum.Norms), nsteps)
	if nsteps < 3 {
		tst.Errorf("at least 3 steps should have been taken. nsteps = %d\n", nsteps)
		return
	}
	total := 0.0
	for _, dt := range sum.Dts {
		total += dt
	}
	chk.Float64(tst, "sum of Δt", 1e-8, total, 3*86400)

	// the last entry moves the producer to its rate control
	chk.IntAssert(c.Wells[1].Current, 1)

	// the bhp limit of the producer holds whichever control is active
	if xw.Bhp[1] < 1.8e7-1 {
		tst.Errorf("producer bhp is below its limit: %v\n", xw.Bhp[1])
	}
	for i := 0; i < x.NumCells(); i++ {
		chk.Float64(tst, io.Sf("sw + so (cell %d)", i), 1e-15, x.Sat[0][i]+x.Sat[1][i], 1)
	}
}

func Test_runner02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("runner02. time step cuts")

	c, mdl, x, xw := readCase(tst)
	if c == nil {
		return
	}
	p0 := append([]float64{}, x.Pressure...)
	bhp0 := append([]float64{}, xw.Bhp...)

	// steps never converge
	c.Solver.NmaxIt = 0
	c.Solver.NmaxCuts = 2
	sum := new(Summary)
	sol, err := New("imp", mdl, &c.Solver, &c.LinSol, sum, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	run := NewRunner(sol, &c.Solver, sum, chk.Verbose)
	err = run.Advance(86400, x, xw)
	if err == nil {
		tst.Errorf("Advance should have failed\n")
		return
	}
	io.Pforan("%v\n", err)

	// states are restored
	chk.IntAssert(sum.Ncuts, 3)
	chk.IntAssert(len(sum.Times), 0)
	chk.IntAssert(len(sum.Resids), 3)
	chk.Float64(tst, "time", 1e-15, run.Time, 0)
	chk.Array(tst, "pressure", 1e-15, x.Pressure, p0)
	chk.Array(tst, "bhp", 1e-15, xw.Bhp, bhp0)

	// minimum Δt
	c.Solver.NmaxCuts = 10
	c.Solver.DtMin = 20000
	sum = new(Summary)
	sol, err = New("imp", mdl, &c.Solver, &c.LinSol, sum, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	run = NewRunner(sol, &c.Solver, sum, chk.Verbose)
	err = run.Advance(86400, x, xw)
	if err == nil {
		tst.Errorf("Advance should have failed\n")
		return
	}
	io.Pforan("%v\n", err)

	// 86400 => 43200 => 21600 => 10800 < 20000
	chk.IntAssert(sum.Ncuts, 3)
}
