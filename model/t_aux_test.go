// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/grid"
	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/linsol"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/pvt"
	"github.com/hakonhagland/opm-simulators/relperm"
	"github.com/hakonhagland/opm-simulators/wells"
)

// injector returns a regular water injector at cell 0 controlled by bhp
func injector() *wells.Well {
	return &wells.Well{
		Name:     "INJ",
		TypeName: "injector",
		RefDepth: 1005,
		Perfs:    []*wells.Perforation{{Cell: 0, Trans: 1e-12, Depth: 1005}},
		Controls: []*wells.Control{{TypeName: "bhp", Target: 2.2e7}},
		CompFrac: []float64{1, 0},
	}
}

// producer returns a producer at cell 4 controlled by bhp with a rate constraint. If multiseg,
// the well has two segments and the perforation, 1 m below, belongs to the lower one
func producer(multiseg bool) *wells.Well {
	w := &wells.Well{
		Name:     "PROD",
		TypeName: "producer",
		RefDepth: 1005,
		Perfs:    []*wells.Perforation{{Cell: 4, Trans: 1e-12, Depth: 1005}},
		Controls: []*wells.Control{
			{TypeName: "bhp", Target: 1.8e7},
			{TypeName: "rate", Target: -1e-3, Distr: []float64{0, 1}},
		},
		CompFrac: []float64{0, 1},
	}
	if multiseg {
		w.MultiSegment = true
		w.Segments = []*wells.Segment{
			{Depth: 1000, Volume: 0.01},
			{Depth: 1004, Volume: 0.01, Outlet: 0},
		}
		w.Perfs[0].Segment = 1
	}
	return w
}

// twoPhase returns a water-oil model of a line of five cells with the given wells, a reservoir
// state with pressures and saturations varying along the line and a well state with non-zero rates
func twoPhase(prms *inp.ModelParams, wls ...*wells.Well) (o *Model, x *ReservoirState, xw *wells.State, err error) {

	// phases and grid
	pu, err := phases.New(true, true, false)
	if err != nil {
		return
	}
	g, err := grid.NewCartesian(5, 1, 1, 10, 10, 10, 1e-13, 0.2, 1000, 9.80665)
	if err != nil {
		return
	}

	// models
	fld, err := pvt.New("blackoil")
	if err != nil {
		return
	}
	err = fld.Init(dbf.Params{
		&dbf.P{N: "rhow", V: 1000},
		&dbf.P{N: "rhoo", V: 800},
		&dbf.P{N: "pref", V: 2e7},
		&dbf.P{N: "cw", V: 4e-10},
		&dbf.P{N: "co", V: 1e-9},
		&dbf.P{N: "muw", V: 5e-4},
		&dbf.P{N: "muo", V: 2e-3},
	})
	if err != nil {
		return
	}
	kr, err := relperm.New("corey")
	if err != nil {
		return
	}
	err = kr.Init(dbf.Params{&dbf.P{N: "swr", V: 0.1}, &dbf.P{N: "sor", V: 0.1}})
	if err != nil {
		return
	}

	// wells
	for _, w := range wls {
		if err = w.Init(pu.Num); err != nil {
			return
		}
	}

	// model
	if prms == nil {
		prms = new(inp.ModelParams)
		prms.SetDefault()
		prms.SolveWellEqInitially = false
	}
	o, err = New(g, fld, kr, pu, wls, *prms, nil)
	if err != nil {
		return
	}

	// reservoir state
	x = NewReservoirState(g.NumCells, pu, 2e7, 350, []float64{0.2, 0.8}, 0, 0)
	for c := 0; c < g.NumCells; c++ {
		x.Pressure[c] = 2.04e7 - 1e5*float64(c)
		x.Sat[0][c] = 0.5 - 0.05*float64(c)
		x.Sat[1][c] = 1 - x.Sat[0][c]
	}

	// well state
	xw = wells.NewState(o.Net, x.Pressure)
	for s, w := range o.Net.SegWell {
		rates := []float64{-1e-4, -1e-3}
		if o.Net.Wells[w].Type == wells.Injector {
			rates = []float64{1e-3, 0}
		}
		copy(xw.SegPhaseRates[2*s:], rates)
		if s != o.Net.TopSegs[w] {
			xw.SegPress[s] += 500
		}
	}
	xw.SyncTopSegments()
	return
}

// unknowns returns the values of all unknowns in the order of the variable groups
func unknowns(o *Model, x *ReservoirState, xw *wells.State) (v []float64) {
	v = append(v, x.Pressure...)
	v = append(v, x.Sat[o.Pu.Pos[phases.Water]]...)
	if o.Pu.Active(phases.Gas) {
		sg := x.Sat[o.Pu.Pos[phases.Gas]]
		for c := 0; c < o.nc; c++ {
			switch x.Primal[c] {
			case PrimalRs:
				v = append(v, x.Rs[c])
			case PrimalRv:
				v = append(v, x.Rv[c])
			default:
				v = append(v, sg[c])
			}
		}
	}
	v = append(v, xw.SegRatesPhaseMajor()...)
	return append(v, xw.SegPress...)
}

// setUnknowns sets the unknowns; oil saturations are not changed since they are derived
func setUnknowns(o *Model, x *ReservoirState, xw *wells.State, v []float64) {
	nc, n := o.nc, o.np*o.Net.Nseg
	copy(x.Pressure, v[:nc])
	copy(x.Sat[o.Pu.Pos[phases.Water]], v[nc:2*nc])
	k := 2 * nc
	if o.Pu.Active(phases.Gas) {
		sg := x.Sat[o.Pu.Pos[phases.Gas]]
		for c := 0; c < nc; c++ {
			switch x.Primal[c] {
			case PrimalRs:
				x.Rs[c] = v[k+c]
			case PrimalRv:
				x.Rv[c] = v[k+c]
			default:
				sg[c] = v[k+c]
			}
		}
		k += nc
	}
	xw.SetSegRatesPhaseMajor(v[k : k+n])
	copy(xw.SegPress, v[k+n:])
}

// checkJacobian compares the Jacobian of the current state with central differences of the
// residuals. Entries are scaled by the magnitudes of the unknowns
func checkJacobian(tst *testing.T, o *Model, x *ReservoirState, xw *wells.State) {

	// analytical
	if err := o.assemble(x, xw, false); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	jac := ad.Collapse(o.Res.Stack()).ToDense()
	neq := len(jac)
	chk.IntAssert(neq, o.NumVars())
	chk.IntAssert(o.Res.Size(), o.NumVars())

	// typical magnitudes of unknowns: rates are small
	v0 := unknowns(o, x, xw)
	nres := (o.groups - 2) * o.nc
	nrates := o.np * o.Net.Nseg
	scale := make([]float64, len(v0))
	for i, v := range v0 {
		floor := 1.0
		if i >= nres && i < nres+nrates {
			floor = 1e-3
		}
		scale[i] = math.Max(math.Abs(v), floor)
	}

	// numerical
	residual := func(v []float64) []float64 {
		setUnknowns(o, x, xw, v)
		if e := o.assemble(x, xw, false); e != nil {
			tst.Errorf("assemble failed: %v\n", e)
		}
		return o.Res.Stack().Val
	}
	num := make([][]float64, neq)
	for i := range num {
		num[i] = make([]float64, neq)
	}
	for j := range v0 {
		h := 1e-7 * math.Max(math.Abs(v0[j]), 0.1)
		v := append([]float64{}, v0...)
		v[j] = v0[j] + h
		rp := residual(v)
		v[j] = v0[j] - h
		rm := residual(v)
		for i := 0; i < neq; i++ {
			num[i][j] = (rp[i] - rm[i]) / (2 * h)
		}
	}
	setUnknowns(o, x, xw, v0)

	// compare scaled entries
	for i := 0; i < neq; i++ {
		rowmax := 0.0
		for j := 0; j < neq; j++ {
			rowmax = math.Max(rowmax, math.Abs(jac[i][j]*scale[j]))
		}
		for j := 0; j < neq; j++ {
			a, n := jac[i][j]*scale[j], num[i][j]*scale[j]
			tol := 1e-5*math.Max(math.Abs(a), math.Abs(n)) + 1e-8*rowmax
			if math.Abs(a-n) > tol {
				tst.Errorf("dR%d/dx%d: analytical = %v, numerical = %v\n", i, j, jac[i][j], num[i][j])
			}
		}
	}
}

// newton runs Newton iterations of one time step until convergence
func newton(o *Model, x *ReservoirState, xw *wells.State, dt float64, nmaxit int) (converged bool, it int, err error) {
	o.PrepareStep(dt, x, xw)
	for it = 0; it < nmaxit; it++ {
		if err = o.Assemble(x, xw, it == 0); err != nil {
			return
		}
		converged, _, err = o.Convergence(it)
		if err != nil || converged {
			return
		}
		eqs := o.Res.Stack()
		var dx []float64
		dx, err = linsol.Solve("lu", ad.Collapse(eqs), eqs.Val)
		if err != nil {
			return
		}
		o.UpdateState(dx, x, xw)
		if chk.Verbose {
			io.Pf("it = %d: p = %v\n", it, x.Pressure)
		}
	}
	return
}
