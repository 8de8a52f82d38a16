// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package model implements the fully-implicit black-oil model coupled with multi-segment wells.
//
//  Unknowns (variable groups):
//     p     -- cell pressures
//     sw    -- cell water saturations (if water is active)
//     xvar  -- sg, rs or rv of each cell (if gas is active); see Primal
//     segqs -- segment surface rates (phase-major)
//     segp  -- segment pressures
//
//  Equations:
//     mass balance of each phase in each cell
//     flux balance of each phase in each segment
//     control equation of top segments and pressure relations between segments and outlets
package model

import (
	"errors"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/comm"
	"github.com/hakonhagland/opm-simulators/grid"
	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/pvt"
	"github.com/hakonhagland/opm-simulators/relperm"
	"github.com/hakonhagland/opm-simulators/wells"
)

// ErrNumerical is returned when residuals are not finite or too large
var ErrNumerical = errors.New("numerical problem")

// phaseQuantities holds cell and face quantities of one phase
type phaseQuantities struct {
	b     ad.Value    // reciprocal formation volume factor
	mu    ad.Value    // viscosity
	rho   ad.Value    // density
	kr    ad.Value    // relative permeability
	mob   ad.Value    // mobility kr/mu
	head  ad.Value    // potential difference on faces
	mflux ad.Value    // upwinded flux on faces (surface volumes)
	accum [2]ad.Value // surface volumes at the beginning (0) and end (1) of the step
}

// wellQuantities holds the quantities used by the well equations
type wellQuantities struct {

	// regular wells
	cdp      []float64 // [nperf] pressure differences between bhp and perforations
	perfDens []float64 // [nperf] connection densities

	// multi-segment wells
	cellDens      []float64   // [nperf] kr-weighted density of perforated cells
	cellPressDiff []float64   // [nperf] hydrostatic pressure difference between cells and perforations
	segDens       ad.Value    // [nseg] density of mixtures in segments
	segMassRate   ad.Value    // [nseg] mass flow rates
	segVisc       ad.Value    // [nseg] viscosity of mixtures
	segPressDelta ad.Value    // [nseg] hydrostatic pressure difference between outlets and segments
	segPerfDiff   ad.Value    // [nperf] hydrostatic pressure difference between perforations and segments
	surfVolCur    []ad.Value  // [np][nseg] surface volume of components in segments divided by Δt
	surfVolIni    [][]float64 // [np][nseg] idem at the beginning of the step

	// perforated cells
	mobPerf []ad.Value // [np][nperf] mobilities
	bPerf   []ad.Value // [np][nperf] reciprocal formation volume factors
}

// Model implements the black-oil model with multi-segment wells
type Model struct {

	// input
	Grid   *grid.Grid      // grid
	Fluid  pvt.Fluid       // fluid properties
	Kr     relperm.Model   // relative permeabilities
	Pu     phases.Usage    // active phases
	Net    *wells.Network  // wells
	Prms   inp.ModelParams // parameters
	LinSol string          // name of the linear solver of the well equations
	Comm   comm.Comm       // collective operations
	Ops    *grid.Ops       // discrete operators
	Res    Residual        // residual equations of the last assembly
	Thres  []float64       // [nfaces] threshold pressures; nil => none

	// auxiliary
	dt      float64           // time step size
	nc      int               // number of cells
	np      int               // number of phases
	pvSum   float64           // sum of pore volumes over all processes
	zgrad   []float64         // [nfaces] ngrad・depth
	rq      []phaseQuantities // [np] phase quantities
	wq      wellQuantities    // well quantities
	groups  int               // number of variable groups
	cnvIter int               // number of calls to the convergence check in the current step
}

// New returns a new model. Wells must be initialised
func New(g *grid.Grid, fld pvt.Fluid, kr relperm.Model, pu phases.Usage, wls []*wells.Well, prms inp.ModelParams, cm comm.Comm) (o *Model, err error) {

	// check
	if err = g.Check(); err != nil {
		return
	}
	if !pu.Miscible() && (prms.DisGas || prms.VapOil) {
		return nil, chk.Err("dissolved gas and vaporised oil require both oil and gas phases")
	}
	for _, w := range wls {
		if len(w.CompFrac) != pu.Num {
			return nil, chk.Err("well %q must be initialised with %d phases", w.Name, pu.Num)
		}
		for _, perf := range w.Perfs {
			if perf.Cell < 0 || perf.Cell >= g.NumCells {
				return nil, chk.Err("well %q: perforated cell %d is out of range", w.Name, perf.Cell)
			}
		}
	}
	if cm == nil {
		cm = comm.Serial{}
	}
	if prms.MaxInnerIter < 1 {
		prms.MaxInnerIter = 15
	}

	// model
	o = &Model{Grid: g, Fluid: fld, Kr: kr, Pu: pu, Prms: prms, LinSol: "lu", Comm: cm}
	o.Net = wells.NewNetwork(wls, pu.Num)
	o.Ops = grid.NewOps(g)
	o.nc = g.NumCells
	o.np = pu.Num
	o.rq = make([]phaseQuantities, o.np)
	o.zgrad = o.Ops.Ngrad.MulVec(g.Depth)
	o.groups = 3
	if pu.Active(phases.Water) {
		o.groups++
	}
	if pu.Active(phases.Gas) {
		o.groups++
	}

	// total pore volume
	pv := []float64{0}
	for _, v := range g.PoreVolume {
		pv[0] += v
	}
	o.Comm.AllReduceSum(pv)
	o.pvSum = pv[0]

	// well quantities without multi-segment wells
	nseg, nperf := o.Net.Nseg, o.Net.Nperf
	o.wq.cdp = make([]float64, nperf)
	o.wq.perfDens = make([]float64, nperf)
	o.wq.cellDens = make([]float64, nperf)
	o.wq.cellPressDiff = make([]float64, nperf)
	o.wq.surfVolIni = make([][]float64, o.np)
	for ph := 0; ph < o.np; ph++ {
		o.wq.surfVolIni[ph] = make([]float64, nseg)
	}
	return
}

// SetThresholdPressures sets the threshold pressures of interior faces; flow across a face is
// suppressed unless the potential difference exceeds the threshold. nil disables thresholds
func (o *Model) SetThresholdPressures(thres []float64) {
	if thres != nil && len(thres) != o.Grid.NumFaces() {
		chk.Panic("%d threshold pressures are required. %d is incorrect", o.Grid.NumFaces(), len(thres))
	}
	o.Thres = thres
}

// PrepareStep sets the time step size; must be called before the first assembly of each step
func (o *Model) PrepareStep(dt float64, x *ReservoirState, xw *wells.State) {
	if dt <= 0 {
		chk.Panic("time step size must be positive. dt = %g", dt)
	}
	if x.NumCells() != o.nc || len(x.Sat) != o.np {
		chk.Panic("reservoir state with (nc,np) = (%d,%d) does not match model with (%d,%d)", x.NumCells(), len(x.Sat), o.nc, o.np)
	}
	if xw.NumSegments() != o.Net.Nseg || xw.NumPerfs() != o.Net.Nperf {
		chk.Panic("well state with (nseg,nperf) = (%d,%d) does not match network with (%d,%d)", xw.NumSegments(), xw.NumPerfs(), o.Net.Nseg, o.Net.Nperf)
	}
	o.dt = dt
	o.cnvIter = 0
	if o.Pu.Active(phases.Gas) {
		o.UpdatePrimalFromState(x)
	}
}

// NumPhases returns the number of active phases
func (o *Model) NumPhases() int { return o.np }

// NumVars returns the total number of unknowns
func (o *Model) NumVars() int {
	return (o.groups-2)*o.nc + o.Net.NumWellVars()
}

// Dt returns the current time step size
func (o *Model) Dt() float64 { return o.dt }

// wellsActive tells whether there are wells in this process
func (o *Model) wellsActive() bool { return o.Net.Nw > 0 }

// Assemble assembles the residual equations and their derivatives. The well controls are updated
// first. In the first assembly of a step, the accumulation terms of the beginning of the step are
// computed and, optionally, the well equations are solved with the reservoir unknowns frozen
func (o *Model) Assemble(x *ReservoirState, xw *wells.State, initial bool) (err error) {

	// possibly switch well controls and reset targets
	err = wells.UpdateControls(o.Net.Wells, xw, o.Prms.Verbose)
	if err != nil {
		return
	}
	return o.assemble(x, xw, initial)
}

// assemble assembles all equations with the current controls
func (o *Model) assemble(x *ReservoirState, xw *wells.State, initial bool) (err error) {

	// primary variables
	state := o.variableState(x, xw)

	// beginning of step
	if initial {
		state0 := state.MakeConstant()
		o.computeAccum(state0, 0)
		o.computeSegmentFluidProperties(state0)
		for ph := 0; ph < o.np; ph++ {
			o.wq.surfVolIni[ph] = append([]float64{}, o.wq.surfVolCur[ph].Val...)
		}
		o.computeWellConnectionPressures(state0, xw)
	}

	// mass balance equations
	o.assembleMassBalanceEq(state)

	// well equations
	if !o.wellsActive() {
		o.Res.WellFlux = ad.Zeros(0)
		o.Res.WellEq = ad.Zeros(0)
		return
	}
	o.computeSegmentFluidProperties(state)
	o.computeSegmentPressuresDelta(state)
	o.extractWellPerfProperties()
	if o.Prms.SolveWellEqInitially && initial {
		var converged bool
		converged, err = o.solveWellEq(o.wq.mobPerf, o.wq.bPerf, &state, xw)
		if err != nil {
			return
		}
		if !converged && o.Prms.Verbose {
			io.Pfyel("well equations did not converge in %d iterations\n", o.Prms.MaxInnerIter)
		}
	}
	cqs, alive := o.computeWellFlux(state, o.wq.mobPerf, o.wq.bPerf)
	o.updatePerfPhaseRatesAndPressures(cqs, state, xw)
	o.addWellFluxEq(cqs, state)
	o.addWellContributionToMassBalanceEq(cqs)
	o.addWellControlEq(state, xw, alive)
	return
}
