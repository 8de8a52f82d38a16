// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/pvt"
	"github.com/hakonhagland/opm-simulators/relperm"
	"github.com/hakonhagland/opm-simulators/wells"
)

// variableState creates the primary variables from the current states
func (o *Model) variableState(x *ReservoirState, xw *wells.State) (s SolutionState) {

	// initial values
	pu := o.Pu
	vals := [][]float64{x.Pressure}
	if pu.Active(phases.Water) {
		vals = append(vals, x.Sat[pu.Pos[phases.Water]])
	}
	if pu.Active(phases.Gas) {
		xvar := make([]float64, o.nc)
		sg := x.Sat[pu.Pos[phases.Gas]]
		for c := 0; c < o.nc; c++ {
			switch x.Primal[c] {
			case PrimalRs:
				xvar[c] = x.Rs[c]
			case PrimalRv:
				xvar[c] = x.Rv[c]
			default:
				xvar[c] = sg[c]
			}
		}
		vals = append(vals, xvar)
	}
	vals = append(vals, xw.SegRatesPhaseMajor(), xw.SegPress)
	vars := ad.Variables(vals...)

	// pressure and temperature
	k := 0
	s.Pressure = vars[k]
	s.Temperature = ad.Constant(x.Temperature)
	k++

	// saturations
	s.Sat = make([]ad.Value, o.np)
	so := ad.Fill(o.nc, 1)
	if pu.Active(phases.Water) {
		sw := vars[k]
		k++
		s.Sat[pu.Pos[phases.Water]] = sw
		so = ad.Shift(ad.Neg(sw), 1)
	}
	s.Rs = ad.Constant(x.Rs)
	s.Rv = ad.Constant(x.Rv)
	if pu.Active(phases.Gas) {
		xvar := vars[k]
		k++
		isSg, isRs, isRv := o.primalSelectors(x)
		zero := ad.Zeros(o.nc)
		sg := isSg.Select(xvar, isRv.Select(so, zero))
		so = ad.Sub(so, sg)
		s.Sat[pu.Pos[phases.Gas]] = sg
		if o.Prms.DisGas {
			s.Rs = isRs.Select(xvar, o.Fluid.RsSat(s.Pressure))
		}
		if o.Prms.VapOil {
			s.Rv = isRv.Select(xvar, o.Fluid.RvSat(s.Pressure))
		}
	}
	s.Sat[pu.Pos[phases.Oil]] = so

	// wells
	s.SegQs = vars[k]
	s.SegP = vars[k+1]
	o.setWellValues(&s)
	return
}

// setWellValues sets the well rates and bhp from the top segments
func (o *Model) setWellValues(s *SolutionState) {
	nseg := o.Net.Nseg
	qs := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		qs[ph] = ad.MatMul(o.Net.TopSeg2W, ad.Subset(s.SegQs, ad.Span(nseg, 1, ph*nseg)))
	}
	s.Qs = ad.Vertcat(qs...)
	s.Bhp = ad.MatMul(o.Net.TopSeg2W, s.SegP)
}

// primalSelectors returns the selectors of cells using sg, rs and rv as primary variables
func (o *Model) primalSelectors(x *ReservoirState) (isSg, isRs, isRv *ad.Selector) {
	isSg = &ad.Selector{Chosen: make([]bool, o.nc)}
	isRs = &ad.Selector{Chosen: make([]bool, o.nc)}
	isRv = &ad.Selector{Chosen: make([]bool, o.nc)}
	for c, pv := range x.Primal {
		switch {
		case pv == PrimalRs && o.Prms.DisGas:
			isRs.Chosen[c] = true
		case pv == PrimalRv && o.Prms.VapOil:
			isRv.Chosen[c] = true
		default:
			isSg.Chosen[c] = true
		}
	}
	return
}

// computeFluidProperties computes b, μ, ρ, kr and mobilities of all phases
func (o *Model) computeFluidProperties(s SolutionState) {
	kr := relperm.Compute(o.Kr, o.Pu, s.Sat)
	for ph := 0; ph < o.np; ph++ {
		c := o.Pu.Canonical(ph)
		q := &o.rq[ph]
		q.b = pvt.B(o.Fluid, c, s.Pressure, s.Rs, s.Rv)
		q.mu = pvt.Mu(o.Fluid, c, s.Pressure, s.Rs, s.Rv)
		q.rho = pvt.Density(o.Fluid, o.Pu, c, q.b, s.Rs, s.Rv)
		q.kr = kr[ph]
		q.mob = ad.Div(q.kr, q.mu)
	}
}

// computeAccum computes the surface volumes in cells (with pore volumes)
//   water:  pv・bw・sw
//   oil:    pv・(bo・so + rv・bg・sg)
//   gas:    pv・(bg・sg + rs・bo・so)
func (o *Model) computeAccum(s SolutionState, aix int) {
	o.computeFluidProperties(s)
	pv := o.Grid.PoreVolume
	for ph := 0; ph < o.np; ph++ {
		o.rq[ph].accum[aix] = ad.MulV(ad.Mul(o.rq[ph].b, s.Sat[ph]), pv)
	}
	if o.Pu.Miscible() {
		po, pg := o.Pu.Pos[phases.Oil], o.Pu.Pos[phases.Gas]
		oil := ad.MulV(ad.Mul(o.rq[po].b, s.Sat[po]), pv)
		gas := ad.MulV(ad.Mul(o.rq[pg].b, s.Sat[pg]), pv)
		o.rq[po].accum[aix] = ad.Add(oil, ad.Mul(s.Rv, gas))
		o.rq[pg].accum[aix] = ad.Add(gas, ad.Mul(s.Rs, oil))
	}
}

// assembleMassBalanceEq computes
//   R = (accum[1] - accum[0]) / Δt + div(upwind(b・mob)・T・Δh)
// with oil and gas coupled through rs and rv
func (o *Model) assembleMassBalanceEq(s SolutionState) {
	o.computeAccum(s, 1)
	o.Res.MassBalance = make([]ad.Value, o.np)
	trans := o.Grid.Trans
	for ph := 0; ph < o.np; ph++ {
		q := &o.rq[ph]
		q.head = o.potentialDifference(s.Pressure, q.rho)
		up := o.Ops.NewUpwind(q.head.Val)
		q.mflux = ad.MulV(ad.Mul(up.Apply(ad.Mul(q.b, q.mob)), q.head), trans)
		acc := ad.Scale(1.0/o.dt, ad.Sub(q.accum[1], q.accum[0]))
		o.Res.MassBalance[ph] = ad.Add(acc, ad.MatMul(o.Ops.Div, q.mflux))
	}
	if o.Pu.Miscible() {
		po, pg := o.Pu.Pos[phases.Oil], o.Pu.Pos[phases.Gas]
		rsFace := o.Ops.NewUpwind(o.rq[po].head.Val).Apply(s.Rs)
		rvFace := o.Ops.NewUpwind(o.rq[pg].head.Val).Apply(s.Rv)
		o.Res.MassBalance[pg] = ad.Add(o.Res.MassBalance[pg], ad.MatMul(o.Ops.Div, ad.Mul(rsFace, o.rq[po].mflux)))
		o.Res.MassBalance[po] = ad.Add(o.Res.MassBalance[po], ad.MatMul(o.Ops.Div, ad.Mul(rvFace, o.rq[pg].mflux)))
	}
}

// potentialDifference returns Δh = ngrad・p - g・caver(ρ)・(ngrad・z) with threshold pressures applied
func (o *Model) potentialDifference(p, rho ad.Value) ad.Value {
	rhoAvg := ad.MatMul(o.Ops.Caver, rho)
	dh := ad.Sub(ad.MatMul(o.Ops.Ngrad, p), ad.Scale(o.Grid.Gravity, ad.MulV(rhoAvg, o.zgrad)))
	if o.Thres == nil {
		return dh
	}
	active, shift := thresholdShift(dh.Val, o.Thres)
	return ad.MulV(ad.AddV(dh, shift), active.Ones())
}

// thresholdShift returns the faces where |Δh| exceeds the threshold and the shifts -sign(Δh)・threshold
// such that the potential difference of active faces is Δh ∓ threshold; inactive faces carry no flow
func thresholdShift(dh, thres []float64) (active *ad.Selector, shift []float64) {
	excess := make([]float64, len(dh))
	shift = make([]float64, len(dh))
	for f, h := range dh {
		excess[f] = math.Abs(h) - thres[f]
		if thres[f] <= 0 {
			excess[f] = 1
			continue
		}
		if h < 0 {
			shift[f] = thres[f]
		} else {
			shift[f] = -thres[f]
		}
	}
	active = ad.NewSelector(excess, ad.GreaterZero)
	return
}

// extractWellPerfProperties extracts mobilities and formation volume factors of perforated cells
func (o *Model) extractWellPerfProperties() {
	o.wq.mobPerf = make([]ad.Value, o.np)
	o.wq.bPerf = make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		o.wq.mobPerf[ph] = ad.Subset(o.rq[ph].mob, o.Net.WellCells)
		o.wq.bPerf[ph] = ad.Subset(o.rq[ph].b, o.Net.WellCells)
	}
}

// addWellContributionToMassBalanceEq subtracts the perforation rates from the mass balance of
// the perforated cells
func (o *Model) addWellContributionToMassBalanceEq(cqs []ad.Value) {
	for ph := 0; ph < o.np; ph++ {
		o.Res.MassBalance[ph] = ad.Sub(o.Res.MassBalance[ph], ad.Superset(cqs[ph], o.Net.WellCells, o.nc))
	}
}
