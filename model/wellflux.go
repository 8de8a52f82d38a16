// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/cpmech/gosl/chk"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/wells"
)

// computeWellFlux computes the surface rates through perforations for given mobilities and
// reciprocal formation volume factors of the perforated cells
//   drawdown = p_cell + Δp_cell→perf - (p_seg + Δp_seg→perf)
//   producing connections (drawdown >= 0):  cq_p = -T・mob_p・drawdown
//   injecting connections (drawdown < 0):   cq_t = -T・Σmob・drawdown with the well bore mixture
// Production rates are negative. It also returns the alive flag of each well (0 if the total
// inflow of the well, summed over its segments, is zero)
func (o *Model) computeWellFlux(s SolutionState, mob, b []ad.Value) (cqs []ad.Value, alive []float64) {

	// auxiliary
	net := o.Net
	nperf, nseg := net.Nperf, net.Nseg
	nb := s.SegP.NumBlocks()

	// pressure drawdown
	pcell := ad.Subset(s.Pressure, net.WellCells)
	pseg := ad.MatMul(net.S2P, s.SegP)
	hnc := o.perfHead(nb)
	drawdown := ad.Sub(ad.AddV(pcell, o.wq.cellPressDiff), ad.Add(pseg, hnc))

	// selectors
	injecting := ad.NewSelector(drawdown.Val, ad.LessZero)
	zero := ad.Zeros(nperf)
	trans := ad.Constant(net.ConnTrans)
	tprod := injecting.Select(zero, trans)
	tinj := injecting.Select(trans, zero)

	// producing connections
	rs := ad.Subset(s.Rs, net.WellCells)
	rv := ad.Subset(s.Rv, net.WellCells)
	cqps := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		cqp := ad.Neg(ad.Mul(tprod, ad.Mul(mob[ph], drawdown)))
		cqps[ph] = ad.Mul(b[ph], cqp)
	}
	if o.Pu.Miscible() {
		po, pg := o.Pu.Pos[phases.Oil], o.Pu.Pos[phases.Gas]
		oil, gas := cqps[po], cqps[pg]
		cqps[pg] = ad.Add(gas, ad.Mul(rs, oil))
		cqps[po] = ad.Add(oil, ad.Mul(rv, gas))
	}

	// injecting connections: total volume rates
	totmob := mob[0]
	for ph := 1; ph < o.np; ph++ {
		totmob = ad.Add(totmob, mob[ph])
	}
	cqti := ad.Neg(ad.Mul(tinj, ad.Mul(totmob, drawdown)))

	// well bore mixture per segment: injected rates minus reservoir inflow
	qs := o.segmentPhaseRates(s.SegQs)
	wbq := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		inj := ad.NewSelector(qs[ph].Val, ad.GreaterZero)
		wbq[ph] = ad.Sub(ad.MulV(inj.Select(qs[ph], ad.Zeros(nseg)), net.SegCompFrac(ph)), ad.MatMul(net.P2S, cqps[ph]))
	}

	// well totals; dead wells have zero total inflow
	// the mixture is normalised by the sums over all segments of a well, not by the top segment
	s2w := net.W2S.Transpose()
	wbqw := make([]ad.Value, o.np)
	wbqtw := ad.Zeros(net.Nw)
	for ph := 0; ph < o.np; ph++ {
		wbqw[ph] = ad.MatMul(s2w, wbq[ph])
		wbqtw = ad.Add(wbqtw, wbqw[ph])
	}
	alive = make([]float64, net.Nw)
	for w, v := range wbqtw.Val {
		if v != 0 {
			alive[w] = 1
		}
	}
	isAlive := ad.NewSelector(alive, ad.NotEqualZero)

	// mixture at surface conditions
	den := isAlive.Select(wbqtw, ad.Fill(net.Nw, 1))
	cmix := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		frac := ad.Div(wbqw[ph], den)
		cmix[ph] = ad.MatMul(net.W2P, isAlive.Select(frac, ad.Constant(net.CompFrac(ph))))
	}

	// volume ratio between connections and surface
	volrat := ad.Zeros(nperf)
	d := ad.Shift(ad.Neg(ad.Mul(rv, rs)), 1)
	for ph := 0; ph < o.np; ph++ {
		tmp := cmix[ph]
		switch o.Pu.Canonical(ph) {
		case phases.Oil:
			if o.Pu.Active(phases.Gas) {
				tmp = ad.Sub(tmp, ad.Div(ad.Mul(rv, cmix[o.Pu.Pos[phases.Gas]]), d))
			}
		case phases.Gas:
			if o.Pu.Active(phases.Oil) {
				tmp = ad.Sub(tmp, ad.Div(ad.Mul(rs, cmix[o.Pu.Pos[phases.Oil]]), d))
			}
		}
		volrat = ad.Add(volrat, ad.Div(tmp, b[ph]))
	}
	nonzero := ad.NewSelector(volrat.Val, ad.NotEqualZero)
	cqtis := ad.Div(cqti, nonzero.Select(volrat, ad.Fill(nperf, 1)))

	// surface rates of connections
	cqs = make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		cqs[ph] = ad.Add(cqps[ph], ad.Mul(cmix[ph], cqtis))
	}
	return
}

// perfHead returns the pressure differences between segments and perforations: the hydrostatic
// difference along multi-segment wells and the connection pressure differences of regular wells
func (o *Model) perfHead(nb int) ad.Value {
	reg := make([]float64, o.Net.Nperf)
	for i, ms := range o.Net.MultiSegPerf {
		reg[i] = (1 - ms) * o.wq.cdp[i]
	}
	ms := ad.MulV(keepBlocks(o.wq.segPerfDiff, nb), o.Net.MultiSegPerf)
	return ad.AddV(ms, reg)
}

// updatePerfPhaseRatesAndPressures stores the connection rates and pressures in the well state
func (o *Model) updatePerfPhaseRatesAndPressures(cqs []ad.Value, s SolutionState, xw *wells.State) {
	for perf := 0; perf < o.Net.Nperf; perf++ {
		for ph := 0; ph < o.np; ph++ {
			xw.PerfPhaseRates[perf*o.np+ph] = cqs[ph].Val[perf]
		}
	}
	pseg := o.Net.S2P.MulVec(s.SegP.Val)
	hnc := o.perfHead(0)
	for perf := range xw.PerfPress {
		xw.PerfPress[perf] = pseg[perf] + hnc.Val[perf]
	}
}

// addWellFluxEq computes the flux balance of each segment
//   segqs - (Σ_perf cq_s + Σ_inlets segqs + (surfVol - surfVol0)/Δt) = 0
func (o *Model) addWellFluxEq(cqs []ad.Value, s SolutionState) {
	nb := s.SegQs.NumBlocks()
	qs := o.segmentPhaseRates(s.SegQs)
	inflow := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		inflow[ph] = ad.MatMul(o.Net.P2S, cqs[ph])
		if o.Net.HasMultiSegment {
			storage := ad.Sub(keepBlocks(o.wq.surfVolCur[ph], nb), ad.Constant(o.wq.surfVolIni[ph]))
			inflow[ph] = ad.Add(ad.Add(inflow[ph], ad.MatMul(o.Net.S2SInlets, qs[ph])), storage)
		}
	}
	o.Res.WellFlux = ad.Sub(s.SegQs, ad.Vertcat(inflow...))
}

// addWellControlEq computes the equations of the top segments (well controls) and the pressure
// relations between the other segments and their outlets
//   top:    bhp - target  or  Σ distr_p・q_p - target  or  Σ q_p (dead wells)
//   others: p_seg - p_outlet + g・ρseg・(z_outlet - z_seg)
func (o *Model) addWellControlEq(s SolutionState, xw *wells.State, alive []float64) {

	// coefficients of top segment equations
	net := o.Net
	nw := net.Nw
	cbhp := make([]float64, nw)
	crate := make([][]float64, o.np)
	for ph := 0; ph < o.np; ph++ {
		crate[ph] = make([]float64, nw)
	}
	target := make([]float64, nw)
	for w, well := range net.Wells {
		ctrl := well.Controls[xw.CurrentControls[w]]
		if alive[w] == 0 {
			for ph := 0; ph < o.np; ph++ {
				crate[ph][w] = 1
			}
			continue
		}
		switch ctrl.Type {
		case wells.BHP:
			cbhp[w] = 1
		case wells.SurfaceRate, wells.ReservoirRate:
			for ph := 0; ph < o.np; ph++ {
				crate[ph][w] = ctrl.Distr[ph]
			}
		default:
			chk.Panic("well %q: control %v is not available", well.Name, ctrl.Type)
		}
		target[w] = ctrl.Target
	}

	// top segments
	qs := o.segmentPhaseRates(s.SegQs)
	topEq := ad.MulV(ad.MatMul(net.TopSeg2W, s.SegP), cbhp)
	for ph := 0; ph < o.np; ph++ {
		topEq = ad.Add(topEq, ad.MulV(ad.MatMul(net.TopSeg2W, qs[ph]), crate[ph]))
	}
	topEq = ad.AddV(topEq, negated(target))

	// other segments
	others := ad.Sub(s.SegP, ad.MatMul(net.S2SOutlet, s.SegP))
	if net.HasMultiSegment {
		others = ad.Add(others, keepBlocks(o.wq.segPressDelta, s.SegP.NumBlocks()))
	}
	others = ad.MatMul(net.EliminateTopSeg, others)

	o.Res.WellEq = ad.Add(ad.MatMul(net.TopSeg2W.Transpose(), topEq), others)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// keepBlocks drops the leading derivative blocks of v such that it has nb blocks. Quantities
// computed with all unknowns are used this way by the well solver, whose unknowns are only the
// (trailing) well groups. nb == 0 returns a constant
func keepBlocks(v ad.Value, nb int) ad.Value {
	if nb == 0 {
		return v.Const()
	}
	if v.IsConstant() || v.NumBlocks() == nb {
		return v
	}
	return ad.KeepLast(v, nb)
}

// negated returns -v
func negated(v []float64) []float64 {
	r := make([]float64, len(v))
	for i, x := range v {
		r[i] = -x
	}
	return r
}
