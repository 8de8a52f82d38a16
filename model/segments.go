// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/pvt"
	"github.com/hakonhagland/opm-simulators/wells"
)

// computeSegmentFluidProperties computes the density, mass rate, viscosity and surface volumes of
// the mixtures flowing in segments. The mixture is given by the segment rates or, if the total
// rate is zero, by the nominal composition of the well
func (o *Model) computeSegmentFluidProperties(s SolutionState) {

	// no multi-segment wells
	nseg := o.Net.Nseg
	o.wq.surfVolCur = make([]ad.Value, o.np)
	if !o.Net.HasMultiSegment {
		o.wq.segDens = ad.Zeros(nseg)
		o.wq.segMassRate = ad.Zeros(nseg)
		o.wq.segVisc = ad.Zeros(nseg)
		for ph := 0; ph < o.np; ph++ {
			o.wq.surfVolCur[ph] = ad.Zeros(nseg)
		}
		return
	}

	// properties at segment pressures
	segp := s.SegP
	segRs := ad.Subset(s.Rs, o.Net.SegCells)
	segRv := ad.Subset(s.Rv, o.Net.SegCells)
	b := make([]ad.Value, o.np)
	mu := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		c := o.Pu.Canonical(ph)
		b[ph] = pvt.B(o.Fluid, c, segp, segRs, segRv)
		mu[ph] = pvt.Mu(o.Fluid, c, segp, segRs, segRv)
	}

	// mixture fractions
	qs := o.segmentPhaseRates(s.SegQs)
	tot := ad.Zeros(nseg)
	for ph := 0; ph < o.np; ph++ {
		tot = ad.Add(tot, qs[ph])
	}
	flowing := ad.NewSelector(tot.Val, ad.NotEqualZero)
	den := flowing.Select(tot, ad.Fill(nseg, 1))
	mix := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		mix[ph] = flowing.Select(ad.Div(qs[ph], den), ad.Constant(o.Net.SegCompFrac(ph)))
	}

	// reservoir phase fractions
	x := o.reservoirFractions(mix, segp)

	// volume ratio between reservoir and surface conditions
	volrat := ad.Zeros(nseg)
	for ph := 0; ph < o.np; ph++ {
		volrat = ad.Add(volrat, ad.Div(x[ph], b[ph]))
	}

	// results
	ρs := o.Fluid.SurfaceDensity()
	dens := ad.Zeros(nseg)
	o.wq.segMassRate = ad.Zeros(nseg)
	o.wq.segVisc = ad.Zeros(nseg)
	volDt := make([]float64, nseg)
	for i, v := range o.Net.SegVolume {
		volDt[i] = v / o.dt
	}
	for ph := 0; ph < o.np; ph++ {
		c := o.Pu.Canonical(ph)
		dens = ad.Add(dens, ad.Scale(ρs[c], mix[ph]))
		o.wq.segMassRate = ad.Add(o.wq.segMassRate, ad.Scale(ρs[c], qs[ph]))
		o.wq.segVisc = ad.Add(o.wq.segVisc, ad.Mul(x[ph], mu[ph]))
		o.wq.surfVolCur[ph] = ad.MulV(ad.Div(mix[ph], volrat), volDt)
	}
	o.wq.segDens = ad.Div(dens, volrat)
}

// reservoirFractions returns the reservoir volume fractions of a surface mixture. Without both oil
// and gas the fractions equal the mixture. Otherwise, gas dissolved in oil and oil vaporised in gas
// are removed using rs and rv limited by their saturated values
func (o *Model) reservoirFractions(mix []ad.Value, p ad.Value) (x []ad.Value) {
	x = append([]ad.Value{}, mix...)
	if !o.Pu.Miscible() {
		return
	}
	n := p.Size()
	po, pg := o.Pu.Pos[phases.Oil], o.Pu.Pos[phases.Gas]
	rs, rv := ad.Zeros(n), ad.Zeros(n)
	if o.Prms.DisGas {
		rs = limitedRatio(mix[pg], mix[po], o.Fluid.RsSat(p))
	}
	if o.Prms.VapOil {
		rv = limitedRatio(mix[po], mix[pg], o.Fluid.RvSat(p))
	}
	d := ad.Shift(ad.Neg(ad.Mul(rs, rv)), 1)
	x[pg] = ad.Div(ad.Sub(mix[pg], ad.Mul(mix[po], rs)), d)
	x[po] = ad.Div(ad.Sub(mix[po], ad.Mul(mix[pg], rv)), d)
	return
}

// limitedRatio returns min(num/den, sat) where den > 0 and zero elsewhere
func limitedRatio(num, den, sat ad.Value) ad.Value {
	n := den.Size()
	positive := ad.NewSelector(den.Val, ad.GreaterZero)
	ratio := ad.Div(num, positive.Select(den, ad.Fill(n, 1)))
	below := ad.NewSelector(ad.Sub(ratio, sat).Val, ad.LessZero)
	return positive.Select(below.Select(ratio, sat), ad.Zeros(n))
}

// computeSegmentPressuresDelta computes the hydrostatic pressure differences between segments and
// their outlets and between segments and their perforations
//   segPressDelta = g・ρseg・(z_outlet - z_seg)
//   segPerfDiff   = g・ρseg・(z_perf - z_seg)
func (o *Model) computeSegmentPressuresDelta(s SolutionState) {
	if !o.Net.HasMultiSegment {
		o.wq.segPressDelta = ad.Zeros(o.Net.Nseg)
		o.wq.segPerfDiff = ad.Zeros(o.Net.Nperf)
		return
	}
	g := o.Grid.Gravity
	o.wq.segPressDelta = ad.Scale(g, ad.MulV(o.wq.segDens, o.Net.SegDepthDelta))
	o.wq.segPerfDiff = ad.Scale(-g, ad.MulV(ad.MatMul(o.Net.S2P, o.wq.segDens), o.Net.SegPerfDepthDiff))
}

// computeWellConnectionPressures computes the connection densities and pressure differences of
// regular wells from the rates of the beginning of the step and, with multi-segment wells, the
// hydrostatic pressure differences between cell centres and perforations
func (o *Model) computeWellConnectionPressures(s0 SolutionState, xw *wells.State) {
	nperf := o.Net.Nperf
	if nperf == 0 {
		return
	}

	// average pressures between perforations
	pcell := s0.Pressure.Val
	pavg := make([]float64, nperf)
	for w, well := range o.Net.Wells {
		p0 := o.Net.StartPerf[w]
		for i := range well.Perfs {
			perf := p0 + i
			above := xw.SegPress[o.Net.StartSeg[w]]
			if i > 0 {
				above = xw.PerfPress[perf-1]
			}
			pavg[perf] = (pcell[o.Net.WellCells[perf]] + above) / 2
		}
	}

	// properties at average pressures
	p := ad.Constant(pavg)
	rs := ad.Subset(s0.Rs, o.Net.WellCells)
	rv := ad.Subset(s0.Rv, o.Net.WellCells)
	b := make([][]float64, o.np)
	for ph := 0; ph < o.np; ph++ {
		b[ph] = pvt.B(o.Fluid, o.Pu.Canonical(ph), p, rs, rv).Val
	}
	rsmax := make([]float64, nperf)
	rvmax := make([]float64, nperf)
	if o.Pu.Miscible() && o.Prms.DisGas {
		rsmax = o.Fluid.RsSat(p).Val
	}
	if o.Pu.Miscible() && o.Prms.VapOil {
		rvmax = o.Fluid.RvSat(p).Val
	}

	// connection densities and pressure differences
	o.connectionDensities(xw.PerfPhaseRates, b, rsmax, rvmax)
	o.connectionPressureDelta()

	// cell to perforation differences
	for i := range o.wq.cellPressDiff {
		o.wq.cellDens[i] = 0
		o.wq.cellPressDiff[i] = 0
	}
	if !o.Net.HasMultiSegment {
		return
	}
	g := o.Grid.Gravity
	for perf, cell := range o.Net.WellCells {
		var krSum, krRho, rhoSum float64
		for ph := 0; ph < o.np; ph++ {
			kr := o.rq[ph].kr.Val[cell]
			rho := o.rq[ph].rho.Val[cell]
			krSum += kr
			krRho += kr * rho
			rhoSum += rho
		}
		if krSum > 0 {
			o.wq.cellDens[perf] = krRho / krSum
		} else {
			o.wq.cellDens[perf] = rhoSum / float64(o.np)
		}
		dz := o.Net.PerfDepth[perf] - o.Grid.Depth[cell]
		o.wq.cellPressDiff[perf] = o.Net.MultiSegPerf[perf] * g * o.wq.cellDens[perf] * dz
	}
}

// connectionDensities computes the density of the mixture flowing through each perforation. The
// flow out of a perforation towards the top is the sum of the inflows of all perforations below it
func (o *Model) connectionDensities(perfRates []float64, b [][]float64, rsmax, rvmax []float64) {
	np := o.np
	bperf := make([]float64, np)
	mix := make([]float64, np)
	for w, well := range o.Net.Wells {
		p0, n := o.Net.StartPerf[w], len(well.Perfs)
		qout := make([]float64, n*np)
		for i := n - 1; i >= 0; i-- {
			for ph := 0; ph < np; ph++ {
				below := 0.0
				if i < n-1 {
					below = qout[(i+1)*np+ph]
				}
				qout[i*np+ph] = below - perfRates[(p0+i)*np+ph]
			}
		}
		for i := 0; i < n; i++ {
			perf := p0 + i
			tot := 0.0
			for ph := 0; ph < np; ph++ {
				tot += qout[i*np+ph]
			}
			for ph := 0; ph < np; ph++ {
				if tot != 0 {
					mix[ph] = qout[i*np+ph] / tot
				} else {
					mix[ph] = well.CompFrac[ph]
				}
				bperf[ph] = b[ph][perf]
			}
			o.wq.perfDens[perf] = o.mixtureDensity(mix, bperf, rsmax[perf], rvmax[perf])
		}
	}
}

// mixtureDensity returns the reservoir density of a mixture given by surface volume fractions
func (o *Model) mixtureDensity(mix, b []float64, rsmax, rvmax float64) float64 {
	x := append([]float64{}, mix...)
	if o.Pu.Miscible() {
		po, pg := o.Pu.Pos[phases.Oil], o.Pu.Pos[phases.Gas]
		var rs, rv float64
		if mix[po] > 0 {
			rs = math.Min(mix[pg]/mix[po], rsmax)
		}
		if mix[pg] > 0 {
			rv = math.Min(mix[po]/mix[pg], rvmax)
		}
		d := 1 - rs*rv
		if rs != 0 {
			x[pg] = (mix[pg] - mix[po]*rs) / d
		}
		if rv != 0 {
			x[po] = (mix[po] - mix[pg]*rv) / d
		}
	}
	ρs := o.Fluid.SurfaceDensity()
	var volrat, mass float64
	for ph := range mix {
		volrat += x[ph] / b[ph]
		mass += ρs[o.Pu.Canonical(ph)] * mix[ph]
	}
	if volrat == 0 {
		return 0
	}
	return mass / volrat
}

// connectionPressureDelta computes the pressure differences between the bhp reference (top segment)
// and the perforations of regular wells by integrating the connection densities downwards
func (o *Model) connectionPressureDelta() {
	g := o.Grid.Gravity
	for w, well := range o.Net.Wells {
		p0 := o.Net.StartPerf[w]
		sum := 0.0
		for i := range well.Perfs {
			perf := p0 + i
			zabove := o.Net.SegDepth[o.Net.StartSeg[w]]
			if i > 0 {
				zabove = o.Net.PerfDepth[perf-1]
			}
			sum += g * o.wq.perfDens[perf] * (o.Net.PerfDepth[perf] - zabove)
			o.wq.cdp[perf] = sum
		}
	}
}

// segmentPhaseRates splits phase-major segment rates into one value per phase
func (o *Model) segmentPhaseRates(segqs ad.Value) []ad.Value {
	nseg := o.Net.Nseg
	qs := make([]ad.Value, o.np)
	for ph := 0; ph < o.np; ph++ {
		qs[ph] = ad.Subset(segqs, ad.Span(nseg, 1, ph*nseg))
	}
	return qs
}
