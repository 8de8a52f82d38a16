// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/wells"
)

// epsilon is the tolerance of phase appearance/disappearance (√machine epsilon)
var epsilon = math.Sqrt(2.220446049250313e-16)

// UpdateState applies the Newton increment dx (x_new = x - dx) to the reservoir and well states.
// Changes of pressure, saturations and rs/rv are limited by DpMaxRel, DsMax and DrMaxRel. In
// three-phase systems, the primal variables of cells are switched according to the appearance or
// disappearance of phases
func (o *Model) UpdateState(dx []float64, x *ReservoirState, xw *wells.State) {

	// split increments
	nc, np, nseg := o.nc, o.np, o.Net.Nseg
	if len(dx) != o.NumVars() {
		chk.Panic("increment must have %d values. %d is incorrect", o.NumVars(), len(dx))
	}
	pu := o.Pu
	k := 0
	next := func(n int) []float64 {
		v := dx[k : k+n]
		k += n
		return v
	}
	dp := next(nc)
	dsw := make([]float64, nc)
	dxvar := make([]float64, nc)
	if pu.Active(phases.Water) {
		dsw = next(nc)
	}
	if pu.Active(phases.Gas) {
		dxvar = next(nc)
	}
	dsegqs := next(np * nseg)
	dsegp := next(nseg)

	// old values
	pold := append([]float64{}, x.Pressure...)
	rsold := append([]float64{}, x.Rs...)
	rvold := append([]float64{}, x.Rv...)
	isSg, isRs, isRv := o.primalSelectors(x)

	// pressure
	for c := 0; c < nc; c++ {
		x.Pressure[c] -= limited(dp[c], math.Abs(pold[c])*o.Prms.DpMaxRel)
	}

	// saturations
	sw, so, sg := o.saturations(x)
	for c := 0; c < nc; c++ {
		dsg := 0.0
		switch {
		case isSg.Chosen[c]:
			dsg = dxvar[c]
		case isRv.Chosen[c]:
			dsg = -dsw[c]
		}
		dso := -dsw[c] - dsg
		maxds := utl.Max(math.Abs(dsw[c]), utl.Max(math.Abs(dso), math.Abs(dsg)))
		step := 1.0
		if maxds > o.Prms.DsMax {
			step = o.Prms.DsMax / maxds
		}
		sw[c] -= step * dsw[c]
		so[c] -= step * dso
		sg[c] -= step * dsg
	}

	// dissolved gas and vaporised oil
	if o.Prms.DisGas {
		for c := 0; c < nc; c++ {
			if isRs.Chosen[c] {
				drs := limited(dxvar[c], utl.Max(math.Abs(rsold[c])*o.Prms.DrMaxRel, 1))
				x.Rs[c] = utl.Max(rsold[c]-drs, 0)
			}
		}
	}
	if o.Prms.VapOil {
		for c := 0; c < nc; c++ {
			if isRv.Chosen[c] {
				drv := limited(dxvar[c], utl.Max(math.Abs(rvold[c])*o.Prms.DrMaxRel, 1))
				x.Rv[c] = utl.Max(rvold[c]-drv, 0)
			}
		}
	}

	// phase transitions
	if pu.Miscible() && (o.Prms.DisGas || o.Prms.VapOil) {
		p, p0 := ad.Constant(x.Pressure), ad.Constant(pold)
		for c := 0; c < nc; c++ {
			x.Primal[c] = PrimalSg
		}
		if o.Prms.DisGas {
			rsSat, rsSat0 := o.Fluid.RsSat(p).Val, o.Fluid.RsSat(p0).Val
			for c := 0; c < nc; c++ {
				watOnly := sw[c] > 1-epsilon
				hasGas := sg[c] > 0 && !isRs.Chosen[c]
				vaporised := x.Rs[c] > rsSat[c]*(1+epsilon) && isRs.Chosen[c] && rsold[c] > rsSat0[c]*(1-epsilon)
				if watOnly || hasGas || vaporised {
					x.Rs[c] = rsSat[c]
				} else {
					x.Primal[c] = PrimalRs
				}
			}
		}
		if o.Prms.VapOil {
			rvSat, rvSat0 := o.Fluid.RvSat(p).Val, o.Fluid.RvSat(p0).Val
			for c := 0; c < nc; c++ {
				if x.Primal[c] == PrimalRs {
					continue
				}
				watOnly := sw[c] > 1-epsilon
				hasOil := so[c] > 0 && !isRv.Chosen[c]
				condensed := x.Rv[c] > rvSat[c]*(1+epsilon) && isRv.Chosen[c] && rvold[c] > rvSat0[c]*(1-epsilon)
				if watOnly || hasOil || condensed {
					x.Rv[c] = rvSat[c]
				} else {
					x.Primal[c] = PrimalRv
				}
			}
		}
	}

	// clamp saturations; oil takes the remainder
	for c := 0; c < nc; c++ {
		sw[c] = math.Min(math.Max(sw[c], 0), 1)
		switch x.Primal[c] {
		case PrimalRs:
			sg[c] = 0
		case PrimalRv:
			sg[c] = 1 - sw[c]
		default:
			sg[c] = math.Min(math.Max(sg[c], 0), 1-sw[c])
		}
		if !pu.Active(phases.Gas) {
			sg[c] = 0
		}
		so[c] = 1 - sw[c] - sg[c]
	}
	o.setSaturations(x, sw, so, sg)

	// wells
	xw.ApplyUpdate(dsegqs, dsegp, o.Prms.DpMaxRel)
}

// UpdatePrimalFromState selects the primal variable of each cell from its saturations: rs where
// there is no free gas, rv where there is no oil, and sg otherwise
func (o *Model) UpdatePrimalFromState(x *ReservoirState) {
	sw, so, sg := o.saturations(x)
	for c := 0; c < o.nc; c++ {
		x.Primal[c] = PrimalSg
		if !o.Pu.Miscible() || sw[c] > 1-epsilon {
			continue
		}
		switch {
		case o.Prms.DisGas && sg[c] <= 0 && so[c] > 0:
			x.Primal[c] = PrimalRs
		case o.Prms.VapOil && so[c] <= 0 && sg[c] > 0:
			x.Primal[c] = PrimalRv
		}
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// saturations returns copies of sw, so and sg; inactive phases are zero
func (o *Model) saturations(x *ReservoirState) (sw, so, sg []float64) {
	get := func(canonical int) []float64 {
		if !o.Pu.Active(canonical) {
			return make([]float64, o.nc)
		}
		return append([]float64{}, x.Sat[o.Pu.Pos[canonical]]...)
	}
	return get(phases.Water), get(phases.Oil), get(phases.Gas)
}

// setSaturations copies sw, so and sg into the state
func (o *Model) setSaturations(x *ReservoirState, sw, so, sg []float64) {
	for canonical, s := range [][]float64{sw, so, sg} {
		if o.Pu.Active(canonical) {
			copy(x.Sat[o.Pu.Pos[canonical]], s)
		}
	}
}

// limited returns sign(d)・min(|d|, dmax)
func limited(d, dmax float64) float64 {
	v := math.Min(math.Abs(d), dmax)
	if d < 0 {
		return -v
	}
	return v
}
