// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/hakonhagland/opm-simulators/ad"
)

// Norms holds the convergence measures of one Newton iteration
type Norms struct {
	MB          []float64 // [np] total mass balance errors
	CNV         []float64 // [np] maximum local (cell) mass balance errors
	WellFlux    []float64 // [np] maximum residual of segment fluxes
	WellControl float64   // maximum residual of control and segment pressure equations
}

// Converged tells whether all measures are below the given tolerances
func (o Norms) Converged(tolMb, tolCnv, tolWells, tolControl float64) bool {
	for ph := range o.MB {
		if o.MB[ph] >= tolMb || o.CNV[ph] >= tolCnv || o.WellFlux[ph] >= tolWells {
			return false
		}
	}
	return o.WellControl < tolControl
}

// Convergence evaluates the residuals of the last assembly
//   B_avg  = Σ(1/b) / nc
//   MB     = |B_avg・ΣR|・Δt / Σpv
//   CNV    = B_avg・Δt・max(|R|/pv)
//   W-FLUX = B_avg・max|R_well|
// All sums and maxima are taken over all processes. it is the Newton iteration number, used for
// printing the header of the table of residuals
func (o *Model) Convergence(it int) (converged bool, norms Norms, err error) {

	// sums and maxima of local cells
	np, nc := o.np, o.nc
	pv := o.Grid.PoreVolume
	sums := make([]float64, 2*np+1)
	maxs := make([]float64, np)
	for ph := 0; ph < np; ph++ {
		b := o.rq[ph].b.Val
		r := o.Res.MassBalance[ph].Val
		for c := 0; c < nc; c++ {
			sums[ph] += 1.0 / b[c]
			sums[np+ph] += r[c]
			maxs[ph] = utl.Max(maxs[ph], math.Abs(r[c])/pv[c])
		}
	}
	sums[2*np] = float64(nc)
	o.Comm.AllReduceSum(sums)
	o.Comm.AllReduceMax(maxs)

	// measures
	bavg := o.averageB(sums)
	norms.MB = make([]float64, np)
	norms.CNV = make([]float64, np)
	for ph := 0; ph < np; ph++ {
		norms.MB[ph] = math.Abs(bavg[ph]*sums[np+ph]) * o.dt / o.pvSum
		norms.CNV[ph] = bavg[ph] * o.dt * maxs[ph]
	}
	norms.WellFlux, norms.WellControl = o.wellNorms(bavg)

	// results
	err = o.checkNorms(norms)
	if err != nil {
		return
	}
	converged = norms.Converged(o.Prms.TolMb, o.Prms.TolCnv, o.Prms.TolWells, o.Prms.TolWellControl)
	if o.Prms.Verbose && o.Comm.Rank() == 0 {
		o.printNorms(it, norms)
	}
	o.cnvIter++
	return
}

// wellConvergence evaluates the residuals of the well equations only
func (o *Model) wellConvergence() (converged bool, err error) {
	np, nc := o.np, o.nc
	sums := make([]float64, 2*np+1)
	for ph := 0; ph < np; ph++ {
		for _, b := range o.rq[ph].b.Val {
			sums[ph] += 1.0 / b
		}
	}
	sums[2*np] = float64(nc)
	o.Comm.AllReduceSum(sums)
	var norms Norms
	norms.MB = make([]float64, np)
	norms.CNV = make([]float64, np)
	norms.WellFlux, norms.WellControl = o.wellNorms(o.averageB(sums))
	if err = o.checkNorms(norms); err != nil {
		return
	}
	return norms.Converged(1, 1, o.Prms.TolWells, o.Prms.TolWellControl), nil
}

// averageB returns the average of 1/b over all cells; sums = [Σ(1/b)..., ΣR..., nc]
func (o *Model) averageB(sums []float64) []float64 {
	bavg := make([]float64, o.np)
	ncg := sums[2*o.np]
	for ph := 0; ph < o.np; ph++ {
		if ncg > 0 {
			bavg[ph] = sums[ph] / ncg
		}
	}
	return bavg
}

// wellNorms returns the scaled maximum residual of segment fluxes of each phase and the maximum
// residual of the other well equations, over all processes
func (o *Model) wellNorms(bavg []float64) (flux []float64, control float64) {
	nseg := o.Net.Nseg
	maxs := make([]float64, o.np+1)
	for ph := 0; ph < o.np; ph++ {
		if nseg > 0 {
			maxs[ph] = bavg[ph] * ad.MaxAbs(o.Res.WellFlux.Val[ph*nseg:(ph+1)*nseg])
		}
	}
	maxs[o.np] = ad.MaxAbs(o.Res.WellEq.Val)
	o.Comm.AllReduceMax(maxs)
	return maxs[:o.np], maxs[o.np]
}

// checkNorms returns an error if a measure is not finite or too large
func (o *Model) checkNorms(norms Norms) error {
	maxres := o.Prms.MaxResidualAllowed
	for ph := 0; ph < o.np; ph++ {
		name := o.Pu.Name(ph)
		if math.IsNaN(norms.MB[ph]) || math.IsNaN(norms.CNV[ph]) || math.IsNaN(norms.WellFlux[ph]) {
			return fmt.Errorf("%w: NaN residual for phase %s", ErrNumerical, name)
		}
		if norms.MB[ph] > maxres || norms.CNV[ph] > maxres || norms.WellFlux[ph] > maxres {
			return fmt.Errorf("%w: too large residual for phase %s", ErrNumerical, name)
		}
	}
	if math.IsNaN(norms.WellControl) {
		return fmt.Errorf("%w: NaN residual of well equations", ErrNumerical)
	}
	if norms.WellControl > maxres {
		return fmt.Errorf("%w: too large residual of well equations", ErrNumerical)
	}
	return nil
}

// printNorms prints a row of the table of residuals
func (o *Model) printNorms(it int, norms Norms) {
	if it == 0 {
		io.Pf("%5s", "Iter")
		for _, key := range []string{"MB", "CNV", "W-FLUX"} {
			for ph := 0; ph < o.np; ph++ {
				io.Pf("%13s", io.Sf("%s(%s)", key, o.Pu.Name(ph)))
			}
		}
		io.Pf("%13s\n", "W-CTRL")
	}
	io.Pf("%5d", it)
	for _, vals := range [][]float64{norms.MB, norms.CNV, norms.WellFlux} {
		for _, v := range vals {
			io.Pf("%13.4e", v)
		}
	}
	io.Pf("%13.4e\n", norms.WellControl)
}
