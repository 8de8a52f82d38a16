// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pvt implements black-oil fluid property models
//
//  All properties are evaluated on AD values so that derivatives with respect to pressure and
//  dissolution ratios propagate into the residual equations. Formation volume factors are given as
//  reciprocals (b = 1/B), i.e. the ratio between reservoir and surface densities.
package pvt

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
)

// Fluid defines black-oil property models
type Fluid interface {
	Init(prms dbf.Params) error                   // Init initialises this structure
	GetPrms(example bool) dbf.Params              // gets (an example) of parameters
	SurfaceDensity() [phases.MaxNumPhases]float64 // densities at surface conditions; canonical order
	BWat(p ad.Value) ad.Value                     // reciprocal formation volume factor of water
	BOil(p, rs ad.Value) ad.Value                 // reciprocal formation volume factor of oil
	BGas(p, rv ad.Value) ad.Value                 // reciprocal formation volume factor of gas
	MuWat(p ad.Value) ad.Value                    // water viscosity
	MuOil(p, rs ad.Value) ad.Value                // oil viscosity
	MuGas(p, rv ad.Value) ad.Value                // gas viscosity
	RsSat(p ad.Value) ad.Value                    // saturated gas-oil ratio
	RvSat(p ad.Value) ad.Value                    // saturated oil-gas ratio
}

// New returns a new fluid model
func New(name string) (model Fluid, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'pvt' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Fluid{}

// B returns the reciprocal formation volume factor of the canonical phase
func B(fld Fluid, canonical int, p, rs, rv ad.Value) ad.Value {
	switch canonical {
	case phases.Water:
		return fld.BWat(p)
	case phases.Oil:
		return fld.BOil(p, rs)
	case phases.Gas:
		return fld.BGas(p, rv)
	}
	chk.Panic("pvt: canonical phase %d is invalid", canonical)
	return ad.Value{}
}

// Mu returns the viscosity of the canonical phase
func Mu(fld Fluid, canonical int, p, rs, rv ad.Value) ad.Value {
	switch canonical {
	case phases.Water:
		return fld.MuWat(p)
	case phases.Oil:
		return fld.MuOil(p, rs)
	case phases.Gas:
		return fld.MuGas(p, rv)
	}
	chk.Panic("pvt: canonical phase %d is invalid", canonical)
	return ad.Value{}
}

// Density returns the reservoir density of the canonical phase:
//   ρw = bw・ρsw
//   ρo = bo・(ρso + rs・ρsg)
//   ρg = bg・(ρsg + rv・ρso)
// rs and rv are only used if oil and gas are both active
func Density(fld Fluid, pu phases.Usage, canonical int, b, rs, rv ad.Value) ad.Value {
	ρs := fld.SurfaceDensity()
	n := b.Size()
	ρ := ad.Fill(n, ρs[canonical])
	if pu.Miscible() {
		switch canonical {
		case phases.Oil:
			ρ = ad.Add(ρ, ad.Scale(ρs[phases.Gas], rs))
		case phases.Gas:
			ρ = ad.Add(ρ, ad.Scale(ρs[phases.Oil], rv))
		}
	}
	return ad.Mul(b, ρ)
}

// exponential returns c0・exp(c1・(x - xref)) and its derivative as functions
func exponential(c0, c1, xref float64) (f, df func(x float64) float64) {
	f = func(x float64) float64 { return c0 * math.Exp(c1*(x-xref)) }
	df = func(x float64) float64 { return c0 * c1 * math.Exp(c1*(x-xref)) }
	return
}
