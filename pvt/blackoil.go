// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
)

// BlackOil implements an analytical black-oil model
//   bw(p)     = bw0・exp(cw・(p - pref))
//   bo(p,rs)  = bo0・exp(co・(p - pref)) / (1 + crs・rs)
//   bg(p,rv)  = bg0・exp(cg・(p - pref)) / (1 + crv・rv)
//   μo(p,rs)  = muo・(1 + cmurs・rs)
//   rsSat(p)  = rsp・p
//   rvSat(p)  = rvp・p
type BlackOil struct {

	// surface densities
	RhoW, RhoO, RhoG float64

	// formation volume factors
	Pref          float64 // reference pressure
	Bw0, Bo0, Bg0 float64 // reciprocal formation volume factors at pref
	Cw, Co, Cg    float64 // compressibilities
	Crs, Crv      float64 // swelling coefficients

	// viscosities
	MuW, MuO, MuG float64 // viscosities at pref
	CmuRs         float64 // oil viscosity increase per unit rs

	// saturated ratios
	Rsp, Rvp float64 // slopes of rsSat(p) and rvSat(p)
}

// add model to factory
func init() {
	allocators["blackoil"] = func() Fluid { return new(BlackOil) }
}

// Init initialises this structure
func (o *BlackOil) Init(prms dbf.Params) (err error) {
	o.RhoW, o.RhoO, o.RhoG = 1000, 800, 1
	o.Bw0, o.Bo0, o.Bg0 = 1, 1, 1
	o.MuW, o.MuO, o.MuG = 1e-3, 1e-3, 1e-5
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "rhow":
			o.RhoW = p.V
		case "rhoo":
			o.RhoO = p.V
		case "rhog":
			o.RhoG = p.V
		case "pref":
			o.Pref = p.V
		case "bw0":
			o.Bw0 = p.V
		case "bo0":
			o.Bo0 = p.V
		case "bg0":
			o.Bg0 = p.V
		case "cw":
			o.Cw = p.V
		case "co":
			o.Co = p.V
		case "cg":
			o.Cg = p.V
		case "crs":
			o.Crs = p.V
		case "crv":
			o.Crv = p.V
		case "muw":
			o.MuW = p.V
		case "muo":
			o.MuO = p.V
		case "mug":
			o.MuG = p.V
		case "cmurs":
			o.CmuRs = p.V
		case "rsp":
			o.Rsp = p.V
		case "rvp":
			o.Rvp = p.V
		default:
			return chk.Err("blackoil: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Bw0 <= 0 || o.Bo0 <= 0 || o.Bg0 <= 0 {
		return chk.Err("blackoil: formation volume factors must be positive. bw0=%g bo0=%g bg0=%g\n", o.Bw0, o.Bo0, o.Bg0)
	}
	if o.MuW <= 0 || o.MuO <= 0 || o.MuG <= 0 {
		return chk.Err("blackoil: viscosities must be positive. muw=%g muo=%g mug=%g\n", o.MuW, o.MuO, o.MuG)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o BlackOil) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "rhow", V: 1000},  // [kg/m³]
			&dbf.P{N: "rhoo", V: 800},   // [kg/m³]
			&dbf.P{N: "rhog", V: 1},     // [kg/m³]
			&dbf.P{N: "pref", V: 2e7},   // [Pa]
			&dbf.P{N: "bw0", V: 1.0},    // [-]
			&dbf.P{N: "bo0", V: 0.9},    // [-]
			&dbf.P{N: "bg0", V: 150},    // [-]
			&dbf.P{N: "cw", V: 4e-10},   // [1/Pa]
			&dbf.P{N: "co", V: 1e-9},    // [1/Pa]
			&dbf.P{N: "cg", V: 5e-8},    // [1/Pa]
			&dbf.P{N: "crs", V: 5e-3},   // [-]
			&dbf.P{N: "crv", V: 0},      // [-]
			&dbf.P{N: "muw", V: 5e-4},   // [Pa・s]
			&dbf.P{N: "muo", V: 2e-3},   // [Pa・s]
			&dbf.P{N: "mug", V: 2e-5},   // [Pa・s]
			&dbf.P{N: "cmurs", V: 1e-3}, // [-]
			&dbf.P{N: "rsp", V: 5e-6},   // [1/Pa]
			&dbf.P{N: "rvp", V: 0},      // [1/Pa]
		}
	}
	return dbf.Params{
		&dbf.P{N: "rhow", V: o.RhoW},
		&dbf.P{N: "rhoo", V: o.RhoO},
		&dbf.P{N: "rhog", V: o.RhoG},
		&dbf.P{N: "pref", V: o.Pref},
		&dbf.P{N: "bw0", V: o.Bw0},
		&dbf.P{N: "bo0", V: o.Bo0},
		&dbf.P{N: "bg0", V: o.Bg0},
		&dbf.P{N: "cw", V: o.Cw},
		&dbf.P{N: "co", V: o.Co},
		&dbf.P{N: "cg", V: o.Cg},
		&dbf.P{N: "crs", V: o.Crs},
		&dbf.P{N: "crv", V: o.Crv},
		&dbf.P{N: "muw", V: o.MuW},
		&dbf.P{N: "muo", V: o.MuO},
		&dbf.P{N: "mug", V: o.MuG},
		&dbf.P{N: "cmurs", V: o.CmuRs},
		&dbf.P{N: "rsp", V: o.Rsp},
		&dbf.P{N: "rvp", V: o.Rvp},
	}
}

// SurfaceDensity returns the densities at surface conditions
func (o BlackOil) SurfaceDensity() [phases.MaxNumPhases]float64 {
	return [phases.MaxNumPhases]float64{o.RhoW, o.RhoO, o.RhoG}
}

// BWat computes bw(p)
func (o BlackOil) BWat(p ad.Value) ad.Value {
	f, df := exponential(o.Bw0, o.Cw, o.Pref)
	return ad.Apply(p, f, df)
}

// BOil computes bo(p,rs)
func (o BlackOil) BOil(p, rs ad.Value) ad.Value {
	f, df := exponential(o.Bo0, o.Co, o.Pref)
	return ad.Div(ad.Apply(p, f, df), ad.Shift(ad.Scale(o.Crs, rs), 1))
}

// BGas computes bg(p,rv)
func (o BlackOil) BGas(p, rv ad.Value) ad.Value {
	f, df := exponential(o.Bg0, o.Cg, o.Pref)
	return ad.Div(ad.Apply(p, f, df), ad.Shift(ad.Scale(o.Crv, rv), 1))
}

// MuWat computes μw
func (o BlackOil) MuWat(p ad.Value) ad.Value {
	return ad.Fill(p.Size(), o.MuW)
}

// MuOil computes μo(rs)
func (o BlackOil) MuOil(p, rs ad.Value) ad.Value {
	return ad.Scale(o.MuO, ad.Shift(ad.Scale(o.CmuRs, rs), 1))
}

// MuGas computes μg
func (o BlackOil) MuGas(p, rv ad.Value) ad.Value {
	return ad.Fill(p.Size(), o.MuG)
}

// RsSat computes rsSat(p)
func (o BlackOil) RsSat(p ad.Value) ad.Value {
	return ad.Scale(o.Rsp, p)
}

// RvSat computes rvSat(p)
func (o BlackOil) RvSat(p ad.Value) ad.Value {
	return ad.Scale(o.Rvp, p)
}
