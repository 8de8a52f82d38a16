// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relperm

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/hakonhagland/opm-simulators/phases"
)

// Corey implements Corey's power law
//   kr(s) = krmax・se^n    with    se = (s - sr) / (1 - swr - sor - sgr)
// where se is clamped to [0,1]
type Corey struct {

	// parameters
	sr    [phases.MaxNumPhases]float64 // residual saturations
	n     [phases.MaxNumPhases]float64 // exponents
	krmax [phases.MaxNumPhases]float64 // end-point relative permeabilities

	// derived
	den float64 // 1 - swr - sor - sgr
}

// add model to factory
func init() {
	allocators["corey"] = func() Model { return new(Corey) }
}

// Init initialises model
func (o *Corey) Init(prms dbf.Params) (err error) {
	o.n = [phases.MaxNumPhases]float64{2, 2, 2}
	o.krmax = [phases.MaxNumPhases]float64{1, 1, 1}
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "swr":
			o.sr[phases.Water] = p.V
		case "sor":
			o.sr[phases.Oil] = p.V
		case "sgr":
			o.sr[phases.Gas] = p.V
		case "nw":
			o.n[phases.Water] = p.V
		case "no":
			o.n[phases.Oil] = p.V
		case "ng":
			o.n[phases.Gas] = p.V
		case "krwmax":
			o.krmax[phases.Water] = p.V
		case "kromax":
			o.krmax[phases.Oil] = p.V
		case "krgmax":
			o.krmax[phases.Gas] = p.V
		default:
			return chk.Err("corey: parameter named %q is incorrect\n", p.N)
		}
	}
	o.den = 1.0 - o.sr[phases.Water] - o.sr[phases.Oil] - o.sr[phases.Gas]
	if o.den <= 0 {
		return chk.Err("corey: sum of residual saturations must be smaller than one. swr+sor+sgr = %g\n", 1.0-o.den)
	}
	for i := 0; i < phases.MaxNumPhases; i++ {
		if o.n[i] < 1 {
			return chk.Err("corey: exponents must be greater than or equal to one. n = %v\n", o.n)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Corey) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "swr", V: 0.1},
			&dbf.P{N: "sor", V: 0.1},
			&dbf.P{N: "sgr", V: 0.0},
			&dbf.P{N: "nw", V: 2},
			&dbf.P{N: "no", V: 2},
			&dbf.P{N: "ng", V: 2},
			&dbf.P{N: "krwmax", V: 0.8},
			&dbf.P{N: "kromax", V: 1.0},
			&dbf.P{N: "krgmax", V: 0.9},
		}
	}
	return dbf.Params{
		&dbf.P{N: "swr", V: o.sr[phases.Water]},
		&dbf.P{N: "sor", V: o.sr[phases.Oil]},
		&dbf.P{N: "sgr", V: o.sr[phases.Gas]},
		&dbf.P{N: "nw", V: o.n[phases.Water]},
		&dbf.P{N: "no", V: o.n[phases.Oil]},
		&dbf.P{N: "ng", V: o.n[phases.Gas]},
		&dbf.P{N: "krwmax", V: o.krmax[phases.Water]},
		&dbf.P{N: "kromax", V: o.krmax[phases.Oil]},
		&dbf.P{N: "krgmax", V: o.krmax[phases.Gas]},
	}
}

// Kr returns kr
func (o Corey) Kr(canonical int, s float64) float64 {
	se := (s - o.sr[canonical]) / o.den
	if se <= 0 {
		return 0
	}
	if se >= 1 {
		return o.krmax[canonical]
	}
	return o.krmax[canonical] * math.Pow(se, o.n[canonical])
}

// DkrDs returns ∂kr/∂s
func (o Corey) DkrDs(canonical int, s float64) float64 {
	se := (s - o.sr[canonical]) / o.den
	if se <= 0 || se >= 1 {
		return 0
	}
	return o.krmax[canonical] * o.n[canonical] * math.Pow(se, o.n[canonical]-1) / o.den
}
