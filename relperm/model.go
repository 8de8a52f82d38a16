// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package relperm implements relative permeability models
//
//  Each phase has its own curve kr(s) depending only on the phase saturation. The oil saturation
//  is derived from the others (so = 1 - sw - sg) so derivatives with respect to sw and sg follow
//  from the chain rule.
package relperm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
)

// Model defines relative permeability models
type Model interface {
	Init(prms dbf.Params) error             // Init initialises this structure
	GetPrms(example bool) dbf.Params        // gets (an example) of parameters
	Kr(canonical int, s float64) float64    // Kr returns kr of phase
	DkrDs(canonical int, s float64) float64 // DkrDs returns ∂kr/∂s of phase
}

// New relative permeability model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'relperm' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// Compute returns kr for all active phases (compact order) given saturations (compact order)
func Compute(mdl Model, pu phases.Usage, sat []ad.Value) (kr []ad.Value) {
	if len(sat) != pu.Num {
		chk.Panic("relperm: %d saturations are given but there are %d active phases", len(sat), pu.Num)
	}
	kr = make([]ad.Value, pu.Num)
	for ph := 0; ph < pu.Num; ph++ {
		c := pu.Canonical(ph)
		kr[ph] = ad.Apply(sat[ph],
			func(s float64) float64 { return mdl.Kr(c, s) },
			func(s float64) float64 { return mdl.DkrDs(c, s) })
	}
	return
}
