// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relperm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Lin implements straight-line relative permeabilities: kr(s) = s, clamped to [0,1]
type Lin struct{}

// add model to factory
func init() {
	allocators["lin"] = func() Model { return new(Lin) }
}

// Init initialises model
func (o *Lin) Init(prms dbf.Params) (err error) {
	if len(prms) > 0 {
		return chk.Err("lin: model has no parameters. %q is incorrect\n", prms[0].N)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Lin) GetPrms(example bool) dbf.Params {
	return dbf.Params{}
}

// Kr returns kr
func (o Lin) Kr(canonical int, s float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return s
}

// DkrDs returns ∂kr/∂s
func (o Lin) DkrDs(canonical int, s float64) float64 {
	if s <= 0 || s >= 1 {
		return 0
	}
	return 1
}
