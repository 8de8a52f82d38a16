// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/fun/dbf"
)

// ModelParams holds the parameters of the black-oil model with multi-segment wells
type ModelParams struct {

	// limits of Newton updates
	DpMaxRel float64 `json:"dpmaxrel"` // max pressure change relative to the current pressure
	DsMax    float64 `json:"dsmax"`    // max saturation change
	DrMaxRel float64 `json:"drmaxrel"` // max change of rs and rv relative to the current value

	// convergence
	MaxResidualAllowed float64 `json:"maxresidualallowed"` // larger residuals are treated as a numerical failure
	TolMb              float64 `json:"tolmb"`              // tolerance of total mass balance
	TolCnv             float64 `json:"tolcnv"`             // tolerance of local (cell) mass balance
	TolWells           float64 `json:"tolwells"`           // tolerance of well fluxes
	TolWellControl     float64 `json:"tolwellcontrol"`     // tolerance of well control equations

	// wells
	SolveWellEqInitially bool `json:"solvewelleqinit"` // solve the well equations at the first assembly of each step
	MaxInnerIter         int  `json:"maxinneriter"`    // max number of iterations of the inner well solver

	// physics
	DisGas bool `json:"disgas"` // gas may dissolve in oil
	VapOil bool `json:"vapoil"` // oil may vaporise in gas

	// output
	Verbose bool `json:"verbose"` // show messages
}

// SetDefault sets defaults values
func (o *ModelParams) SetDefault() {
	o.DpMaxRel = 0.3
	o.DsMax = 0.2
	o.DrMaxRel = 1e9
	o.MaxResidualAllowed = 1e7
	o.TolMb = 1e-7
	o.TolCnv = 1e-2
	o.TolWells = 1e-3
	o.TolWellControl = 1e-7
	o.SolveWellEqInitially = true
	o.MaxInnerIter = 15
}

// PostProcess performs a post-processing of the just read data
func (o *ModelParams) PostProcess() {
	if o.MaxInnerIter < 1 {
		o.MaxInnerIter = 15
	}
}

// GetPrms gets the parameters as a list; used for printing
func (o *ModelParams) GetPrms() dbf.Params {
	b2f := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	return dbf.Params{
		&dbf.P{N: "dpmaxrel", V: o.DpMaxRel},
		&dbf.P{N: "dsmax", V: o.DsMax},
		&dbf.P{N: "drmaxrel", V: o.DrMaxRel},
		&dbf.P{N: "maxresidualallowed", V: o.MaxResidualAllowed},
		&dbf.P{N: "tolmb", V: o.TolMb},
		&dbf.P{N: "tolcnv", V: o.TolCnv},
		&dbf.P{N: "tolwells", V: o.TolWells},
		&dbf.P{N: "tolwellcontrol", V: o.TolWellControl},
		&dbf.P{N: "solvewelleqinit", V: b2f(o.SolveWellEqInitially)},
		&dbf.P{N: "maxinneriter", V: float64(o.MaxInnerIter)},
		&dbf.P{N: "disgas", V: b2f(o.DisGas)},
		&dbf.P{N: "vapoil", V: b2f(o.VapOil)},
	}
}
