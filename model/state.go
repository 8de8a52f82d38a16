// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
)

// Primal defines the variable used as the third unknown of a cell in three-phase systems
type Primal int

const (
	PrimalSg Primal = iota // gas saturation; oil and gas coexist
	PrimalRs               // dissolved gas-oil ratio; no free gas
	PrimalRv               // vaporised oil-gas ratio; no oil
)

// ReservoirState holds the cell values of the reservoir unknowns
type ReservoirState struct {
	Pressure    []float64   // [nc] pressures
	Temperature []float64   // [nc] temperatures
	Sat         [][]float64 // [np][nc] saturations (compact order)
	Rs          []float64   // [nc] dissolved gas-oil ratios
	Rv          []float64   // [nc] vaporised oil-gas ratios
	Primal      []Primal    // [nc] primal variable of each cell
}

// NewReservoirState returns a state with uniform values. sat holds the saturations in compact order
func NewReservoirState(nc int, pu phases.Usage, p, temp float64, sat []float64, rs, rv float64) (o *ReservoirState) {
	if len(sat) != pu.Num {
		chk.Panic("%d saturations are required. %v is incorrect", pu.Num, sat)
	}
	o = &ReservoirState{
		Pressure:    make([]float64, nc),
		Temperature: make([]float64, nc),
		Sat:         make([][]float64, pu.Num),
		Rs:          make([]float64, nc),
		Rv:          make([]float64, nc),
		Primal:      make([]Primal, nc),
	}
	for ph := 0; ph < pu.Num; ph++ {
		o.Sat[ph] = make([]float64, nc)
	}
	for c := 0; c < nc; c++ {
		o.Pressure[c] = p
		o.Temperature[c] = temp
		o.Rs[c] = rs
		o.Rv[c] = rv
		for ph := 0; ph < pu.Num; ph++ {
			o.Sat[ph][c] = sat[ph]
		}
	}
	return
}

// NumCells returns the number of cells
func (o *ReservoirState) NumCells() int { return len(o.Pressure) }

// Clone returns a deep copy
func (o *ReservoirState) Clone() *ReservoirState {
	c := &ReservoirState{
		Pressure:    append([]float64{}, o.Pressure...),
		Temperature: append([]float64{}, o.Temperature...),
		Sat:         make([][]float64, len(o.Sat)),
		Rs:          append([]float64{}, o.Rs...),
		Rv:          append([]float64{}, o.Rv...),
		Primal:      append([]Primal{}, o.Primal...),
	}
	for ph, s := range o.Sat {
		c.Sat[ph] = append([]float64{}, s...)
	}
	return c
}

// CopyFrom copies all values from another state with the same size
func (o *ReservoirState) CopyFrom(src *ReservoirState) {
	if len(o.Pressure) != len(src.Pressure) || len(o.Sat) != len(src.Sat) {
		chk.Panic("cannot copy reservoir state with (nc,np) = (%d,%d) into (%d,%d)", len(src.Pressure), len(src.Sat), len(o.Pressure), len(o.Sat))
	}
	copy(o.Pressure, src.Pressure)
	copy(o.Temperature, src.Temperature)
	for ph := range o.Sat {
		copy(o.Sat[ph], src.Sat[ph])
	}
	copy(o.Rs, src.Rs)
	copy(o.Rv, src.Rv)
	copy(o.Primal, src.Primal)
}

// SolutionState holds the current Newton iterate as AD values. Variable groups are ordered as
//   pressure, [sw], [xvar], segqs, segp
// where sw exists if water is active and xvar (sg, rs or rv) exists if gas is active
type SolutionState struct {
	Pressure    ad.Value   // [nc]
	Temperature ad.Value   // [nc]
	Sat         []ad.Value // [np][nc] compact order
	Rs          ad.Value   // [nc]
	Rv          ad.Value   // [nc]
	Qs          ad.Value   // [np*nw] well rates (phase-major); taken from top segments
	Bhp         ad.Value   // [nw] bottom-hole pressures; taken from top segments
	SegQs       ad.Value   // [np*nseg] segment rates (phase-major)
	SegP        ad.Value   // [nseg] segment pressures
}

// MakeConstant returns a copy with all derivatives removed
func (o SolutionState) MakeConstant() (c SolutionState) {
	c.Pressure = o.Pressure.Const()
	c.Temperature = o.Temperature.Const()
	c.Sat = make([]ad.Value, len(o.Sat))
	for ph, s := range o.Sat {
		c.Sat[ph] = s.Const()
	}
	c.Rs = o.Rs.Const()
	c.Rv = o.Rv.Const()
	c.Qs = o.Qs.Const()
	c.Bhp = o.Bhp.Const()
	c.SegQs = o.SegQs.Const()
	c.SegP = o.SegP.Const()
	return
}

// Residual holds the residual equations
type Residual struct {
	MassBalance []ad.Value // [np] mass balance of each phase; size nc
	WellFlux    ad.Value   // segment flux equations; size np*nseg (phase-major)
	WellEq      ad.Value   // control (top segments) and pressure equations; size nseg
}

// Stack returns all equations stacked vertically in the order: mass balances, well fluxes, well
// equations
func (o *Residual) Stack() ad.Value {
	eqs := append([]ad.Value{}, o.MassBalance...)
	eqs = append(eqs, o.WellFlux, o.WellEq)
	return ad.Vertcat(eqs...)
}

// MaxAbs returns the largest absolute value among all equations
func (o *Residual) MaxAbs() (res float64) {
	for _, r := range o.MassBalance {
		res = utl.Max(res, ad.MaxAbs(r.Val))
	}
	res = utl.Max(res, ad.MaxAbs(o.WellFlux.Val))
	return utl.Max(res, ad.MaxAbs(o.WellEq.Val))
}

// Size returns the total number of equations
func (o *Residual) Size() (n int) {
	for _, r := range o.MassBalance {
		n += r.Size()
	}
	return n + o.WellFlux.Size() + o.WellEq.Size()
}
