// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/cpmech/gosl/chk"

	"github.com/hakonhagland/opm-simulators/comm"
	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/wells"
)

// FromCase allocates the model of a case and returns the initial reservoir and well states.
// cm may be nil
func FromCase(c *inp.Case, cm comm.Comm) (o *Model, x *ReservoirState, xw *wells.State, err error) {

	// models
	fld, err := c.Fluid.GetFluid()
	if err != nil {
		return
	}
	kr, err := c.RelPerm.GetRelPerm()
	if err != nil {
		return
	}

	// model
	o, err = New(c.Mesh, fld, kr, c.Phases, c.Wells, c.Model, cm)
	if err != nil {
		return
	}
	o.LinSol = c.LinSol.Name
	if len(c.Grid.Threshold) > 0 {
		if len(c.Grid.Threshold) != c.Mesh.NumFaces() {
			return nil, nil, nil, chk.Err("%d threshold pressures are required. %d is incorrect", c.Mesh.NumFaces(), len(c.Grid.Threshold))
		}
		o.SetThresholdPressures(c.Grid.Threshold)
	}

	// initial saturations in compact order
	ini := c.Initial
	so := 1 - ini.Sw - ini.Sg
	if ini.Sw < 0 || ini.Sg < 0 || so < 0 {
		return nil, nil, nil, chk.Err("initial saturations are invalid: sw = %g, sg = %g", ini.Sw, ini.Sg)
	}
	pu := c.Phases
	sat := make([]float64, pu.Num)
	for ph := 0; ph < pu.Num; ph++ {
		switch pu.Canonical(ph) {
		case phases.Water:
			sat[ph] = ini.Sw
		case phases.Oil:
			sat[ph] = so
		case phases.Gas:
			sat[ph] = ini.Sg
		}
	}

	// reservoir state
	nc := c.Mesh.NumCells
	x = NewReservoirState(nc, pu, ini.Pressure, ini.Temperature, sat, ini.Rs, ini.Rv)
	if len(ini.Pressures) > 0 {
		if len(ini.Pressures) != nc {
			return nil, nil, nil, chk.Err("%d initial pressures are required. %d is incorrect", nc, len(ini.Pressures))
		}
		copy(x.Pressure, ini.Pressures)
	}
	if pu.Active(phases.Gas) {
		o.UpdatePrimalFromState(x)
	}

	// well state
	xw = wells.NewState(o.Net, x.Pressure)
	return
}
