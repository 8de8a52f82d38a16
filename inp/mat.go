// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/hakonhagland/opm-simulators/pvt"
	"github.com/hakonhagland/opm-simulators/relperm"
)

// ModelData holds the name and parameters of a model
type ModelData struct {
	Model string     `json:"model"` // name of model; e.g. "blackoil", "corey"
	Extra string     `json:"extra"` // extra information about this model
	Prms  dbf.Params `json:"prms"`  // prms holds all model parameters
}

// GetFluid allocates and initialises the fluid model
func (o *ModelData) GetFluid() (mdl pvt.Fluid, err error) {
	if o.Model == "" {
		o.Model = "blackoil"
	}
	mdl, err = pvt.New(o.Model)
	if err != nil {
		return
	}
	err = mdl.Init(o.Prms)
	if err != nil {
		return nil, chk.Err("cannot initialise fluid model %q:\n%v", o.Model, err)
	}
	return
}

// GetRelPerm allocates and initialises the relative permeability model
func (o *ModelData) GetRelPerm() (mdl relperm.Model, err error) {
	if o.Model == "" {
		o.Model = "corey"
	}
	mdl, err = relperm.New(o.Model)
	if err != nil {
		return
	}
	err = mdl.Init(o.Prms)
	if err != nil {
		return nil, chk.Err("cannot initialise relative permeability model %q:\n%v", o.Model, err)
	}
	return
}
