// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relperm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/phases"
)

func Test_corey01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("corey01")

	mdl, err := New("corey")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = mdl.Init(mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// end points
	chk.Float64(tst, "krw(swr)", 1e-17, mdl.Kr(phases.Water, 0.1), 0)
	chk.Float64(tst, "krw(1)", 1e-17, mdl.Kr(phases.Water, 1), 0.8)
	chk.Float64(tst, "krw(0.5)", 1e-15, mdl.Kr(phases.Water, 0.5), 0.8*0.25)

	// derivatives
	h := 1e-6
	for _, s := range []float64{0.2, 0.35, 0.5, 0.7, 0.85} {
		for c := 0; c < phases.MaxNumPhases; c++ {
			num := (mdl.Kr(c, s+h) - mdl.Kr(c, s-h)) / (2 * h)
			chk.AnaNum(tst, io.Sf("dkr%d/ds(%g)", c, s), 1e-8, mdl.DkrDs(c, s), num, chk.Verbose)
		}
	}

	// bad residuals
	if err = mdl.Init(dbfParams("swr", 0.6, "sor", 0.5)); err == nil {
		tst.Errorf("residual saturations summing above one must fail\n")
	}
}

func Test_compute01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compute01")

	mdl, _ := New("lin")
	if err := mdl.Init(mdl.GetPrms(true)); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	pu, _ := phases.New(true, true, false)
	sw := ad.Variables([]float64{0.2, 0.7})[0]
	so := ad.Shift(ad.Neg(sw), 1)
	kr := Compute(mdl, pu, []ad.Value{sw, so})
	chk.Array(tst, "krw", 1e-15, kr[0].Val, []float64{0.2, 0.7})
	chk.Array(tst, "kro", 1e-15, kr[1].Val, []float64{0.8, 0.3})
	chk.Float64(tst, "dkro/dsw", 1e-15, kr[1].Jac[0].At(1, 1), -1)
}

func dbfParams(args ...interface{}) (prms dbf.Params) {
	for i := 0; i < len(args); i += 2 {
		prms = append(prms, &dbf.P{N: args[i].(string), V: args[i+1].(float64)})
	}
	return
}
