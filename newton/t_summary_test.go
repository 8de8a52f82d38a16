// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/hakonhagland/opm-simulators/model"
)

func Test_summary01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("summary01. save and read")

	var sum Summary
	sum.appendResid(true, 1.5)
	sum.appendResid(false, 1e-3)
	sum.appendResid(true, 2.5)
	sum.appendStep(10, 10, Report{Converged: true, Iterations: 2, Norms: model.Norms{
		MB:          []float64{1e-9, 2e-9},
		CNV:         []float64{1e-4, 2e-4},
		WellFlux:    []float64{1e-6, 3e-6},
		WellControl: 5,
	}})
	sum.Ncuts = 1
	chk.IntAssert(len(sum.Resids), 2)
	chk.Array(tst, "resids[0]", 1e-15, sum.Resids[0], []float64{1.5, 1e-3})

	dir := tst.TempDir()
	for _, enc := range []string{"gob", "json"} {

		err := sum.Save(dir, "sum01", enc, 4, 0, chk.Verbose)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}

		var res Summary
		err = res.Read(dir, "sum01", enc)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		chk.IntAssert(res.Nproc, 4)
		chk.IntAssert(res.Ncuts, 1)
		chk.Ints(tst, "iters", res.Iters, []int{2})
		chk.Array(tst, "times", 1e-15, res.Times, []float64{10})
		chk.Array(tst, "dts", 1e-15, res.Dts, []float64{10})
		chk.Array(tst, "resids[1]", 1e-15, res.Resids[1], []float64{2.5})
		chk.Array(tst, "cnv", 1e-15, res.Norms[0].CNV, []float64{1e-4, 2e-4})
		chk.Float64(tst, "well control", 1e-15, res.Norms[0].WellControl, 5)
	}

	// non-root processors do not write
	err := sum.Save(dir, "sum02", "gob", 4, 1, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	var res Summary
	if err = res.Read(dir, "sum02", "gob"); err == nil {
		tst.Errorf("reading summary of non-root processor should have failed\n")
	}
}
