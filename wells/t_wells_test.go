// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wells

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// msWell returns a producer with three segments (0 <- 1 <- 2) and four perforations
func msWell() *Well {
	return &Well{
		Name:         "PROD",
		TypeName:     "producer",
		MultiSegment: true,
		Segments: []*Segment{
			{Depth: 1000, Volume: 0.1},
			{Depth: 1010, Volume: 0.1, Outlet: 0},
			{Depth: 1020, Volume: 0.1, Outlet: 1},
		},
		Perfs: []*Perforation{
			{Cell: 0, Trans: 1e-12, Depth: 1005, Segment: 1},
			{Cell: 1, Trans: 1e-12, Depth: 1015, Segment: 1},
			{Cell: 2, Trans: 1e-12, Depth: 1020, Segment: 2},
			{Cell: 3, Trans: 1e-12, Depth: 1025, Segment: 2},
		},
		Controls: []*Control{
			{TypeName: "rate", Target: -0.01, Distr: []float64{0, 1}},
			{TypeName: "resv", Target: -1e-9, Distr: []float64{1, 1}},
			{TypeName: "bhp", Target: 1e7},
		},
	}
}

// regWell returns a regular injector with two perforations
func regWell() *Well {
	return &Well{
		Name:     "INJ",
		TypeName: "injector",
		RefDepth: 995,
		Perfs: []*Perforation{
			{Cell: 4, Trans: 2e-12, Depth: 1000},
			{Cell: 5, Trans: 2e-12, Depth: 1010},
		},
		Controls: []*Control{
			{TypeName: "bhp", Target: 3e7},
		},
		CompFrac: []float64{1, 0},
	}
}

func Test_network01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("network01")

	ms, reg := msWell(), regWell()
	for _, w := range []*Well{ms, reg} {
		if err := w.Init(2); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		io.Pforan("%v\n", w)
	}
	chk.Ints(tst, "perfs of seg 1", ms.Segments[1].Perfs, []int{0, 1})
	chk.IntAssert(ms.Segments[0].Cell, 0) // borrowed from nothing: first perforation
	chk.IntAssert(ms.Segments[2].Cell, 2)
	chk.IntAssert(reg.NumSegments(), 1)

	net := NewNetwork([]*Well{ms, reg}, 2)
	chk.IntAssert(net.Nseg, 4)
	chk.IntAssert(net.Nperf, 6)
	chk.IntAssert(net.NumWellVars(), 12)
	chk.Ints(tst, "top segments", net.TopSegs, []int{0, 3})
	chk.Ints(tst, "well cells", net.WellCells, []int{0, 1, 2, 3, 4, 5})
	if !net.HasMultiSegment {
		tst.Errorf("network has a multi-segment well\n")
	}

	// perforations summed into segments
	chk.Array(tst, "p2s*1", 1e-17, net.P2S.MulVec([]float64{1, 1, 1, 1, 1, 1}), []float64{0, 2, 2, 2})
	chk.Array(tst, "p2w*1", 1e-17, net.P2W.MulVec([]float64{1, 1, 1, 1, 1, 1}), []float64{4, 2})

	// inlets and outlets
	x := []float64{1, 2, 3, 4}
	chk.Array(tst, "inlets", 1e-17, net.S2SInlets.MulVec(x), []float64{2, 3, 0, 0})
	chk.Array(tst, "outlet", 1e-17, net.S2SOutlet.MulVec(x), []float64{0, 1, 2, 0})
	chk.Array(tst, "eliminate", 1e-17, net.EliminateTopSeg.MulVec(x), []float64{0, 2, 3, 0})
	chk.Array(tst, "topseg2w", 1e-17, net.TopSeg2W.MulVec(x), []float64{1, 4})

	// geometry
	chk.Array(tst, "seg depth delta", 1e-17, net.SegDepthDelta, []float64{0, -10, -10, 0})
	chk.Array(tst, "seg-perf depth", 1e-17, net.SegPerfDepthDiff, []float64{5, -5, 0, -5, -5, -15})
	chk.Array(tst, "ms perf", 1e-17, net.MultiSegPerf, []float64{1, 1, 1, 1, 0, 0})
	chk.Array(tst, "seg comp", 1e-17, net.SegCompFrac(0), []float64{1, 1, 1, 1})
}

func Test_network02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("network02. invalid wells")

	w := msWell()
	w.Segments[2].Outlet = 2
	if err := w.Init(2); err == nil {
		tst.Errorf("segment being its own outlet must fail\n")
	}

	w = msWell()
	w.Segments[1].Outlet = 2
	w.Segments[2].Outlet = 1
	if err := w.Init(2); err == nil {
		tst.Errorf("loop of segments must fail\n")
	}

	w = msWell()
	w.Controls[0].Distr = []float64{1}
	if err := w.Init(2); err == nil {
		tst.Errorf("wrong distribution size must fail\n")
	}

	w = regWell()
	w.TypeName = "observer"
	if err := w.Init(2); err == nil {
		tst.Errorf("wrong type must fail\n")
	}
}

func Test_state01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state01")

	ms, reg := msWell(), regWell()
	ms.Init(2)
	reg.Init(2)
	net := NewNetwork([]*Well{ms, reg}, 2)
	pcell := []float64{2e7, 2e7, 2e7, 2e7, 2.5e7, 2.5e7}
	xw := NewState(net, pcell)

	chk.Array(tst, "bhp", 1e-17, xw.Bhp, []float64{0.99 * 2e7, 3e7})
	chk.Array(tst, "well rates", 1e-17, xw.WellRates, []float64{0, -0.01, 0, 0})

	// segment rates accumulate towards the top
	chk.Array(tst, "seg rates", 1e-17, xw.SegPhaseRates, []float64{0, -0.01, 0, -0.01, 0, -0.005, 0, 0})
	chk.Array(tst, "phase major", 1e-17, xw.SegRatesPhaseMajor(), []float64{0, 0, 0, 0, -0.01, -0.01, -0.005, 0})
	chk.IntAssert(xw.WellMap["INJ"].StartPerf, 4)

	// clone is independent
	c := xw.Clone()
	c.SegPress[0] = 0
	chk.Float64(tst, "segp[0]", 1e-17, xw.SegPress[0], 0.99*2e7)
	c.CopyFrom(xw)
	chk.Array(tst, "copy", 1e-17, c.SegPress, xw.SegPress)

	// bounded update
	dq := make([]float64, 8)
	dq[4] = 0.01 // oil rate of top segment
	dp := []float64{1e8, -1e5, 0, 0}
	xw.ApplyUpdate(dq, dp, 0.3)
	chk.Float64(tst, "segp[0]", 1e-6, xw.SegPress[0], 0.7*0.99*2e7)
	chk.Float64(tst, "segp[1]", 1e-6, xw.SegPress[1], 0.99*2e7+1e5)
	chk.Float64(tst, "bhp", 1e-17, xw.Bhp[0], xw.SegPress[0])
	chk.Float64(tst, "qo", 1e-17, xw.WellRates[1], -0.02)
}

func Test_control01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("control01. rate to bhp")

	ms := msWell()
	ms.Init(2)
	net := NewNetwork([]*Well{ms}, 2)
	xw := NewState(net, []float64{2e7, 2e7, 2e7, 2e7})

	// bhp below the minimum
	xw.Bhp[0] = 0.9e7
	err := UpdateControls(net.Wells, xw, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.IntAssert(xw.CurrentControls[0], 2)
	chk.Float64(tst, "bhp", 1e-17, xw.Bhp[0], 1e7)
	chk.Float64(tst, "segp[top]", 1e-17, xw.SegPress[0], 1e7)

	// idempotence
	for i := 0; i < 2; i++ {
		err = UpdateControls(net.Wells, xw, chk.Verbose)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		chk.IntAssert(xw.CurrentControls[0], 2)
	}
}

func Test_control02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("control02. first found and thp")

	ms := msWell()
	ms.Controls = []*Control{
		{TypeName: "bhp", Target: 1e7},
		{TypeName: "resv", Target: -1e-9, Distr: []float64{1, 1}}, // broken but skipped
		{TypeName: "rate", Target: -0.01, Distr: []float64{0, 1}},
		{TypeName: "rate", Target: -0.001, Distr: []float64{0, 1}},
	}
	ms.Init(2)
	net := NewNetwork([]*Well{ms}, 2)
	xw := NewState(net, []float64{2e7, 2e7, 2e7, 2e7})
	xw.WellRates[1] = -0.05 // both rate constraints broken
	xw.SegPhaseRates[1] = -0.05
	if !ConstraintBroken(xw.Bhp, xw.Thp, xw.WellRates, 0, 2, Producer, ms.Controls[1]) {
		tst.Errorf("reservoir rate constraint is broken\n")
	}
	err := UpdateControls(net.Wells, xw, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.IntAssert(xw.CurrentControls[0], 2)
	chk.Float64(tst, "qo", 1e-17, xw.WellRates[1], -0.01)
	chk.Float64(tst, "qo(top)", 1e-17, xw.SegPhaseRates[1], -0.01)

	// thp
	ms.Controls[3] = &Control{Type: THP, Target: 5e6}
	xw.Thp[0] = 1e6
	err = UpdateControls(net.Wells, xw, chk.Verbose)
	if !errors.Is(err, ErrTHPNotImplemented) {
		tst.Errorf("switching to THP must fail with ErrTHPNotImplemented. err = %v\n", err)
	}
}
