// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wells

import (
	"github.com/cpmech/gosl/chk"

	"github.com/hakonhagland/opm-simulators/ad"
)

// Network holds the operators mapping quantities between wells, segments, perforations and
// cells. Segments and perforations of all wells are numbered consecutively, well by well
type Network struct {

	// wells
	Wells []*Well // all wells (initialised)
	Np    int     // number of active phases
	Nw    int     // number of wells
	Nseg  int     // total number of segments
	Nperf int     // total number of perforations

	// operators
	W2P             *ad.Sparse // [nperf][nw] well -> perforation (scatter)
	P2W             *ad.Sparse // [nw][nperf] perforation -> well (sum)
	W2S             *ad.Sparse // [nseg][nw] well -> segment (scatter)
	TopSeg2W        *ad.Sparse // [nw][nseg] picks top segments
	S2P             *ad.Sparse // [nperf][nseg] segment -> perforation (scatter)
	P2S             *ad.Sparse // [nseg][nperf] perforation -> segment (sum)
	S2SInlets       *ad.Sparse // [nseg][nseg] sums inlet segments into their outlet
	S2SOutlet       *ad.Sparse // [nseg][nseg] picks the outlet segment; zero rows for top segments
	EliminateTopSeg *ad.Sparse // [nseg][nseg] identity with zeros at top segments

	// geometry
	TopSegs          []int     // [nw] global index of top segments
	StartSeg         []int     // [nw] first segment of each well
	StartPerf        []int     // [nw] first perforation of each well
	WellCells        []int     // [nperf] cells of perforations
	ConnTrans        []float64 // [nperf] connection transmissibility factors
	PerfDepth        []float64 // [nperf] depth of perforations
	SegDepth         []float64 // [nseg] depth of segments
	SegVolume        []float64 // [nseg] volume of segments
	SegCells         []int     // [nseg] cells used for segment properties
	SegDepthDelta    []float64 // [nseg] depth(outlet) - depth(segment); zero for top segments
	SegPerfDepthDiff []float64 // [nperf] depth(segment) - depth(perforation)
	MultiSegPerf     []float64 // [nperf] 1 if perforation belongs to a multi-segment well
	PerfWell         []int     // [nperf] well of each perforation
	PerfSeg          []int     // [nperf] global segment of each perforation
	SegWell          []int     // [nseg] well of each segment

	// flags
	HasMultiSegment bool // at least one well is multi-segment
}

// NewNetwork builds the network of initialised wells
func NewNetwork(wls []*Well, np int) (o *Network) {
	o = &Network{Wells: wls, Np: np, Nw: len(wls)}
	o.TopSegs = make([]int, o.Nw)
	o.StartSeg = make([]int, o.Nw)
	o.StartPerf = make([]int, o.Nw)
	for w, well := range wls {
		if len(well.Segments) < 1 || len(well.Perfs) < 1 {
			chk.Panic("well %q must be initialised before building the network", well.Name)
		}
		if len(well.CompFrac) != np {
			chk.Panic("well %q has composition with %d phases but network has %d", well.Name, len(well.CompFrac), np)
		}
		o.TopSegs[w] = o.Nseg
		o.StartSeg[w] = o.Nseg
		o.StartPerf[w] = o.Nperf
		o.Nseg += len(well.Segments)
		o.Nperf += len(well.Perfs)
		if well.MultiSegment {
			o.HasMultiSegment = true
		}
	}

	// triplets
	w2p := ad.NewTriplet(o.Nperf, o.Nw, o.Nperf)
	w2s := ad.NewTriplet(o.Nseg, o.Nw, o.Nseg)
	top := ad.NewTriplet(o.Nw, o.Nseg, o.Nw)
	s2p := ad.NewTriplet(o.Nperf, o.Nseg, o.Nperf)
	inl := ad.NewTriplet(o.Nseg, o.Nseg, o.Nseg)
	out := ad.NewTriplet(o.Nseg, o.Nseg, o.Nseg)
	eli := ad.NewTriplet(o.Nseg, o.Nseg, o.Nseg)

	// geometry
	o.WellCells = make([]int, 0, o.Nperf)
	o.ConnTrans = make([]float64, 0, o.Nperf)
	o.PerfDepth = make([]float64, 0, o.Nperf)
	o.SegDepth = make([]float64, 0, o.Nseg)
	o.SegVolume = make([]float64, 0, o.Nseg)
	o.SegCells = make([]int, 0, o.Nseg)
	o.SegDepthDelta = make([]float64, o.Nseg)
	o.SegPerfDepthDiff = make([]float64, o.Nperf)
	o.MultiSegPerf = make([]float64, o.Nperf)
	o.PerfWell = make([]int, o.Nperf)
	o.PerfSeg = make([]int, o.Nperf)
	o.SegWell = make([]int, o.Nseg)

	for w, well := range wls {
		s0, p0 := o.StartSeg[w], o.StartPerf[w]
		top.Put(w, s0, 1)
		for s, seg := range well.Segments {
			gs := s0 + s
			w2s.Put(gs, w, 1)
			o.SegWell[gs] = w
			o.SegDepth = append(o.SegDepth, seg.Depth)
			o.SegVolume = append(o.SegVolume, seg.Volume)
			o.SegCells = append(o.SegCells, seg.Cell)
			if s == 0 {
				continue
			}
			if seg.Outlet < 0 || seg.Outlet >= len(well.Segments) {
				chk.Panic("well %q: segment %d has invalid outlet %d", well.Name, s, seg.Outlet)
			}
			gout := s0 + seg.Outlet
			inl.Put(gout, gs, 1)
			out.Put(gs, gout, 1)
			eli.Put(gs, gs, 1)
			o.SegDepthDelta[gs] = well.Segments[seg.Outlet].Depth - seg.Depth
		}
		for i, perf := range well.Perfs {
			gp := p0 + i
			gs := s0 + perf.Segment
			w2p.Put(gp, w, 1)
			s2p.Put(gp, gs, 1)
			o.WellCells = append(o.WellCells, perf.Cell)
			o.ConnTrans = append(o.ConnTrans, perf.Trans)
			o.PerfDepth = append(o.PerfDepth, perf.Depth)
			o.SegPerfDepthDiff[gp] = well.Segments[perf.Segment].Depth - perf.Depth
			o.PerfWell[gp] = w
			o.PerfSeg[gp] = gs
			if well.MultiSegment {
				o.MultiSegPerf[gp] = 1
			}
		}
	}

	// operators
	o.W2P = w2p.ToSparse()
	o.P2W = o.W2P.Transpose()
	o.W2S = w2s.ToSparse()
	o.TopSeg2W = top.ToSparse()
	o.S2P = s2p.ToSparse()
	o.P2S = o.S2P.Transpose()
	o.S2SInlets = inl.ToSparse()
	o.S2SOutlet = out.ToSparse()
	o.EliminateTopSeg = eli.ToSparse()
	return
}

// NumWellVars returns the number of well unknowns: one pressure and np rates per segment
func (o *Network) NumWellVars() int {
	return (o.Np + 1) * o.Nseg
}

// CompFrac returns the nominal composition of phase ph for all wells
func (o *Network) CompFrac(ph int) []float64 {
	c := make([]float64, o.Nw)
	for w, well := range o.Wells {
		c[w] = well.CompFrac[ph]
	}
	return c
}

// SegCompFrac returns the nominal composition of phase ph for all segments
func (o *Network) SegCompFrac(ph int) []float64 {
	return o.W2S.MulVec(o.CompFrac(ph))
}
