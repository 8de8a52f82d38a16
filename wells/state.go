// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wells

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Info holds the location of a well in the state arrays
type Info struct {
	Index     int // well index
	StartSeg  int // first segment
	NSeg      int // number of segments
	StartPerf int // first perforation
	NPerf     int // number of perforations
}

// State holds the well variables
//  Note: phase runs fastest in WellRates, PerfPhaseRates and SegPhaseRates
type State struct {
	Np              int             // number of phases
	Bhp             []float64       // [nw] bottom-hole pressures
	Thp             []float64       // [nw] tubing-head pressures
	WellRates       []float64       // [nw*np] surface rates
	CurrentControls []int           // [nw] current controls
	PerfPress       []float64       // [nperf] perforation pressures
	PerfPhaseRates  []float64       // [nperf*np] perforation surface rates
	SegPress        []float64       // [nseg] segment pressures
	SegPhaseRates   []float64       // [nseg*np] segment surface rates
	TopSegmentLoc   []int           // [nw] top segments
	WellMap         map[string]Info // name => location
}

// NewState initialises the well state from the current controls and the pressure of
// the perforated cells
func NewState(net *Network, cellPressure []float64) (o *State) {
	np := net.Np
	o = &State{
		Np:              np,
		Bhp:             make([]float64, net.Nw),
		Thp:             make([]float64, net.Nw),
		WellRates:       make([]float64, net.Nw*np),
		CurrentControls: make([]int, net.Nw),
		PerfPress:       make([]float64, net.Nperf),
		PerfPhaseRates:  make([]float64, net.Nperf*np),
		SegPress:        make([]float64, net.Nseg),
		SegPhaseRates:   make([]float64, net.Nseg*np),
		TopSegmentLoc:   append([]int{}, net.TopSegs...),
		WellMap:         make(map[string]Info),
	}
	for w, well := range net.Wells {
		s0, p0 := net.StartSeg[w], net.StartPerf[w]
		nseg, nperf := well.NumSegments(), well.NumPerfs()
		o.WellMap[well.Name] = Info{Index: w, StartSeg: s0, NSeg: nseg, StartPerf: p0, NPerf: nperf}
		o.CurrentControls[w] = well.Current

		// bhp: target or slightly off the pressure of the first perforated cell
		ctrl := well.Controls[well.Current]
		pcell := cellPressure[well.Perfs[0].Cell]
		switch {
		case ctrl.Type == BHP:
			o.Bhp[w] = ctrl.Target
		case well.Type == Producer:
			o.Bhp[w] = 0.99 * pcell
		default:
			o.Bhp[w] = 1.01 * pcell
		}

		// rates
		if ctrl.Type == SurfaceRate {
			for p := 0; p < np; p++ {
				o.WellRates[np*w+p] = ctrl.Target * ctrl.Distr[p]
			}
		}

		// perforations share the well rates
		for i := 0; i < nperf; i++ {
			o.PerfPress[p0+i] = o.Bhp[w]
			for p := 0; p < np; p++ {
				o.PerfPhaseRates[np*(p0+i)+p] = o.WellRates[np*w+p] / float64(nperf)
			}
		}

		// segments accumulate rates of their own and upstream perforations
		for s := 0; s < nseg; s++ {
			o.SegPress[s0+s] = o.Bhp[w]
		}
		for i, perf := range well.Perfs {
			s := perf.Segment
			for k := 0; k <= nseg && s >= 0; k++ {
				for p := 0; p < np; p++ {
					o.SegPhaseRates[np*(s0+s)+p] += o.PerfPhaseRates[np*(p0+i)+p]
				}
				s = well.Segments[s].Outlet
			}
		}
	}
	return
}

// NumWells returns the number of wells
func (o *State) NumWells() int { return len(o.Bhp) }

// NumSegments returns the total number of segments
func (o *State) NumSegments() int { return len(o.SegPress) }

// NumPerfs returns the total number of perforations
func (o *State) NumPerfs() int { return len(o.PerfPress) }

// Clone returns a deep copy
func (o *State) Clone() *State {
	c := &State{
		Np:              o.Np,
		Bhp:             append([]float64{}, o.Bhp...),
		Thp:             append([]float64{}, o.Thp...),
		WellRates:       append([]float64{}, o.WellRates...),
		CurrentControls: append([]int{}, o.CurrentControls...),
		PerfPress:       append([]float64{}, o.PerfPress...),
		PerfPhaseRates:  append([]float64{}, o.PerfPhaseRates...),
		SegPress:        append([]float64{}, o.SegPress...),
		SegPhaseRates:   append([]float64{}, o.SegPhaseRates...),
		TopSegmentLoc:   append([]int{}, o.TopSegmentLoc...),
		WellMap:         make(map[string]Info, len(o.WellMap)),
	}
	for k, v := range o.WellMap {
		c.WellMap[k] = v
	}
	return c
}

// CopyFrom copies all values from another state with the same dimensions
func (o *State) CopyFrom(src *State) {
	if len(o.SegPress) != len(src.SegPress) || len(o.PerfPress) != len(src.PerfPress) || len(o.Bhp) != len(src.Bhp) {
		chk.Panic("cannot copy well state with (nw,nseg,nperf) = (%d,%d,%d) into (%d,%d,%d)",
			len(src.Bhp), len(src.SegPress), len(src.PerfPress), len(o.Bhp), len(o.SegPress), len(o.PerfPress))
	}
	copy(o.Bhp, src.Bhp)
	copy(o.Thp, src.Thp)
	copy(o.WellRates, src.WellRates)
	copy(o.CurrentControls, src.CurrentControls)
	copy(o.PerfPress, src.PerfPress)
	copy(o.PerfPhaseRates, src.PerfPhaseRates)
	copy(o.SegPress, src.SegPress)
	copy(o.SegPhaseRates, src.SegPhaseRates)
	copy(o.TopSegmentLoc, src.TopSegmentLoc)
}

// SegRatesPhaseMajor returns the segment rates with segments running fastest: [p*nseg + s]
func (o *State) SegRatesPhaseMajor() []float64 {
	nseg := len(o.SegPress)
	res := make([]float64, nseg*o.Np)
	for s := 0; s < nseg; s++ {
		for p := 0; p < o.Np; p++ {
			res[p*nseg+s] = o.SegPhaseRates[o.Np*s+p]
		}
	}
	return res
}

// SetSegRatesPhaseMajor sets the segment rates from values with segments running fastest
func (o *State) SetSegRatesPhaseMajor(v []float64) {
	nseg := len(o.SegPress)
	if len(v) != nseg*o.Np {
		chk.Panic("segment rates must have %d values. %d is incorrect", nseg*o.Np, len(v))
	}
	for s := 0; s < nseg; s++ {
		for p := 0; p < o.Np; p++ {
			o.SegPhaseRates[o.Np*s+p] = v[p*nseg+s]
		}
	}
}

// SyncTopSegments sets bhp and well rates from the top segments
func (o *State) SyncTopSegments() {
	for w, top := range o.TopSegmentLoc {
		o.Bhp[w] = o.SegPress[top]
		for p := 0; p < o.Np; p++ {
			o.WellRates[o.Np*w+p] = o.SegPhaseRates[o.Np*top+p]
		}
	}
}

// ApplyUpdate subtracts a Newton increment from the segment variables and updates bhp and well
// rates from the top segments. Increments of rates are given with segments running fastest.
// Pressure increments are limited to dpMaxRel times the current segment pressure
func (o *State) ApplyUpdate(dsegqs, dsegp []float64, dpMaxRel float64) {
	nseg := len(o.SegPress)
	if len(dsegqs) != nseg*o.Np || len(dsegp) != nseg {
		chk.Panic("well increments must have %d rates and %d pressures. (%d,%d) is incorrect", nseg*o.Np, nseg, len(dsegqs), len(dsegp))
	}
	for s := 0; s < nseg; s++ {
		for p := 0; p < o.Np; p++ {
			o.SegPhaseRates[o.Np*s+p] -= dsegqs[p*nseg+s]
		}
		dp := math.Min(math.Abs(dsegp[s]), math.Abs(o.SegPress[s])*dpMaxRel)
		if dsegp[s] < 0 {
			dp = -dp
		}
		o.SegPress[s] -= dp
	}
	o.SyncTopSegments()
}
