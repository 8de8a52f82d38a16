// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package wells implements the topology of (multi-segment) wells, the operators mapping
// quantities between cells, perforations, segments and wells, the well state and the
// well control state machine
package wells

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Type of well
type Type int

const (
	Injector Type = iota
	Producer
)

// String returns the name of the well type
func (o Type) String() string {
	if o == Injector {
		return "injector"
	}
	return "producer"
}

// Segment holds data of a well segment. Segment 0 is the top segment
type Segment struct {
	Depth  float64 `json:"depth"`  // depth of segment node
	Volume float64 `json:"volume"` // volume of segment
	Outlet int     `json:"outlet"` // outlet segment; ignored for the top segment

	// derived
	Perfs []int `json:"-"` // perforations belonging to this segment (local indices)
	Cell  int   `json:"-"` // cell used to evaluate fluid properties in this segment
}

// Perforation holds data of a connection between a segment and a reservoir cell
type Perforation struct {
	Cell    int     `json:"cell"`    // cell index
	Trans   float64 `json:"trans"`   // connection transmissibility factor
	Depth   float64 `json:"depth"`   // depth of perforation
	Segment int     `json:"segment"` // segment owning this perforation
}

// Well holds the (immutable) definition of a well
type Well struct {
	Name         string         `json:"name"`         // name of well
	Type         Type           `json:"-"`            // injector or producer
	TypeName     string         `json:"type"`         // "injector" or "producer"
	MultiSegment bool           `json:"multisegment"` // multi-segment well; otherwise regular
	RefDepth     float64        `json:"refdepth"`     // depth of bhp reference; used if Segments is empty
	Segments     []*Segment     `json:"segments"`     // segments; may be empty for regular wells
	Perfs        []*Perforation `json:"perfs"`        // perforations
	Controls     []*Control     `json:"controls"`     // controls
	Current      int            `json:"current"`      // default current control
	CompFrac     []float64      `json:"compfrac"`     // nominal injection composition [np]
}

// Init checks data and computes derived quantities. np is the number of active phases
func (o *Well) Init(np int) (err error) {

	// type
	switch strings.ToLower(o.TypeName) {
	case "injector":
		o.Type = Injector
	case "producer", "":
		o.Type = Producer
	default:
		return chk.Err("well %q: type %q is invalid; options are \"injector\" and \"producer\"", o.Name, o.TypeName)
	}

	// perforations
	if len(o.Perfs) < 1 {
		return chk.Err("well %q must have at least one perforation", o.Name)
	}

	// regular wells have a single segment
	if !o.MultiSegment {
		if len(o.Segments) > 1 {
			return chk.Err("well %q is not multi-segment but has %d segments", o.Name, len(o.Segments))
		}
		if len(o.Segments) == 0 {
			o.Segments = []*Segment{{Depth: o.RefDepth}}
		}
		for _, p := range o.Perfs {
			p.Segment = 0
		}
	}
	nseg := len(o.Segments)
	if nseg < 1 {
		return chk.Err("well %q must have at least one segment", o.Name)
	}

	// segments
	for s, seg := range o.Segments {
		seg.Perfs = nil
		if s == 0 {
			seg.Outlet = -1
			continue
		}
		if seg.Outlet < 0 || seg.Outlet >= nseg || seg.Outlet == s {
			return chk.Err("well %q: outlet %d of segment %d is invalid", o.Name, seg.Outlet, s)
		}
	}
	for s := 1; s < nseg; s++ {
		if !o.reachesTop(s) {
			return chk.Err("well %q: segment %d is not connected to the top segment", o.Name, s)
		}
	}
	for i, p := range o.Perfs {
		if p.Segment < 0 || p.Segment >= nseg {
			return chk.Err("well %q: perforation %d refers to segment %d which is out of range", o.Name, i, p.Segment)
		}
		if p.Trans < 0 {
			return chk.Err("well %q: transmissibility factor of perforation %d must be non-negative", o.Name, i)
		}
		o.Segments[p.Segment].Perfs = append(o.Segments[p.Segment].Perfs, i)
	}
	for s, seg := range o.Segments {
		seg.Cell = o.segmentCell(s)
	}

	// controls
	if len(o.Controls) < 1 {
		return chk.Err("well %q must have at least one control", o.Name)
	}
	if o.Current < 0 || o.Current >= len(o.Controls) {
		return chk.Err("well %q: current control %d is out of range", o.Name, o.Current)
	}
	for i, c := range o.Controls {
		if err = c.init(np); err != nil {
			return chk.Err("well %q: control %d: %v", o.Name, i, err)
		}
	}

	// composition
	if len(o.CompFrac) == 0 {
		o.CompFrac = make([]float64, np)
		o.CompFrac[0] = 1
	}
	if len(o.CompFrac) != np {
		return chk.Err("well %q: composition must have %d values. %v is incorrect", o.Name, np, o.CompFrac)
	}
	sum := 0.0
	for _, v := range o.CompFrac {
		sum += v
	}
	if sum <= 0 {
		return chk.Err("well %q: composition %v must have a positive sum", o.Name, o.CompFrac)
	}
	return
}

// NumSegments returns the number of segments
func (o *Well) NumSegments() int { return len(o.Segments) }

// NumPerfs returns the number of perforations
func (o *Well) NumPerfs() int { return len(o.Perfs) }

// String returns a summary of the well
func (o *Well) String() string {
	return io.Sf("%s %q: %d segments, %d perforations, multisegment = %v", o.Type, o.Name, len(o.Segments), len(o.Perfs), o.MultiSegment)
}

// reachesTop follows outlets and tells whether the top segment is found
func (o *Well) reachesTop(s int) bool {
	for k := 0; k < len(o.Segments); k++ {
		if s == 0 {
			return true
		}
		s = o.Segments[s].Outlet
	}
	return false
}

// segmentCell returns the cell of the first perforation of a segment; segments without
// perforations borrow the cell of the closest segment towards the top that has one
func (o *Well) segmentCell(s int) int {
	for k := 0; k <= len(o.Segments) && s >= 0; k++ {
		if len(o.Segments[s].Perfs) > 0 {
			return o.Perfs[o.Segments[s].Perfs[0]].Cell
		}
		s = o.Segments[s].Outlet
	}
	return o.Perfs[0].Cell
}
