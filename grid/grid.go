// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid holds the grid topology, pore volumes and transmissibilities, and the discrete
// operators used to assemble finite-volume residuals
package grid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/ad"
)

// Grid holds the geometry and topology of a finite-volume grid. Only interior faces are stored
type Grid struct {
	NumCells   int       // number of cells
	Faces      [][2]int  // [nfaces][2] cells on each side of interior faces
	Trans      []float64 // [nfaces] transmissibilities
	PoreVolume []float64 // [ncells] pore volumes
	Depth      []float64 // [ncells] depth of cell centres (positive downwards)
	Gravity    float64   // gravity acceleration
}

// Check validates the grid data
func (o *Grid) Check() (err error) {
	if o.NumCells < 1 {
		return chk.Err("grid must have at least one cell")
	}
	if len(o.Trans) != len(o.Faces) {
		return chk.Err("number of transmissibilities (%d) must equal the number of faces (%d)", len(o.Trans), len(o.Faces))
	}
	if len(o.PoreVolume) != o.NumCells || len(o.Depth) != o.NumCells {
		return chk.Err("pore volumes (%d) and depths (%d) must be given for all %d cells", len(o.PoreVolume), len(o.Depth), o.NumCells)
	}
	for f, cells := range o.Faces {
		for _, c := range cells {
			if c < 0 || c >= o.NumCells {
				return chk.Err("face %d refers to cell %d which is out of range", f, c)
			}
		}
		if cells[0] == cells[1] {
			return chk.Err("face %d connects cell %d to itself", f, cells[0])
		}
	}
	for c, pv := range o.PoreVolume {
		if pv <= 0 {
			return chk.Err("pore volume of cell %d must be positive. pv = %g", c, pv)
		}
	}
	return
}

// NumFaces returns the number of interior faces
func (o *Grid) NumFaces() int { return len(o.Faces) }

// String returns a summary of the grid
func (o *Grid) String() string {
	return io.Sf("grid: %d cells, %d interior faces, gravity = %g", o.NumCells, len(o.Faces), o.Gravity)
}

// Ops holds the discrete operators
//   Ngrad:  (p[c0] - p[c1]) on each face; i.e. the negative gradient
//   Div:    Ngradᵀ; sums outgoing face fluxes into cells
//   Caver:  (x[c0] + x[c1]) / 2 on each face
type Ops struct {
	Ngrad *ad.Sparse // [nfaces][ncells]
	Div   *ad.Sparse // [ncells][nfaces]
	Caver *ad.Sparse // [nfaces][ncells]
	Faces [][2]int   // cells on each side of faces
	Ncell int        // number of cells
}

// NewOps builds the discrete operators of a grid
func NewOps(g *Grid) *Ops {
	nf := g.NumFaces()
	tg := ad.NewTriplet(nf, g.NumCells, 2*nf)
	ta := ad.NewTriplet(nf, g.NumCells, 2*nf)
	for f, cells := range g.Faces {
		tg.Put(f, cells[0], 1)
		tg.Put(f, cells[1], -1)
		ta.Put(f, cells[0], 0.5)
		ta.Put(f, cells[1], 0.5)
	}
	o := &Ops{Ngrad: tg.ToSparse(), Caver: ta.ToSparse(), Faces: g.Faces, Ncell: g.NumCells}
	o.Div = o.Ngrad.Transpose()
	return o
}

// Upwind selects the cell value on the upstream side of each face
type Upwind struct {
	Select *ad.Sparse // [nfaces][ncells]
}

// NewUpwind returns the upwind selector for a given face flux; the c0 side is chosen if flux >= 0
func (o *Ops) NewUpwind(flux []float64) *Upwind {
	if len(flux) != len(o.Faces) {
		chk.Panic("upwind: flux has %d values but there are %d faces", len(flux), len(o.Faces))
	}
	t := ad.NewTriplet(len(o.Faces), o.Ncell, len(o.Faces))
	for f, cells := range o.Faces {
		if flux[f] >= 0 {
			t.Put(f, cells[0], 1)
		} else {
			t.Put(f, cells[1], 1)
		}
	}
	return &Upwind{Select: t.ToSparse()}
}

// Apply returns the upwind face values of x
func (o *Upwind) Apply(x ad.Value) ad.Value {
	return ad.MatMul(o.Select, x)
}

// ApplyV returns the upwind face values of x
func (o *Upwind) ApplyV(x []float64) []float64 {
	return o.Select.MulVec(x)
}
