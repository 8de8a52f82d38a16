// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"github.com/cpmech/gosl/chk"
)

// NewCartesian returns a grid of nx×ny×nz cells with uniform sizes, permeability and porosity.
// Cells are numbered with x running fastest; top is the depth of the top face of the first layer
func NewCartesian(nx, ny, nz int, dx, dy, dz, perm, poro, top, gravity float64) (g *Grid, err error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, chk.Err("cartesian grid must have at least one cell in each direction. n = (%d,%d,%d)", nx, ny, nz)
	}
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return nil, chk.Err("cell sizes must be positive. d = (%g,%g,%g)", dx, dy, dz)
	}
	if perm <= 0 || poro <= 0 || poro > 1 {
		return nil, chk.Err("permeability must be positive and porosity must be in (0,1]. perm = %g, poro = %g", perm, poro)
	}
	n := nx * ny * nz
	g = &Grid{
		NumCells:   n,
		PoreVolume: make([]float64, n),
		Depth:      make([]float64, n),
		Gravity:    gravity,
	}
	id := func(i, j, k int) int { return i + nx*(j+ny*k) }

	// two-point transmissibilities of homogeneous cells: k・A/d
	tx := perm * dy * dz / dx
	ty := perm * dx * dz / dy
	tz := perm * dx * dy / dz
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := id(i, j, k)
				g.PoreVolume[c] = poro * dx * dy * dz
				g.Depth[c] = top + (float64(k)+0.5)*dz
				if i+1 < nx {
					g.Faces = append(g.Faces, [2]int{c, id(i+1, j, k)})
					g.Trans = append(g.Trans, tx)
				}
				if j+1 < ny {
					g.Faces = append(g.Faces, [2]int{c, id(i, j+1, k)})
					g.Trans = append(g.Trans, ty)
				}
				if k+1 < nz {
					g.Faces = append(g.Faces, [2]int{c, id(i, j, k+1)})
					g.Trans = append(g.Trans, tz)
				}
			}
		}
	}
	return
}
