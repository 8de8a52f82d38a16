// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/ad"
	"github.com/hakonhagland/opm-simulators/linsol"
	"github.com/hakonhagland/opm-simulators/wells"
)

// solveWellEq solves the well equations with the reservoir unknowns frozen. The unknowns are the
// segment rates and pressures only; segment fluid properties follow the iterates. At most
// Prms.MaxInnerIter Newton iterations are performed. If the iterations converge, the well variables
// of s are replaced by the new values (keeping their derivatives with respect to all unknowns) and
// the connection pressures are recomputed. Otherwise, the well state is restored. In both cases the
// segment fluid properties are re-evaluated with s
func (o *Model) solveWellEq(mob, b []ad.Value, s *SolutionState, xw *wells.State) (converged bool, err error) {

	// frozen reservoir
	np, nseg := o.np, o.Net.Nseg
	state0 := s.MakeConstant()
	xw0 := xw.Clone()
	mobc := make([]ad.Value, np)
	bc := make([]ad.Value, np)
	for ph := 0; ph < np; ph++ {
		mobc[ph] = mob[ph].Const()
		bc[ph] = b[ph].Const()
	}

	// iterations
	it := 0
	for {

		// well equations
		vars := ad.Variables(xw.SegRatesPhaseMajor(), xw.SegPress)
		ws := state0
		ws.SegQs, ws.SegP = vars[0], vars[1]
		o.setWellValues(&ws)
		o.computeSegmentFluidProperties(ws)
		o.computeSegmentPressuresDelta(ws)
		cqs, alive := o.computeWellFlux(ws, mobc, bc)
		o.updatePerfPhaseRatesAndPressures(cqs, ws, xw)
		o.addWellFluxEq(cqs, ws)
		o.addWellControlEq(ws, xw, alive)

		// check
		converged, err = o.wellConvergence()
		if err != nil {
			if o.Prms.Verbose {
				io.Pfyel("well solver: %v\n", err)
			}
			converged, err = false, nil
			break
		}
		if converged || it >= o.Prms.MaxInnerIter {
			break
		}
		it++

		// update
		eqs := ad.Vertcat(o.Res.WellFlux, o.Res.WellEq)
		dx, e := linsol.Solve(o.LinSol, ad.Collapse(eqs), eqs.Val)
		if e != nil {
			if o.Prms.Verbose {
				io.Pfyel("well solver: %v\n", e)
			}
			break
		}
		xw.ApplyUpdate(dx[:np*nseg], dx[np*nseg:], o.Prms.DpMaxRel)
		if err = wells.UpdateControls(o.Net.Wells, xw, o.Prms.Verbose); err != nil {
			return
		}
	}

	// failure
	if !converged {
		xw.CopyFrom(xw0)
	}

	// new well values with derivatives of all unknowns
	if converged {
		if o.Prms.Verbose {
			io.Pfgreen("well equations converged in %d iterations\n", it)
		}
		s.SegQs = s.SegQs.WithVal(xw.SegRatesPhaseMajor())
		s.SegP = s.SegP.WithVal(xw.SegPress)
		o.setWellValues(s)
		o.computeWellConnectionPressures(state0, xw)
	}
	o.computeSegmentFluidProperties(*s)
	o.computeSegmentPressuresDelta(*s)
	return
}
