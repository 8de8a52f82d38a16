// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	goio "io"

	"github.com/fatih/color"

	"github.com/hakonhagland/opm-simulators/newton"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/wells"
)

// colours of the reports
var (
	colTitle = color.New(color.Bold, color.FgHiBlue)
	colOk    = color.New(color.FgHiGreen)
	colWarn  = color.New(color.FgYellow)
	colWell  = color.New(color.FgCyan)
)

// report prints the converged steps of a summary. Measures above the tolerances are highlighted
func report(w goio.Writer, sum *newton.Summary, tolMb, tolCnv float64) {
	colTitle.Fprintf(w, "\n%13s%13s%5s%13s%13s\n", "time", "Δt", "it", "max MB", "max CNV")
	for i := range sum.Times {
		mb, cnv := maxOf(sum.Norms[i].MB), maxOf(sum.Norms[i].CNV)
		fmt.Fprintf(w, "%13.6e%13.6e%5d", sum.Times[i], sum.Dts[i], sum.Iters[i])
		measure(w, mb, tolMb)
		measure(w, cnv, tolCnv)
		fmt.Fprintln(w)
	}
	col := colOk
	if sum.Ncuts > 0 {
		col = colWarn
	}
	col.Fprintf(w, "steps = %d, time step cuts = %d\n", len(sum.Times), sum.Ncuts)
}

// wellReport prints controls, bottom-hole pressures and surface rates of wells
func wellReport(w goio.Writer, wls []*wells.Well, xw *wells.State, pu phases.Usage) {
	np := pu.Num
	colTitle.Fprintf(w, "\n%-10s%-8s%13s", "well", "control", "bhp")
	for ph := 0; ph < np; ph++ {
		colTitle.Fprintf(w, "%13s", "q"+pu.Name(ph))
	}
	fmt.Fprintln(w)
	for k, well := range wls {
		ctrl := well.Controls[xw.CurrentControls[k]]
		colWell.Fprintf(w, "%-10s", well.Name)
		fmt.Fprintf(w, "%-8s%13.6e", ctrl.TypeName, xw.Bhp[k])
		for ph := 0; ph < np; ph++ {
			fmt.Fprintf(w, "%13.6e", xw.WellRates[k*np+ph])
		}
		fmt.Fprintln(w)
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func measure(w goio.Writer, v, tol float64) {
	if v < tol {
		colOk.Fprintf(w, "%13.6e", v)
		return
	}
	colWarn.Fprintf(w, "%13.6e", v)
}

func maxOf(v []float64) (res float64) {
	for _, x := range v {
		if x > res {
			res = x
		}
	}
	return
}
