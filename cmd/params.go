// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	goio "io"

	"github.com/spf13/cobra"

	"github.com/hakonhagland/opm-simulators/inp"
)

// paramsCmd prints the default parameters
var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the default model and solver parameters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printParams(cmd.OutOrStdout())
	},
}

// printParams prints default parameters as they are named in case files
func printParams(w goio.Writer) {
	var prms inp.ModelParams
	prms.SetDefault()
	fmt.Fprintf(w, "model:\n")
	for _, p := range prms.GetPrms() {
		fmt.Fprintf(w, "  %-20s %g\n", p.N, p.V)
	}
	var sol inp.SolverData
	sol.SetDefault()
	fmt.Fprintf(w, "solver:\n")
	fmt.Fprintf(w, "  %-20s %s\n", "type", sol.Type)
	fmt.Fprintf(w, "  %-20s %d\n", "nmaxit", sol.NmaxIt)
	fmt.Fprintf(w, "  %-20s %d\n", "nminit", sol.NminIt)
	fmt.Fprintf(w, "  %-20s %v\n", "dvgctrl", sol.DvgCtrl)
	fmt.Fprintf(w, "  %-20s %g\n", "dvgfactor", sol.DvgFactor)
	fmt.Fprintf(w, "  %-20s %d\n", "nmaxcuts", sol.NmaxCuts)
	fmt.Fprintf(w, "  %-20s %g\n", "cutfactor", sol.CutFactor)
	fmt.Fprintf(w, "  %-20s %g\n", "dtmin", sol.DtMin)
	var lsol inp.LinSolData
	lsol.SetDefault()
	fmt.Fprintf(w, "linsol:\n")
	fmt.Fprintf(w, "  %-20s %s\n", "name", lsol.Name)
}
