// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hakonhagland/opm-simulators/comm"
	"github.com/hakonhagland/opm-simulators/inp"
	"github.com/hakonhagland/opm-simulators/model"
	"github.com/hakonhagland/opm-simulators/newton"
	"github.com/hakonhagland/opm-simulators/wells"
)

// flags of run
var (
	commName    string // communicator
	verbose     bool   // show messages of solvers
	saveSummary bool   // save summary at the end
	showReport  bool   // print the convergence report
)

// runCmd runs a simulation case
var runCmd = &cobra.Command{
	Use:   "run <case>",
	Short: "Run a simulation case (.json, .yaml or .yml)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCase(cmd, args[0])
	},
}

func init() {
	runCmd.Flags().StringVar(&commName, "comm", "serial", "communicator: serial or mpi")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show messages of nonlinear solvers")
	runCmd.Flags().BoolVar(&saveSummary, "summary", true, "save summary to the output directory")
	runCmd.Flags().BoolVar(&showReport, "report", true, "print convergence report")
}

// runCase reads, allocates and runs a case
func runCase(cmd *cobra.Command, casefile string) (err error) {

	// communicator
	cm, err := comm.New(commName)
	if err != nil {
		return
	}
	chk.Verbose = verbose && cm.Rank() == 0

	// input
	c, err := inp.ReadCase(casefile)
	if err != nil {
		return
	}
	log := logrus.WithField("case", c.Key)
	log.Infof("%s", c.Data.Desc)
	log.Debugf("grid: %v", c.Mesh)
	c.Model.Verbose = chk.Verbose

	// model and states
	mdl, x, xw, err := model.FromCase(c, cm)
	if err != nil {
		return
	}
	log.WithFields(logrus.Fields{
		"cells":    c.Mesh.NumCells,
		"phases":   c.Phases.Num,
		"wells":    mdl.Net.Nw,
		"segments": mdl.Net.Nseg,
		"unknowns": mdl.NumVars(),
	}).Info("model allocated")

	// solver
	sum := new(newton.Summary)
	sol, err := newton.New(c.Solver.Type, mdl, &c.Solver, &c.LinSol, sum, chk.Verbose)
	if err != nil {
		return
	}
	run := newton.NewRunner(sol, &c.Solver, sum, chk.Verbose)
	run.OnStep = func(t, dt float64, rep newton.Report, x *model.ReservoirState, xw *wells.State) {
		log.WithFields(logrus.Fields{
			"dt": dt,
			"it": rep.Iterations,
		}).Debugf("time = %g", t)
	}

	// run
	start := time.Now()
	err = run.Run(c.Schedule, c.Wells, x, xw)
	if err != nil {
		log.Errorf("simulation failed at time = %g", run.Time)
		return
	}
	log.WithFields(logrus.Fields{
		"steps":   len(sum.Times),
		"cuts":    sum.Ncuts,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("simulation finished")

	// output
	if showReport && cm.Rank() == 0 {
		report(cmd.OutOrStdout(), sum, c.Model.TolMb, c.Model.TolCnv)
		wellReport(cmd.OutOrStdout(), c.Wells, xw, c.Phases)
	}
	if saveSummary {
		err = sum.Save(c.Data.DirOut, c.Key, c.Data.Enc, cm.Size(), cm.Rank(), chk.Verbose)
		if err != nil {
			return
		}
		log.Infof("summary saved in %q", c.Data.DirOut)
	}
	return
}
