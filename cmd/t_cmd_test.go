// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakonhagland/opm-simulators/model"
	"github.com/hakonhagland/opm-simulators/newton"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/wells"
)

func init() {
	color.NoColor = true
}

func Test_params01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("params01. default parameters")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"params"})
	require.NoError(tst, rootCmd.Execute())
	out := buf.String()
	io.Pforan("%s", out)

	assert.Contains(tst, out, "model:")
	assert.Contains(tst, out, "solver:")
	assert.Contains(tst, out, "linsol:")
	assert.Regexp(tst, `maxinneriter\s+15\n`, out)
	assert.Regexp(tst, `tolmb\s+1e-07\n`, out)
	assert.Regexp(tst, `nmaxcuts\s+6\n`, out)
	assert.Regexp(tst, `name\s+lu\n`, out)
}

func Test_report01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("report01. convergence and well reports")

	sum := &newton.Summary{
		Times: []float64{10, 30},
		Dts:   []float64{10, 20},
		Iters: []int{3, 4},
		Norms: []model.Norms{
			{MB: []float64{1e-9, 2e-9}, CNV: []float64{1e-4, 2e-4}},
			{MB: []float64{1e-8, 5e-8}, CNV: []float64{3e-3, 1e-5}},
		},
		Ncuts: 2,
	}
	var buf bytes.Buffer
	report(&buf, sum, 1e-7, 1e-2)
	out := buf.String()
	io.Pforan("%s", out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(tst, lines, 4)
	assert.Contains(tst, lines[0], "max CNV")
	assert.Contains(tst, lines[1], "2.000000e-04")
	assert.Contains(tst, lines[2], "5.000000e-08")
	assert.Equal(tst, "steps = 2, time step cuts = 2", lines[3])

	// wells
	pu, err := phases.New(true, true, false)
	require.NoError(tst, err)
	wls := []*wells.Well{
		{Name: "INJ", Controls: []*wells.Control{{TypeName: "bhp"}}},
		{Name: "PROD", Controls: []*wells.Control{{TypeName: "bhp"}, {TypeName: "rate"}}},
	}
	xw := &wells.State{
		CurrentControls: []int{0, 1},
		Bhp:             []float64{2.2e7, 1.9e7},
		WellRates:       []float64{1e-3, 0, 0, -1e-3},
	}
	buf.Reset()
	wellReport(&buf, wls, xw, pu)
	out = buf.String()
	io.Pforan("%s", out)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(tst, lines, 3)
	assert.Contains(tst, lines[0], "qwater")
	assert.Contains(tst, lines[0], "qoil")
	assert.True(tst, strings.HasPrefix(lines[2], "PROD"))
	assert.Contains(tst, lines[2], "rate")
	assert.Contains(tst, lines[2], "-1.000000e-03")
}

func Test_run01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("run01. run two-phase case")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"run", "../inp/data/twophase.yaml", "--summary=false", "--log", "error"})
	require.NoError(tst, rootCmd.Execute())
	out := buf.String()
	io.Pforan("%s", out)
	assert.Contains(tst, out, "time step cuts")
	assert.Contains(tst, out, "INJ")
	assert.Contains(tst, out, "PROD")

	// errors
	rootCmd.SetArgs([]string{"run", "../inp/data/nonexistent.yaml", "--log", "panic"})
	assert.Error(tst, rootCmd.Execute())
	rootCmd.SetArgs([]string{"run", "../inp/data/twophase.yaml", "--comm", "pvm", "--log", "panic"})
	assert.Error(tst, rootCmd.Execute())
	rootCmd.SetArgs([]string{"params", "--log", "loud"})
	assert.Error(tst, rootCmd.Execute())
}
