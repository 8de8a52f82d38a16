// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package linsol implements the linear solvers of Newton iterations
package linsol

import (
	"github.com/cpmech/gosl/chk"

	"github.com/hakonhagland/opm-simulators/ad"
)

// LinSol defines linear solvers of J・x = b
type LinSol interface {
	Init(J *ad.Sparse, verbose bool) error // initialises solver with a square matrix
	Fact() error                           // factorises matrix
	Solve(x, b []float64) error            // solves J・x = b; x must have the right size
	Free()                                 // clears allocated memory
}

// allocators holds all available solvers
var allocators = map[string]func() LinSol{}

// New returns a new linear solver
func New(name string) (LinSol, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("linear solver %q is not available in 'linsol' database", name)
	}
	return allocator(), nil
}

// Solve initialises, factorises and solves J・x = b with the named solver
func Solve(name string, J *ad.Sparse, b []float64) (x []float64, err error) {
	sol, err := New(name)
	if err != nil {
		return
	}
	defer sol.Free()
	if err = sol.Init(J, false); err != nil {
		return
	}
	if err = sol.Fact(); err != nil {
		return
	}
	x = make([]float64, len(b))
	err = sol.Solve(x, b)
	return
}
