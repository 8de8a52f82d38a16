// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsol

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"

	"github.com/hakonhagland/opm-simulators/ad"
)

// denseFactor is a dense factorisation from gonum
type denseFactor interface {
	Cond() float64
	SolveVecTo(dst *mat.VecDense, trans bool, b mat.Vector) error
}

// Dense implements dense direct solvers: LU with partial pivoting or QR
type Dense struct {
	name    string      // "lu" or "qr"
	a       *mat.Dense  // matrix
	fac     denseFactor // factorisation
	verbose bool        // show messages
}

// add solvers to database
func init() {
	allocators["lu"] = func() LinSol { return &Dense{name: "lu"} }
	allocators["qr"] = func() LinSol { return &Dense{name: "qr"} }
}

// Init initialises solver
func (o *Dense) Init(J *ad.Sparse, verbose bool) (err error) {
	if J.M != J.N {
		return chk.Err("matrix must be square. %d x %d is invalid", J.M, J.N)
	}
	if J.M == 0 {
		return chk.Err("matrix is empty")
	}
	o.verbose = verbose
	o.a = mat.NewDense(J.M, J.N, nil)
	for i := 0; i < J.M; i++ {
		for k := J.Rp[i]; k < J.Rp[i+1]; k++ {
			o.a.Set(i, J.Ci[k], J.X[k])
		}
	}
	o.fac = nil
	return
}

// Fact factorises matrix
func (o *Dense) Fact() (err error) {
	if o.a == nil {
		return chk.Err("solver must be initialised first")
	}
	switch o.name {
	case "qr":
		var qr mat.QR
		qr.Factorize(o.a)
		o.fac = &qr
	default:
		var lu mat.LU
		lu.Factorize(o.a)
		o.fac = &lu
	}
	cond := o.fac.Cond()
	if o.verbose {
		r, _ := o.a.Dims()
		io.Pf("%s: n = %d, cond = %g\n", o.name, r, cond)
	}
	// badly scaled systems (e.g. with segment rates and pressures) are accepted; only exactly
	// singular factorisations are rejected
	if math.IsInf(cond, 0) || math.IsNaN(cond) {
		return chk.Err("%s: matrix is singular (cond = %g)", o.name, cond)
	}
	return
}

// Solve solves J・x = b
func (o *Dense) Solve(x, b []float64) (err error) {
	if o.fac == nil {
		return chk.Err("matrix must be factorised first")
	}
	r, _ := o.a.Dims()
	if len(x) != r || len(b) != r {
		return chk.Err("x and b must have %d entries. (%d,%d) is incorrect", r, len(x), len(b))
	}
	dst := mat.NewVecDense(r, x)
	err = o.fac.SolveVecTo(dst, false, mat.NewVecDense(r, append([]float64{}, b...)))
	if _, ok := err.(mat.Condition); ok {
		err = nil
	}
	if err != nil {
		return chk.Err("%s: %v", o.name, err)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return chk.Err("%s: solution is not finite: x[%d] = %g", o.name, i, v)
		}
	}
	return
}

// Free clears allocated memory
func (o *Dense) Free() {
	o.a = nil
	o.fac = nil
}
