// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Add returns a + b
func Add(a, b Value) Value {
	nb := congruent("add", a, b)
	v := make([]float64, a.Size())
	for i := range v {
		v[i] = a.Val[i] + b.Val[i]
	}
	return Value{Val: v, Jac: combine(nb, a, b, nil, nil)}
}

// Sub returns a - b
func Sub(a, b Value) Value {
	return Add(a, Neg(b))
}

// Neg returns -a
func Neg(a Value) Value {
	return Scale(-1, a)
}

// Scale returns α*a
func Scale(α float64, a Value) Value {
	v := make([]float64, a.Size())
	for i := range v {
		v[i] = α * a.Val[i]
	}
	var jac []*Sparse
	if !a.IsConstant() {
		jac = make([]*Sparse, a.NumBlocks())
		for g, b := range a.Jac {
			jac[g] = b.Scale(α)
		}
	}
	return Value{Val: v, Jac: jac}
}

// Shift returns a + c (c added to every entry)
func Shift(a Value, c float64) Value {
	v := make([]float64, a.Size())
	for i := range v {
		v[i] = a.Val[i] + c
	}
	return Value{Val: v, Jac: a.Jac}
}

// Mul returns the elementwise product a*b
func Mul(a, b Value) Value {
	nb := congruent("mul", a, b)
	v := make([]float64, a.Size())
	for i := range v {
		v[i] = a.Val[i] * b.Val[i]
	}
	return Value{Val: v, Jac: combine(nb, a, b, b.Val, a.Val)}
}

// Div returns the elementwise quotient a/b
func Div(a, b Value) Value {
	nb := congruent("div", a, b)
	n := a.Size()
	v := make([]float64, n)
	da := make([]float64, n)
	db := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = a.Val[i] / b.Val[i]
		da[i] = 1.0 / b.Val[i]
		db[i] = -a.Val[i] / (b.Val[i] * b.Val[i])
	}
	return Value{Val: v, Jac: combine(nb, a, b, da, db)}
}

// MulV returns the elementwise product a*d where d is constant
func MulV(a Value, d []float64) Value {
	return Mul(a, Value{Val: d})
}

// AddV returns a + d where d is constant
func AddV(a Value, d []float64) Value {
	return Add(a, Value{Val: d})
}

// MatMul returns m*a
func MatMul(m *Sparse, a Value) Value {
	if m.N != a.Size() {
		chk.Panic("ad: cannot multiply %d x %d matrix by value of size %d", m.M, m.N, a.Size())
	}
	var jac []*Sparse
	if !a.IsConstant() {
		jac = make([]*Sparse, a.NumBlocks())
		for g, b := range a.Jac {
			jac[g] = SpMul(m, b)
		}
	}
	return Value{Val: m.MulVec(a.Val), Jac: jac}
}

// Apply returns f(a) elementwise; df is the derivative of f
func Apply(a Value, f, df func(x float64) float64) Value {
	n := a.Size()
	v := make([]float64, n)
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = f(a.Val[i])
		d[i] = df(a.Val[i])
	}
	return Value{Val: v, Jac: combine(a.NumBlocks(), a, Value{Val: v}, d, nil)}
}

// Exp returns exp(a) elementwise
func Exp(a Value) Value {
	return Apply(a, math.Exp, math.Exp)
}

// Sum returns the sum of all entries of a as a value of size one
func Sum(a Value) Value {
	t := NewTriplet(1, a.Size(), a.Size())
	for j := 0; j < a.Size(); j++ {
		t.Put(0, j, 1)
	}
	return MatMul(t.ToSparse(), a)
}

// Subset returns a[idx]
func Subset(a Value, idx []int) Value {
	v := make([]float64, len(idx))
	for k, i := range idx {
		v[k] = a.Val[i]
	}
	var jac []*Sparse
	if !a.IsConstant() {
		jac = make([]*Sparse, a.NumBlocks())
		for g, b := range a.Jac {
			jac[g] = b.Rows(idx)
		}
	}
	return Value{Val: v, Jac: jac}
}

// Superset returns a vector of size n with a placed at idx and zeros elsewhere
func Superset(a Value, idx []int, n int) Value {
	if len(idx) != a.Size() {
		chk.Panic("ad: superset needs %d indices but got %d", a.Size(), len(idx))
	}
	return MatMul(Scatter(idx, n), a)
}

// Abs returns |a| elementwise
func Abs(a Value) Value {
	sign := func(x float64) float64 {
		if x < 0 {
			return -1
		}
		return 1
	}
	return Apply(a, math.Abs, sign)
}

// MaxAbs returns the largest absolute value of v (zero if empty)
func MaxAbs(v []float64) (res float64) {
	for _, x := range v {
		if math.Abs(x) > res {
			res = math.Abs(x)
		}
	}
	return
}
