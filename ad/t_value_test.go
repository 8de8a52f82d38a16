// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// numJac computes the Jacobian of f with respect to group g by central differences
func numJac(f func(x [][]float64) []float64, x [][]float64, g int) [][]float64 {
	h := 1e-6
	y0 := f(x)
	res := make([][]float64, len(y0))
	for i := range res {
		res[i] = make([]float64, len(x[g]))
	}
	for j := range x[g] {
		tmp := x[g][j]
		x[g][j] = tmp + h
		yp := f(x)
		x[g][j] = tmp - h
		ym := f(x)
		x[g][j] = tmp
		for i := range y0 {
			res[i][j] = (yp[i] - ym[i]) / (2 * h)
		}
	}
	return res
}

func checkJac(tst *testing.T, msg string, v Value, f func(x [][]float64) []float64, x [][]float64, tol float64) {
	for g := range x {
		num := numJac(f, x, g)
		ana := v.Jac[g].ToDense()
		for i := range num {
			for j := range num[i] {
				chk.AnaNum(tst, io.Sf("%s: d%d/dx%d[%d]", msg, i, g, j), tol, ana[i][j], num[i][j], chk.Verbose)
			}
		}
	}
}

func Test_sparse01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sparse01")

	t := NewTriplet(3, 3, 6)
	t.Put(0, 0, 1)
	t.Put(0, 2, 2)
	t.Put(1, 1, 3)
	t.Put(2, 0, 4)
	t.Put(2, 0, 1) // duplicate
	a := t.ToSparse()
	chk.Ints(tst, "Rp", a.Rp, []int{0, 2, 3, 4})
	chk.Ints(tst, "Ci", a.Ci, []int{0, 2, 1, 0})
	chk.Array(tst, "X", 1e-17, a.X, []float64{1, 2, 3, 5})

	chk.Array(tst, "a*x", 1e-15, a.MulVec([]float64{1, 1, 1}), []float64{3, 3, 5})
	chk.Float64(tst, "aᵀ(0,2)", 1e-17, a.Transpose().At(0, 2), 5)

	b := SpMul(a, Identity(3))
	chk.Array(tst, "a*I", 1e-17, b.X, a.X)

	c := SpAdd(1, a, -1, a)
	chk.Array(tst, "a-a", 1e-17, c.MulVec([]float64{1, 2, 3}), []float64{0, 0, 0})

	h := Hcat([]*Sparse{a, Identity(3)})
	chk.IntAssert(h.N, 6)
	chk.Float64(tst, "h(1,4)", 1e-17, h.At(1, 4), 1)

	v := Vcat([]*Sparse{a, Gather([]int{2}, 3)})
	chk.IntAssert(v.M, 4)
	chk.Float64(tst, "v(3,2)", 1e-17, v.At(3, 2), 1)

	s := Scatter([]int{2, 0}, 4)
	chk.Array(tst, "scatter", 1e-17, s.MulVec([]float64{7, 8}), []float64{8, 0, 7, 0})
}

func Test_value01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("value01")

	x0 := [][]float64{{1, 2, 3}, {0.5, -1, 2}}
	f := func(x [][]float64) []float64 {
		y := make([]float64, 3)
		for i := range y {
			y[i] = (x[0][i]*x[1][i]+2*x[0][i])/(x[1][i]*x[1][i]+1) - math.Exp(x[1][i])
		}
		return y
	}
	vars := Variables(x0...)
	a, b := vars[0], vars[1]
	v := Sub(Div(Add(Mul(a, b), Scale(2, a)), Shift(Mul(b, b), 1)), Exp(b))
	chk.Array(tst, "val", 1e-14, v.Val, f(x0))
	checkJac(tst, "arith", v, f, x0, 1e-7)
}

func Test_value02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("value02")

	x0 := [][]float64{{1, -2, 3, 4}}
	a := Variables(x0...)[0]

	// subset and superset
	sub := Subset(a, []int{3, 1})
	chk.Array(tst, "subset", 1e-17, sub.Val, []float64{4, -2})
	chk.Float64(tst, "dsub/da", 1e-17, sub.Jac[0].At(0, 3), 1)
	sup := Superset(sub, []int{0, 4}, 5)
	chk.Array(tst, "superset", 1e-17, sup.Val, []float64{4, 0, 0, 0, -2})
	chk.Float64(tst, "dsup/da", 1e-17, sup.Jac[0].At(4, 1), 1)

	// selector
	sel := NewSelector(a.Val, GreaterZero)
	res := sel.Select(Scale(2, a), Constant([]float64{9, 9, 9, 9}))
	chk.Array(tst, "select", 1e-17, res.Val, []float64{2, 9, 6, 8})
	chk.Float64(tst, "dsel(0,0)", 1e-17, res.Jac[0].At(0, 0), 2)
	chk.Float64(tst, "dsel(1,1)", 1e-17, res.Jac[0].At(1, 1), 0)
	chk.Array(tst, "ones", 1e-17, sel.Ones(), []float64{1, 0, 1, 1})

	// sum and span
	s := Sum(a)
	chk.Array(tst, "sum", 1e-17, s.Val, []float64{6})
	chk.Array(tst, "dsum", 1e-17, s.Jac[0].MulVec([]float64{1, 1, 1, 1}), []float64{4})
	chk.Ints(tst, "span", Span(3, 2, 1), []int{1, 3, 5})
}

func Test_value03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("value03")

	vars := Variables([]float64{1, 2}, []float64{3}, []float64{4, 5, 6})
	chk.IntAssert(vars[2].NumBlocks(), 3)
	chk.Ints(tst, "block sizes", vars[0].BlockSizes(), []int{2, 1, 3})

	// keep last drops leading blocks
	k := KeepLast(vars[1], 2)
	chk.Ints(tst, "kept sizes", k.BlockSizes(), []int{1, 3})
	chk.IntAssert(KeepLast(Constant([]float64{1}), 2).NumBlocks(), 0)

	// vertcat with a constant
	v := Vertcat(vars[0], Constant([]float64{7}), vars[1])
	chk.Array(tst, "vertcat", 1e-17, v.Val, []float64{1, 2, 7, 3})
	J := Collapse(v)
	chk.IntAssert(J.M, 4)
	chk.IntAssert(J.N, 6)
	chk.Float64(tst, "J(3,2)", 1e-17, J.At(3, 2), 1)
	chk.Float64(tst, "J(2,*)", 1e-17, float64(J.Rp[3]-J.Rp[2]), 0)

	// constants don't get derivatives
	c := Mul(Constant([]float64{1, 2}), Constant([]float64{3, 4}))
	if !c.IsConstant() {
		tst.Errorf("product of constants must be constant\n")
	}
	m := MulV(vars[0], []float64{2, 3})
	chk.Float64(tst, "dm(1,1)", 1e-17, m.Jac[0].At(1, 1), 3)
	if !vars[0].Const().IsConstant() {
		tst.Errorf("Const() must drop derivatives\n")
	}
}

func Test_value04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("value04. incongruent blocks")

	defer func() {
		if err := recover(); err == nil {
			tst.Errorf("adding values with different block counts must panic\n")
		}
	}()
	a := Variables([]float64{1}, []float64{2})[0]
	b := Variables([]float64{1}, []float64{2}, []float64{3})[0]
	Add(a, b)
}
