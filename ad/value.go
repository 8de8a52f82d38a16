// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ad implements forward-mode automatic differentiation of vector quantities.
//
//  A Value holds a vector of values plus an ordered list of sparse derivative blocks:
//
//        Jac[g] = ∂Val/∂x_g      for each variable group g = 0...ngroups-1
//
//  A Value without blocks is a constant. Values combined by any binary operation must have
//  the same length and either the same number of blocks or one of them must be constant.
package ad

import (
	"github.com/cpmech/gosl/chk"
)

// Value holds values and derivatives
type Value struct {
	Val []float64 // values
	Jac []*Sparse // derivative blocks; one per variable group. nil => constant
}

// Constant returns a value without derivatives
func Constant(v []float64) Value {
	return Value{Val: append([]float64{}, v...)}
}

// Zeros returns a constant with n zeros
func Zeros(n int) Value {
	return Value{Val: make([]float64, n)}
}

// Fill returns a constant with n values equal to v
func Fill(n int, v float64) Value {
	o := Zeros(n)
	for i := range o.Val {
		o.Val[i] = v
	}
	return o
}

// Function returns a value with given derivative blocks
func Function(v []float64, jac []*Sparse) Value {
	for g, b := range jac {
		if b.M != len(v) {
			chk.Panic("ad: block %d has %d rows but value has size %d", g, b.M, len(v))
		}
	}
	return Value{Val: v, Jac: jac}
}

// Variables returns one independent variable per group. The derivative of variable i with
// respect to group j is the identity if i == j and zero otherwise
func Variables(vals ...[]float64) []Value {
	res := make([]Value, len(vals))
	for i, vi := range vals {
		jac := make([]*Sparse, len(vals))
		for j, vj := range vals {
			if i == j {
				jac[j] = Identity(len(vi))
			} else {
				jac[j] = NewSparse(len(vi), len(vj))
			}
		}
		res[i] = Value{Val: append([]float64{}, vi...), Jac: jac}
	}
	return res
}

// Size returns the number of values
func (o Value) Size() int { return len(o.Val) }

// NumBlocks returns the number of derivative blocks
func (o Value) NumBlocks() int { return len(o.Jac) }

// IsConstant tells whether o has no derivatives
func (o Value) IsConstant() bool { return len(o.Jac) == 0 }

// Const returns a copy of o without derivatives
func (o Value) Const() Value { return Constant(o.Val) }

// WithVal returns a value with new values and the derivatives of o
func (o Value) WithVal(v []float64) Value {
	if len(v) != len(o.Val) {
		chk.Panic("ad: cannot replace %d values by %d", len(o.Val), len(v))
	}
	return Value{Val: append([]float64{}, v...), Jac: o.Jac}
}

// BlockSizes returns the number of columns of each block
func (o Value) BlockSizes() []int {
	sizes := make([]int, len(o.Jac))
	for g, b := range o.Jac {
		sizes[g] = b.N
	}
	return sizes
}

// KeepLast returns o with only the last n derivative blocks. Constants are returned as they are
func KeepLast(o Value, n int) Value {
	if o.IsConstant() {
		return o
	}
	nb := o.NumBlocks()
	if nb < n {
		chk.Panic("ad: cannot keep %d blocks of value with %d blocks", n, nb)
	}
	return Value{Val: o.Val, Jac: o.Jac[nb-n:]}
}

// Collapse returns all blocks of o concatenated horizontally
func Collapse(o Value) *Sparse {
	return Hcat(o.Jac)
}

// Vertcat stacks values vertically. Constants get zero blocks
func Vertcat(vals ...Value) Value {
	var sizes []int
	for _, v := range vals {
		if !v.IsConstant() {
			if sizes == nil {
				sizes = v.BlockSizes()
			} else if len(sizes) != v.NumBlocks() {
				chk.Panic("ad: cannot stack values with %d and %d blocks", len(sizes), v.NumBlocks())
			}
		}
	}
	var res Value
	for _, v := range vals {
		res.Val = append(res.Val, v.Val...)
	}
	if sizes == nil {
		return res
	}
	res.Jac = make([]*Sparse, len(sizes))
	for g, n := range sizes {
		blocks := make([]*Sparse, len(vals))
		for k, v := range vals {
			if v.IsConstant() {
				blocks[k] = NewSparse(v.Size(), n)
			} else {
				blocks[k] = v.Jac[g]
			}
		}
		res.Jac[g] = Vcat(blocks)
	}
	return res
}

// Span returns num indices starting at start with given stride
func Span(num, stride, start int) []int {
	idx := make([]int, num)
	for i := 0; i < num; i++ {
		idx[i] = start + i*stride
	}
	return idx
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// congruent checks sizes and returns the number of blocks of the result
func congruent(op string, a, b Value) int {
	if a.Size() != b.Size() {
		chk.Panic("ad: %s: sizes differ: %d != %d", op, a.Size(), b.Size())
	}
	if a.IsConstant() {
		return b.NumBlocks()
	}
	if b.IsConstant() {
		return a.NumBlocks()
	}
	if a.NumBlocks() != b.NumBlocks() {
		chk.Panic("ad: %s: number of blocks differ: %d != %d", op, a.NumBlocks(), b.NumBlocks())
	}
	return a.NumBlocks()
}

// combine computes blocks da*Ja + db*Jb (nil scalings mean identity)
func combine(nb int, a, b Value, da, db []float64) []*Sparse {
	if nb == 0 {
		return nil
	}
	jac := make([]*Sparse, nb)
	for g := 0; g < nb; g++ {
		var ja, jb *Sparse
		if !a.IsConstant() {
			ja = scaled(a.Jac[g], da)
		}
		if !b.IsConstant() {
			jb = scaled(b.Jac[g], db)
		}
		switch {
		case ja == nil:
			jac[g] = jb
		case jb == nil:
			jac[g] = ja
		default:
			jac[g] = SpAdd(1, ja, 1, jb)
		}
	}
	return jac
}

func scaled(m *Sparse, d []float64) *Sparse {
	if d == nil {
		return m
	}
	return m.ScaleRows(d)
}
