// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Sparse is a sparse matrix in compressed-row format
type Sparse struct {
	M, N int       // dimensions
	Rp   []int     // [M+1] row pointers
	Ci   []int     // [nnz] column indices (sorted within each row)
	X    []float64 // [nnz] values
}

// Triplet is used to assemble sparse matrices. Duplicates are summed up by ToSparse
type Triplet struct {
	m, n int
	i, j []int
	x    []float64
}

// NewTriplet returns a new triplet with space for max entries
func NewTriplet(m, n, max int) *Triplet {
	return &Triplet{m: m, n: n, i: make([]int, 0, max), j: make([]int, 0, max), x: make([]float64, 0, max)}
}

// Put adds an entry to the triplet
func (o *Triplet) Put(i, j int, x float64) {
	if i < 0 || i >= o.m || j < 0 || j >= o.n {
		chk.Panic("triplet: index (%d,%d) is outside %d x %d matrix", i, j, o.m, o.n)
	}
	o.i = append(o.i, i)
	o.j = append(o.j, j)
	o.x = append(o.x, x)
}

// Len returns the number of entries put so far
func (o *Triplet) Len() int { return len(o.x) }

// ToSparse converts triplet to compressed-row format
func (o *Triplet) ToSparse() *Sparse {
	rows := make([]map[int]float64, o.m)
	for k := range o.x {
		if rows[o.i[k]] == nil {
			rows[o.i[k]] = make(map[int]float64)
		}
		rows[o.i[k]][o.j[k]] += o.x[k]
	}
	a := &Sparse{M: o.m, N: o.n, Rp: make([]int, o.m+1)}
	for r := 0; r < o.m; r++ {
		cols := make([]int, 0, len(rows[r]))
		for c := range rows[r] {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			a.Ci = append(a.Ci, c)
			a.X = append(a.X, rows[r][c])
		}
		a.Rp[r+1] = len(a.Ci)
	}
	return a
}

// NewSparse returns an m x n matrix with no nonzeros
func NewSparse(m, n int) *Sparse {
	return &Sparse{M: m, N: n, Rp: make([]int, m+1)}
}

// Identity returns the n x n identity matrix
func Identity(n int) *Sparse {
	a := &Sparse{M: n, N: n, Rp: make([]int, n+1), Ci: make([]int, n), X: make([]float64, n)}
	for i := 0; i < n; i++ {
		a.Rp[i+1] = i + 1
		a.Ci[i] = i
		a.X[i] = 1
	}
	return a
}

// Diag returns a square matrix with d on the diagonal
func Diag(d []float64) *Sparse {
	a := Identity(len(d))
	copy(a.X, d)
	return a
}

// Gather returns the len(idx) x n matrix G such that G*x == x[idx]
func Gather(idx []int, n int) *Sparse {
	t := NewTriplet(len(idx), n, len(idx))
	for k, i := range idx {
		t.Put(k, i, 1)
	}
	return t.ToSparse()
}

// Scatter returns the n x len(idx) matrix S such that (S*y)[idx[k]] == y[k]
func Scatter(idx []int, n int) *Sparse {
	t := NewTriplet(n, len(idx), len(idx))
	for k, i := range idx {
		t.Put(i, k, 1)
	}
	return t.ToSparse()
}

// Nnz returns the number of stored entries
func (o *Sparse) Nnz() int { return len(o.X) }

// At returns entry (i,j)
func (o *Sparse) At(i, j int) float64 {
	for k := o.Rp[i]; k < o.Rp[i+1]; k++ {
		if o.Ci[k] == j {
			return o.X[k]
		}
	}
	return 0
}

// Copy returns a deep copy
func (o *Sparse) Copy() *Sparse {
	return &Sparse{
		M:  o.M,
		N:  o.N,
		Rp: append([]int{}, o.Rp...),
		Ci: append([]int{}, o.Ci...),
		X:  append([]float64{}, o.X...),
	}
}

// MulVec returns o*x
func (o *Sparse) MulVec(x []float64) []float64 {
	if len(x) != o.N {
		chk.Panic("sparse: cannot multiply %d x %d matrix by vector of length %d", o.M, o.N, len(x))
	}
	y := make([]float64, o.M)
	for i := 0; i < o.M; i++ {
		for k := o.Rp[i]; k < o.Rp[i+1]; k++ {
			y[i] += o.X[k] * x[o.Ci[k]]
		}
	}
	return y
}

// Scale returns α*o
func (o *Sparse) Scale(α float64) *Sparse {
	c := o.Copy()
	for k := range c.X {
		c.X[k] *= α
	}
	return c
}

// Transpose returns oᵀ
func (o *Sparse) Transpose() *Sparse {
	t := NewTriplet(o.N, o.M, o.Nnz())
	for i := 0; i < o.M; i++ {
		for k := o.Rp[i]; k < o.Rp[i+1]; k++ {
			t.Put(o.Ci[k], i, o.X[k])
		}
	}
	return t.ToSparse()
}

// Rows returns the matrix made of the rows in idx
func (o *Sparse) Rows(idx []int) *Sparse {
	a := &Sparse{M: len(idx), N: o.N, Rp: make([]int, len(idx)+1)}
	for r, i := range idx {
		a.Ci = append(a.Ci, o.Ci[o.Rp[i]:o.Rp[i+1]]...)
		a.X = append(a.X, o.X[o.Rp[i]:o.Rp[i+1]]...)
		a.Rp[r+1] = len(a.Ci)
	}
	return a
}

// ScaleRows returns diag(d)*o
func (o *Sparse) ScaleRows(d []float64) *Sparse {
	if len(d) != o.M {
		chk.Panic("sparse: cannot scale rows of %d x %d matrix with %d values", o.M, o.N, len(d))
	}
	c := o.Copy()
	for i := 0; i < c.M; i++ {
		for k := c.Rp[i]; k < c.Rp[i+1]; k++ {
			c.X[k] *= d[i]
		}
	}
	return c
}

// ToDense returns a dense copy; row-major
func (o *Sparse) ToDense() [][]float64 {
	a := make([][]float64, o.M)
	for i := 0; i < o.M; i++ {
		a[i] = make([]float64, o.N)
		for k := o.Rp[i]; k < o.Rp[i+1]; k++ {
			a[i][o.Ci[k]] += o.X[k]
		}
	}
	return a
}

// SpAdd returns α*a + β*b
func SpAdd(α float64, a *Sparse, β float64, b *Sparse) *Sparse {
	if a.M != b.M || a.N != b.N {
		chk.Panic("sparse: cannot add %d x %d and %d x %d matrices", a.M, a.N, b.M, b.N)
	}
	t := NewTriplet(a.M, a.N, a.Nnz()+b.Nnz())
	for i := 0; i < a.M; i++ {
		for k := a.Rp[i]; k < a.Rp[i+1]; k++ {
			t.Put(i, a.Ci[k], α*a.X[k])
		}
		for k := b.Rp[i]; k < b.Rp[i+1]; k++ {
			t.Put(i, b.Ci[k], β*b.X[k])
		}
	}
	return t.ToSparse()
}

// SpMul returns a*b
func SpMul(a, b *Sparse) *Sparse {
	if a.N != b.M {
		chk.Panic("sparse: cannot multiply %d x %d by %d x %d matrices", a.M, a.N, b.M, b.N)
	}
	c := &Sparse{M: a.M, N: b.N, Rp: make([]int, a.M+1)}
	acc := make(map[int]float64)
	for i := 0; i < a.M; i++ {
		for k := a.Rp[i]; k < a.Rp[i+1]; k++ {
			j, aij := a.Ci[k], a.X[k]
			for l := b.Rp[j]; l < b.Rp[j+1]; l++ {
				acc[b.Ci[l]] += aij * b.X[l]
			}
		}
		cols := make([]int, 0, len(acc))
		for col := range acc {
			cols = append(cols, col)
		}
		sort.Ints(cols)
		for _, col := range cols {
			c.Ci = append(c.Ci, col)
			c.X = append(c.X, acc[col])
			delete(acc, col)
		}
		c.Rp[i+1] = len(c.Ci)
	}
	return c
}

// Hcat concatenates matrices with the same number of rows horizontally
func Hcat(blocks []*Sparse) *Sparse {
	if len(blocks) == 0 {
		return NewSparse(0, 0)
	}
	m, n := blocks[0].M, 0
	for _, b := range blocks {
		if b.M != m {
			chk.Panic("sparse: cannot concatenate blocks with %d and %d rows", m, b.M)
		}
		n += b.N
	}
	c := &Sparse{M: m, N: n, Rp: make([]int, m+1)}
	for i := 0; i < m; i++ {
		offset := 0
		for _, b := range blocks {
			for k := b.Rp[i]; k < b.Rp[i+1]; k++ {
				c.Ci = append(c.Ci, b.Ci[k]+offset)
				c.X = append(c.X, b.X[k])
			}
			offset += b.N
		}
		c.Rp[i+1] = len(c.Ci)
	}
	return c
}

// Vcat concatenates matrices with the same number of columns vertically
func Vcat(blocks []*Sparse) *Sparse {
	if len(blocks) == 0 {
		return NewSparse(0, 0)
	}
	n := blocks[0].N
	c := &Sparse{N: n, Rp: []int{0}}
	for _, b := range blocks {
		if b.N != n {
			chk.Panic("sparse: cannot stack blocks with %d and %d columns", n, b.N)
		}
		for i := 0; i < b.M; i++ {
			c.Ci = append(c.Ci, b.Ci[b.Rp[i]:b.Rp[i+1]]...)
			c.X = append(c.X, b.X[b.Rp[i]:b.Rp[i+1]]...)
			c.Rp = append(c.Rp, len(c.Ci))
		}
		c.M += b.M
	}
	return c
}
