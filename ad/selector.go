// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

// Criterion defines how a selector classifies values
type Criterion int

const (
	GreaterEqualZero Criterion = iota // x >= 0
	GreaterZero                       // x > 0
	LessZero                          // x < 0
	LessEqualZero                     // x <= 0
	NotEqualZero                      // x != 0
	EqualZero                         // x == 0
)

// Selector chooses between two alternatives entry by entry
type Selector struct {
	Chosen []bool // true => first alternative
}

// NewSelector classifies values according to crit
func NewSelector(values []float64, crit Criterion) *Selector {
	o := &Selector{Chosen: make([]bool, len(values))}
	for i, x := range values {
		switch crit {
		case GreaterEqualZero:
			o.Chosen[i] = x >= 0
		case GreaterZero:
			o.Chosen[i] = x > 0
		case LessZero:
			o.Chosen[i] = x < 0
		case LessEqualZero:
			o.Chosen[i] = x <= 0
		case NotEqualZero:
			o.Chosen[i] = x != 0
		case EqualZero:
			o.Chosen[i] = x == 0
		}
	}
	return o
}

// Select returns x1 where chosen and x2 elsewhere
func (o *Selector) Select(x1, x2 Value) Value {
	nb := congruent("select", x1, x2)
	congruent("select", x1, Zeros(len(o.Chosen)))
	v := make([]float64, len(o.Chosen))
	d1 := make([]float64, len(o.Chosen))
	d2 := make([]float64, len(o.Chosen))
	for i, c := range o.Chosen {
		if c {
			v[i], d1[i] = x1.Val[i], 1
		} else {
			v[i], d2[i] = x2.Val[i], 1
		}
	}
	return Value{Val: v, Jac: combine(nb, x1, x2, d1, d2)}
}

// SelectV is the version of Select for plain vectors
func (o *Selector) SelectV(x1, x2 []float64) []float64 {
	v := make([]float64, len(o.Chosen))
	for i, c := range o.Chosen {
		if c {
			v[i] = x1[i]
		} else {
			v[i] = x2[i]
		}
	}
	return v
}

// Ones returns 1 where chosen and 0 elsewhere
func (o *Selector) Ones() []float64 {
	v := make([]float64, len(o.Chosen))
	for i, c := range o.Chosen {
		if c {
			v[i] = 1
		}
	}
	return v
}

// Any tells whether at least one entry is chosen
func (o *Selector) Any() bool {
	for _, c := range o.Chosen {
		if c {
			return true
		}
	}
	return false
}
