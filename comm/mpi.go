// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build mpi

package comm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// MPI implements Comm with the world communicator
type MPI struct {
	c    *mpi.Communicator
	work []float64
}

func init() {
	allocators["mpi"] = func() (Comm, error) { return NewMPI() }
}

// NewMPI returns the world communicator. mpi.Start must have been called
func NewMPI() (o *MPI, err error) {
	if !mpi.IsOn() {
		return nil, chk.Err("MPI is not running")
	}
	return &MPI{c: mpi.NewCommunicator(nil)}, nil
}

// Rank returns the rank of this process
func (o *MPI) Rank() int { return o.c.Rank() }

// Size returns the number of processes
func (o *MPI) Size() int { return o.c.Size() }

// AllReduceSum sums x over all processes
func (o *MPI) AllReduceSum(x []float64) {
	o.c.AllReduceSum(x, o.orig(x))
}

// AllReduceMax computes the maximum of x over all processes
func (o *MPI) AllReduceMax(x []float64) {
	o.c.AllReduceMax(x, o.orig(x))
}

// orig copies x into the workspace
func (o *MPI) orig(x []float64) []float64 {
	if cap(o.work) < len(x) {
		o.work = make([]float64, len(x))
	}
	o.work = o.work[:len(x)]
	copy(o.work, x)
	return o.work
}
