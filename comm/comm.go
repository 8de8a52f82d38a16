// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comm implements the collective operations used by the convergence checks when the
// grid is distributed among processes
package comm

// Comm defines collective reductions over all processes. Results are written in place
type Comm interface {
	Rank() int                // rank of this process
	Size() int                // number of processes
	AllReduceSum(x []float64) // x[i] = Σ_proc x[i]
	AllReduceMax(x []float64) // x[i] = max_proc x[i]
}

// Serial implements Comm for a single process
type Serial struct{}

// Rank returns 0
func (Serial) Rank() int { return 0 }

// Size returns 1
func (Serial) Size() int { return 1 }

// AllReduceSum does nothing
func (Serial) AllReduceSum(x []float64) {}

// AllReduceMax does nothing
func (Serial) AllReduceMax(x []float64) {}

// allocators holds all available communicators
var allocators = map[string]func() (Comm, error){
	"serial": func() (Comm, error) { return Serial{}, nil },
}

// New returns a communicator by name. "mpi" is available when built with the mpi tag
func New(name string) (Comm, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, errNotAvailable(name)
	}
	return allocator()
}
