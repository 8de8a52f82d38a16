// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package phases describes the set of active fluid phases
package phases

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// canonical phase indices
const (
	Water = 0
	Oil   = 1
	Gas   = 2

	MaxNumPhases = 3
)

// Names holds the canonical phase names
var Names = []string{"water", "oil", "gas"}

// Usage holds the active phases and the map from canonical to compact indices
type Usage struct {
	Used [MaxNumPhases]bool // canonical phase is active
	Pos  [MaxNumPhases]int  // compact position of canonical phase; -1 if inactive
	Num  int                // number of active phases
}

// New returns a phase usage descriptor. Only two- and three-phase systems with oil are supported
func New(water, oil, gas bool) (o Usage, err error) {
	o.Used = [MaxNumPhases]bool{water, oil, gas}
	for i := 0; i < MaxNumPhases; i++ {
		o.Pos[i] = -1
		if o.Used[i] {
			o.Pos[i] = o.Num
			o.Num++
		}
	}
	if o.Num < 2 || o.Num > 3 {
		return o, chk.Err("cannot handle cases with %d phases", o.Num)
	}
	if !oil {
		return o, chk.Err("cannot handle cases with no oil, i.e. water-gas systems")
	}
	return
}

// FromNames returns a phase usage from a list of phase names such as {"water", "oil"}
func FromNames(names []string) (o Usage, err error) {
	var used [MaxNumPhases]bool
	for _, name := range names {
		found := false
		for i, n := range Names {
			if strings.ToLower(name) == n {
				used[i], found = true, true
			}
		}
		if !found {
			return o, chk.Err("phase %q is not available", name)
		}
	}
	return New(used[Water], used[Oil], used[Gas])
}

// Active tells whether the canonical phase is active
func (o Usage) Active(canonical int) bool {
	return o.Used[canonical]
}

// Canonical returns the canonical index of the compact phase
func (o Usage) Canonical(compact int) int {
	for i := 0; i < MaxNumPhases; i++ {
		if o.Pos[i] == compact {
			return i
		}
	}
	chk.Panic("compact phase index %d is out of range (num phases = %d)", compact, o.Num)
	return -1
}

// Name returns the name of the compact phase
func (o Usage) Name(compact int) string {
	return Names[o.Canonical(compact)]
}

// Miscible tells whether oil and gas are both active
func (o Usage) Miscible() bool {
	return o.Used[Oil] && o.Used[Gas]
}
