// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wells

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ErrTHPNotImplemented is returned when a well is (or becomes) controlled by its tubing-head pressure
var ErrTHPNotImplemented = errors.New("THP control is not implemented for multi-segment wells")

// ControlType defines the kind of well control
type ControlType int

const (
	BHP ControlType = iota
	THP
	ReservoirRate
	SurfaceRate
)

// controlNames holds the names of control types
var controlNames = []string{"BHP", "THP", "RESERVOIR_RATE", "SURFACE_RATE"}

// String returns the name of the control type
func (o ControlType) String() string {
	if o < BHP || o > SurfaceRate {
		return io.Sf("UNKNOWN(%d)", int(o))
	}
	return controlNames[o]
}

// Control holds a well control (or constraint, if not current)
//  Note: rates of injectors are positive and rates of producers are negative
type Control struct {
	Type     ControlType `json:"-"`      // type of control
	TypeName string      `json:"type"`   // "bhp", "thp", "resv" or "rate"
	Target   float64     `json:"target"` // target value
	Distr    []float64   `json:"distr"`  // phase distribution [np]; used by rate controls
}

// init checks data
func (o *Control) init(np int) error {
	switch strings.ToLower(o.TypeName) {
	case "bhp", "":
		o.Type = BHP
	case "thp":
		o.Type = THP
	case "resv", "reservoir_rate":
		o.Type = ReservoirRate
	case "rate", "surface_rate":
		o.Type = SurfaceRate
	default:
		return chk.Err("control type %q is invalid", o.TypeName)
	}
	if len(o.Distr) == 0 {
		o.Distr = make([]float64, np)
	}
	if len(o.Distr) != np {
		return chk.Err("distribution must have %d values. %v is incorrect", np, o.Distr)
	}
	return nil
}

// ConstraintBroken tells whether the control of well w is violated by the current values
//   injectors: value > target
//   producers: value < target
func ConstraintBroken(bhp, thp, rates []float64, w, np int, typ Type, ctrl *Control) bool {
	var value float64
	switch ctrl.Type {
	case BHP:
		value = bhp[w]
	case THP:
		value = thp[w]
	case ReservoirRate, SurfaceRate:
		for p := 0; p < np; p++ {
			value += ctrl.Distr[p] * rates[np*w+p]
		}
	}
	if typ == Injector {
		return value > ctrl.Target
	}
	return value < ctrl.Target
}

// UpdateControls switches the control of each well to the first broken constraint (skipping
// the current control and reservoir-rate constraints) and re-initialises the top segment with
// the target of the current control
func UpdateControls(wls []*Well, xw *State, verbose bool) error {
	np := xw.Np
	for w, well := range wls {
		current := xw.CurrentControls[w]
		for k, ctrl := range well.Controls {
			if k == current || ctrl.Type == ReservoirRate {
				continue
			}
			if ConstraintBroken(xw.Bhp, xw.Thp, xw.WellRates, w, np, well.Type, ctrl) {
				if verbose {
					io.Pfyel("switching control mode for well %s from %v to %v\n", well.Name, well.Controls[current].Type, ctrl.Type)
				}
				xw.CurrentControls[w] = k
				current = k
				break
			}
		}

		// update well state with target of current control
		ctrl := well.Controls[current]
		top := xw.TopSegmentLoc[w]
		switch ctrl.Type {
		case BHP:
			xw.Bhp[w] = ctrl.Target
			xw.SegPress[top] = ctrl.Target
		case THP:
			return fmt.Errorf("well %q: %w", well.Name, ErrTHPNotImplemented)
		case ReservoirRate:
			// rates act in aggregate; keep the current ones
		case SurfaceRate:
			for p := 0; p < np; p++ {
				if ctrl.Distr[p] > 0 {
					xw.WellRates[np*w+p] = ctrl.Target * ctrl.Distr[p]
					xw.SegPhaseRates[np*top+p] = ctrl.Target * ctrl.Distr[p]
				}
			}
		}
	}
	return nil
}
