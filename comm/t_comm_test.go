// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_serial01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("serial01")

	c, err := New("serial")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.IntAssert(c.Rank(), 0)
	chk.IntAssert(c.Size(), 1)

	x := []float64{1, -2, 3}
	c.AllReduceSum(x)
	chk.Array(tst, "sum", 1e-17, x, []float64{1, -2, 3})
	c.AllReduceMax(x)
	chk.Array(tst, "max", 1e-17, x, []float64{1, -2, 3})

	_, err = New("nada")
	if err == nil {
		tst.Errorf("test failed: unknown communicator must give an error\n")
	}
}
