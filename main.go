// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/hakonhagland/opm-simulators/cmd"
)

func main() {
	cmd.Execute()
}
