// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import "github.com/cpmech/gosl/chk"

func errNotAvailable(name string) error {
	return chk.Err("communicator %q is not available in 'comm' database", name)
}
