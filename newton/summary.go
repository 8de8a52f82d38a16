// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hakonhagland/opm-simulators/model"
)

// Summary records the history of a simulation
type Summary struct {

	// main data
	Nproc  int           // number of processors used in last run
	Times  []float64     // [nsteps] times at the end of converged steps
	Dts    []float64     // [nsteps] sizes of converged steps
	Iters  []int         // [nsteps] number of Newton iterations of converged steps
	Norms  []model.Norms // [nsteps] convergence measures of converged steps
	Ncuts  int           // total number of time step cuts
	Resids [][]float64   // largest residual of each iteration; one list per attempted step
}

// appendResid appends the residual of an iteration; first starts a new list
func (o *Summary) appendResid(first bool, largR float64) {
	if first || len(o.Resids) == 0 {
		o.Resids = append(o.Resids, []float64{})
	}
	n := len(o.Resids) - 1
	o.Resids[n] = append(o.Resids[n], largR)
}

// appendStep records a converged step
func (o *Summary) appendStep(t, dt float64, rep Report) {
	o.Times = append(o.Times, t)
	o.Dts = append(o.Dts, dt)
	o.Iters = append(o.Iters, rep.Iterations)
	o.Norms = append(o.Norms, rep.Norms)
}

// Save saves summary to disc. Only the root processor writes
func (o *Summary) Save(dirout, fnkey, enctype string, nproc, proc int, verbose bool) (err error) {

	// skip if not root
	o.Nproc = nproc
	if proc != 0 {
		return
	}

	// encode summary
	var buf bytes.Buffer
	enc := getEncoder(&buf, enctype)
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	err = os.MkdirAll(dirout, 0777)
	if err != nil {
		return chk.Err("cannot create directory for summary:\n%v", err)
	}
	fn := summaryPath(dirout, fnkey, enctype)
	err = os.WriteFile(fn, buf.Bytes(), 0644)
	if err != nil {
		return chk.Err("cannot save summary:\n%v", err)
	}
	if verbose {
		io.Pfblue2("file <%s> written\n", fn)
	}
	return
}

// Read reads summary back
func (o *Summary) Read(dirout, fnkey, enctype string) (err error) {
	fil, err := os.Open(summaryPath(dirout, fnkey, enctype))
	if err != nil {
		return chk.Err("cannot open summary:\n%v", err)
	}
	defer fil.Close()
	dec := getDecoder(fil, enctype)
	err = dec.Decode(o)
	if err != nil {
		return chk.Err("cannot decode summary:\n%v", err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// encoder defines encoders; e.g. gob or json
type encoder interface {
	Encode(e interface{}) error
}

// decoder defines decoders; e.g. gob or json
type decoder interface {
	Decode(e interface{}) error
}

// getEncoder returns a new encoder
func getEncoder(w goio.Writer, enctype string) encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// getDecoder returns a new decoder
func getDecoder(r goio.Reader, enctype string) decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// summaryPath returns the path of the summary file
func summaryPath(dirout, fnkey, enctype string) string {
	if enctype != "json" {
		enctype = "gob"
	}
	return filepath.Join(dirout, io.Sf("%s_sum.%s", fnkey, enctype))
}
