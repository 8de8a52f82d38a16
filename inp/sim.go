// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a case file (JSON or YAML)
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"

	"github.com/hakonhagland/opm-simulators/grid"
	"github.com/hakonhagland/opm-simulators/phases"
	"github.com/hakonhagland/opm-simulators/wells"
)

// Data holds global data for simulations
type Data struct {
	Desc   string   `json:"desc"`   // description of simulation
	DirOut string   `json:"dirout"` // directory for output of summaries; e.g. /tmp/opm
	Enc    string   `json:"enc"`    // encoder of summaries: "gob" or "json"
	Phases []string `json:"phases"` // active phases; e.g. ["water", "oil"]
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name    string `json:"name"`    // "lu" or "qr"
	Verbose bool   `json:"verbose"` // verbose?
}

// SolverData holds Newton solver data
type SolverData struct {

	// nonlinear solver
	Type      string  `json:"type"`      // nonlinear solver type: "imp" => fully implicit
	NmaxIt    int     `json:"nmaxit"`    // number of max iterations
	NminIt    int     `json:"nminit"`    // number of min iterations
	DvgCtrl   bool    `json:"dvgctrl"`   // use divergence control
	DvgFactor float64 `json:"dvgfactor"` // max growth of the residual with respect to the first iteration
	ShowR     bool    `json:"showr"`     // show residual

	// time step cuts
	NmaxCuts  int     `json:"nmaxcuts"`  // max number of time step cuts
	CutFactor float64 `json:"cutfactor"` // factor multiplying Δt after a failure
	DtMin     float64 `json:"dtmin"`     // minimum Δt
}

// GridData holds data for generating a cartesian grid
type GridData struct {
	Nx, Ny, Nz int       `json:"-"`
	N          []int     `json:"n"`         // [3] number of cells along x, y and z
	D          []float64 `json:"d"`         // [3] cell sizes along x, y and z
	Perm       float64   `json:"perm"`      // permeability
	Poro       float64   `json:"poro"`      // porosity
	Top        float64   `json:"top"`       // depth of top face
	Gravity    float64   `json:"gravity"`   // gravity acceleration
	Threshold  []float64 `json:"threshold"` // threshold pressures of interior faces; may be empty
}

// IniData holds the initial reservoir state. Uniform values are used unless arrays with values
// for all cells are given
type IniData struct {
	Pressure    float64   `json:"pressure"`    // uniform pressure
	Pressures   []float64 `json:"pressures"`   // pressure of each cell
	Temperature float64   `json:"temperature"` // uniform temperature
	Sw          float64   `json:"sw"`          // uniform water saturation
	Sg          float64   `json:"sg"`          // uniform gas saturation
	Rs          float64   `json:"rs"`          // uniform dissolved gas-oil ratio
	Rv          float64   `json:"rv"`          // uniform vaporised oil-gas ratio
}

// WellChange holds a change of well control at the beginning of a step
type WellChange struct {
	Well    string   `json:"well"`    // name of well
	Control int      `json:"control"` // index of new current control
	Target  *float64 `json:"target"`  // new target of that control; nil => keep
}

// Step holds a sequence of time steps of equal size
type Step struct {
	Desc    string        `json:"desc"`    // description
	Dt      float64       `json:"dt"`      // time step size
	Nsteps  int           `json:"nsteps"`  // number of time steps
	Changes []*WellChange `json:"changes"` // well changes applied before the first step
}

// Case holds all data of a simulation case
type Case struct {

	// input
	Data     Data          `json:"data"`     // global data
	Grid     GridData      `json:"grid"`     // grid data
	Fluid    ModelData     `json:"fluid"`    // black-oil fluid model
	RelPerm  ModelData     `json:"relperm"`  // relative permeability model
	Wells    []*wells.Well `json:"wells"`    // wells
	Initial  IniData       `json:"initial"`  // initial state
	Schedule []*Step       `json:"schedule"` // time steps
	Model    ModelParams   `json:"model"`    // model parameters
	Solver   SolverData    `json:"solver"`   // Newton solver data
	LinSol   LinSolData    `json:"linsol"`   // linear solver data

	// derived
	Key    string       // case key; e.g. spe1.yaml => spe1
	Phases phases.Usage // active phases
	Mesh   *grid.Grid   // the grid
}

// ReadCase reads all case data from a .json, .yaml or .yml file
func ReadCase(casefilepath string) (o *Case, err error) {

	// read file
	b, err := os.ReadFile(os.ExpandEnv(casefilepath))
	if err != nil {
		return nil, chk.Err("cannot read case file %q:\n%v", casefilepath, err)
	}

	// yaml files are converted to json so that both formats share the same tags
	ext := strings.ToLower(filepath.Ext(casefilepath))
	if ext == ".yaml" || ext == ".yml" {
		b, err = yamlToJSON(b)
		if err != nil {
			return nil, chk.Err("cannot parse yaml file %q:\n%v", casefilepath, err)
		}
	}
	return DecodeCase(b, io.FnKey(filepath.Base(casefilepath)))
}

// DecodeCase decodes case data in JSON format, sets default values and computes derived data
func DecodeCase(b []byte, key string) (o *Case, err error) {

	// set default values
	o = new(Case)
	o.Key = key
	o.Grid.SetDefault()
	o.Model.SetDefault()
	o.Solver.SetDefault()
	o.LinSol.SetDefault()

	// decode
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal case %q:\n%v", key, err)
	}

	// output directory
	if o.Data.DirOut == "" {
		o.Data.DirOut = "/tmp/opm/" + key
	}

	// encoder
	switch o.Data.Enc {
	case "":
		o.Data.Enc = "gob"
	case "gob", "json":
	default:
		return nil, chk.Err("encoder %q is invalid; options are \"gob\" and \"json\"", o.Data.Enc)
	}

	// set constants
	o.Solver.PostProcess()
	o.Model.PostProcess()

	// phases
	if len(o.Data.Phases) == 0 {
		o.Data.Phases = []string{"water", "oil"}
	}
	o.Phases, err = phases.FromNames(o.Data.Phases)
	if err != nil {
		return nil, err
	}

	// grid
	o.Mesh, err = o.Grid.Build()
	if err != nil {
		return nil, err
	}

	// wells
	if len(o.Wells) < 1 {
		return nil, chk.Err("case %q must have at least one well", key)
	}
	names := make(map[string]bool)
	for _, w := range o.Wells {
		if names[w.Name] {
			return nil, chk.Err("well name %q is repeated", w.Name)
		}
		names[w.Name] = true
		if err = w.Init(o.Phases.Num); err != nil {
			return nil, err
		}
		for _, p := range w.Perfs {
			if p.Cell < 0 || p.Cell >= o.Mesh.NumCells {
				return nil, chk.Err("well %q: perforated cell %d is out of range", w.Name, p.Cell)
			}
		}
	}

	// schedule
	for i, stp := range o.Schedule {
		if stp.Dt <= 0 || stp.Nsteps < 1 {
			return nil, chk.Err("step %d of schedule must have positive dt and nsteps. dt = %g, nsteps = %d", i, stp.Dt, stp.Nsteps)
		}
		for _, c := range stp.Changes {
			if !names[c.Well] {
				return nil, chk.Err("step %d of schedule refers to unknown well %q", i, c.Well)
			}
		}
	}
	return
}

// ApplyChanges applies the well changes of a step to the wells and, if not nil, to the current
// controls of the well state
func (o *Step) ApplyChanges(wls []*wells.Well, xw *wells.State) (err error) {
	for _, c := range o.Changes {
		for k, w := range wls {
			if w.Name != c.Well {
				continue
			}
			if c.Control < 0 || c.Control >= len(w.Controls) {
				return chk.Err("well %q: control %d is out of range", w.Name, c.Control)
			}
			w.Current = c.Control
			if xw != nil {
				xw.CurrentControls[k] = c.Control
			}
			if c.Target != nil {
				w.Controls[c.Control].Target = *c.Target
			}
		}
	}
	return
}

// Build generates the grid
func (o *GridData) Build() (g *grid.Grid, err error) {
	if len(o.N) != 3 || len(o.D) != 3 {
		return nil, chk.Err("grid: three numbers of cells and three cell sizes are required. n = %v, d = %v", o.N, o.D)
	}
	o.Nx, o.Ny, o.Nz = o.N[0], o.N[1], o.N[2]
	g, err = grid.NewCartesian(o.Nx, o.Ny, o.Nz, o.D[0], o.D[1], o.D[2], o.Perm, o.Poro, o.Top, o.Gravity)
	if err != nil {
		return
	}
	if len(o.Threshold) > 0 && len(o.Threshold) != g.NumFaces() {
		return nil, chk.Err("grid: %d threshold pressures are given but there are %d interior faces", len(o.Threshold), g.NumFaces())
	}
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *LinSolData) SetDefault() {
	o.Name = "lu"
}

// SetDefault set defaults values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.Type = "imp"
	o.NmaxIt = 12
	o.NminIt = 1
	o.DvgFactor = 1e3

	// time step cuts
	o.NmaxCuts = 6
	o.CutFactor = 0.5
	o.DtMin = 1e-3
}

// PostProcess performs a post-processing of the just read json file
func (o *SolverData) PostProcess() {
	if o.NminIt < 0 {
		o.NminIt = 0
	}
	if o.NmaxIt < o.NminIt {
		o.NmaxIt = o.NminIt
	}
	if o.CutFactor <= 0 || o.CutFactor >= 1 {
		o.CutFactor = 0.5
	}
}

// SetDefault sets defaults values
func (o *GridData) SetDefault() {
	o.N = []int{1, 1, 1}
	o.D = []float64{1, 1, 1}
	o.Perm = 1e-13
	o.Poro = 0.2
	o.Gravity = 9.80665
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// yamlToJSON converts a yaml document into json
func yamlToJSON(b []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(jsonable(doc))
}

// jsonable converts maps with interface keys (not supported by encoding/json) recursively
func jsonable(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, val := range x {
			x[k] = jsonable(val)
		}
		return x
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, val := range x {
			m[io.Sf("%v", k)] = jsonable(val)
		}
		return m
	case []interface{}:
		for i, val := range x {
			x[i] = jsonable(val)
		}
		return x
	}
	return v
}
