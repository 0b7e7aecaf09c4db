package InputParameters

import (
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofv/types"
)

// Simulation is the case description read from the YAML input file.
// ghodss/yaml converts to JSON first, so keys bind through the json tags.
type Simulation struct {
	Title             string            `json:"Title"`
	Environment       Environment       `json:"Environment"`
	ParallelDegree    int               `json:"ParallelDegree"`    // 0 uses every CPU
	Mesh              Mesh              `json:"Mesh"`
	EOS               TwoPhaseEOS       `json:"EOS"`
	Riemann           Riemann           `json:"Riemann"`
	InitialConditions FlowState         `json:"InitialConditions"`
	Boundaries        []Boundary        `json:"Boundaries"`
	TimeStepper       TimeStepper       `json:"TimeStepper"`
	Serializer        *Serializer       `json:"Serializer,omitempty"`
	Monitors          []Monitor         `json:"Monitors"`
	Regions           map[string]string `json:"Regions,omitempty"` // name to boolean formula in x, y, z
	SolverRegion      string            `json:"SolverRegion,omitempty"`
}

type Environment struct {
	TagDirectory    bool   `json:"TagDirectory"`
	OutputDirectory string `json:"OutputDirectory"`
}

type Mesh struct {
	Faces  []int     `json:"Faces"`
	Lower  []float64 `json:"Lower"`
	Upper  []float64 `json:"Upper"`
	Refine int       `json:"Refine"`
}

type Phase struct {
	Type  string  `json:"Type"` // perfectGas or stiffenedGas
	Gamma float64 `json:"Gamma"`
	Rgas  float64 `json:"Rgas,omitempty"`
	PInf  float64 `json:"PInf,omitempty"`
	Cv    float64 `json:"Cv,omitempty"`
}

type TwoPhaseEOS struct {
	Gas    Phase `json:"Gas"`
	Liquid Phase `json:"Liquid"`
}

type Riemann struct {
	TieBreak      string  `json:"TieBreak"`
	Tolerance     float64 `json:"Tolerance"`
	MaxIterations int     `json:"MaxIterations"`
}

// FlowState holds formulas for the primitive state; Velocity has one component per dimension
type FlowState struct {
	Temperature    string `json:"Temperature"`
	Pressure       string `json:"Pressure"`
	Velocity       string `json:"Velocity"`
	VolumeFraction string `json:"VolumeFraction"`
}

func (fs FlowState) complete() bool {
	return fs.Temperature != "" && fs.Pressure != "" && fs.Velocity != "" && fs.VolumeFraction != ""
}

// Boundary prescribes ghost values over labelled faces. An essential boundary takes either a
// formula per field or a primitive State from which all solution fields follow.
type Boundary struct {
	Name          string            `json:"Name"`
	Type          string            `json:"Type"`
	Labels        []int             `json:"Labels"`
	LabelSet      string            `json:"LabelSet,omitempty"`
	EnforceAtFace bool              `json:"EnforceAtFace,omitempty"`
	Fields        map[string]string `json:"Fields,omitempty"`
	State         *FlowState        `json:"State,omitempty"`
}

// SortedFields lists the field names of the boundary in order
func (b Boundary) SortedFields() (names []string) {
	for k := range b.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

type Adapt struct {
	Type            string  `json:"Type"`
	CFL             float64 `json:"CFL"`
	MinDt           float64 `json:"MinDt,omitempty"`
	MaxDt           float64 `json:"MaxDt,omitempty"`
	MaxGrowth       float64 `json:"MaxGrowth,omitempty"`
	AllowStagnation bool    `json:"AllowStagnation,omitempty"`
}

type TimeStepper struct {
	Scheme    string  `json:"Scheme"`
	MaxTime   float64 `json:"MaxTime"`
	MaxSteps  int     `json:"MaxSteps,omitempty"`
	InitialDt float64 `json:"InitialDt"`
	Adapt     Adapt   `json:"Adapt"`
}

type Interval struct {
	Type  string  `json:"Type"` // fixed, simulationTime or wallTime
	Value float64 `json:"Value"`
}

type Serializer struct {
	Interval Interval `json:"Interval"`
}

type Monitor struct {
	Type     string   `json:"Type"` // timeStep or maxMinAverage
	Field    string   `json:"Field,omitempty"`
	Interval Interval `json:"Interval"`
}

func (s *Simulation) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, s); err != nil {
		return types.NewConfigurationError("case file: %v", err)
	}
	return s.Validate()
}

func ReadFile(path string) (s *Simulation, err error) {
	var data []byte
	if data, err = ioutil.ReadFile(path); err != nil {
		return
	}
	s = &Simulation{}
	if err = s.Parse(data); err != nil {
		return nil, err
	}
	return
}

// Validate checks what can be checked without building the case
func (s *Simulation) Validate() error {
	var (
		dim = len(s.Mesh.Faces)
	)
	switch {
	case s.Title == "":
		return types.NewConfigurationError("case has no Title")
	case dim < 1 || dim > 3:
		return types.NewConfigurationError("Mesh.Faces has %d entries, need 1 to 3", dim)
	case len(s.Mesh.Lower) != dim || len(s.Mesh.Upper) != dim:
		return types.NewConfigurationError("Mesh bounds do not match %d dimensions", dim)
	case !s.InitialConditions.complete():
		return types.NewConfigurationError("InitialConditions need Temperature, Pressure, Velocity and VolumeFraction")
	case s.ParallelDegree < 0:
		return types.NewConfigurationError("negative ParallelDegree %d", s.ParallelDegree)
	}
	names := make(map[string]bool)
	for i, b := range s.Boundaries {
		if b.Name == "" {
			return types.NewConfigurationError("boundary %d has no Name", i)
		}
		if names[b.Name] {
			return types.NewConfigurationError("boundary %q defined twice", b.Name)
		}
		names[b.Name] = true
		if len(b.Labels) == 0 {
			return types.NewConfigurationError("boundary %q has no Labels", b.Name)
		}
		if _, err := types.NewBCFLAG(b.Type); err != nil {
			return fmt.Errorf("boundary %q: %w", b.Name, err)
		}
		if b.State != nil && !b.State.complete() {
			return types.NewConfigurationError("boundary %q: incomplete State", b.Name)
		}
	}
	for i, m := range s.Monitors {
		switch strings.ToLower(m.Type) {
		case "timestep":
		case "maxminaverage":
			if m.Field == "" {
				return types.NewConfigurationError("monitor %d: maxMinAverage needs a Field", i)
			}
		default:
			return types.NewConfigurationError("monitor %d: unknown type %q", i, m.Type)
		}
	}
	return nil
}

func (s *Simulation) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", s.Title)
	fmt.Printf("%v x %d\t\t= Mesh faces x refine\n", s.Mesh.Faces, 1<<uint(s.Mesh.Refine))
	fmt.Printf("%v to %v\t= Mesh bounds\n", s.Mesh.Lower, s.Mesh.Upper)
	fmt.Printf("[%s]/[%s]\t= EOS gas/liquid\n", s.EOS.Gas.Type, s.EOS.Liquid.Type)
	fmt.Printf("[%s]\t\t\t= Scheme\n", s.TimeStepper.Scheme)
	fmt.Printf("%8.5f\t\t= CFL\n", s.TimeStepper.Adapt.CFL)
	fmt.Printf("%8.5f\t\t= MaxTime\n", s.TimeStepper.MaxTime)
	fmt.Printf("%8.5f\t\t= InitialDt\n", s.TimeStepper.InitialDt)
	for _, b := range s.Boundaries {
		fmt.Printf("BCs[%s] = %s %v\n", b.Name, b.Type, b.Labels)
	}
}
