package spec

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job is a complete authored workflow: N independently seeded mixture
// replicas, each running the same ordered stage list.
type Job struct {
	ID       string  `yaml:"id"`
	Mixtures int     `yaml:"mixtures"`
	Seed     int64   `yaml:"seed"`
	OutDir   string  `yaml:"out_dir"`
	Engine   string  `yaml:"engine"` // e.g. "mpiexec -n 4 lmp -in stage_1.in"
	Density  Density `yaml:"density"`
	Stages   []Stage `yaml:"stages"`
}

// Density carries the mixture-level density hints substage generators may
// read to parameterize physically-dependent defaults.
type Density struct {
	InitialFactor float64 `yaml:"initial_factor"`
	FinalKgM3     float64 `yaml:"final_kgm3"`
}

// LoadJob reads a job file. Unknown YAML fields are rejected so a typo in
// an authored spec fails loudly instead of silently using a default.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJob(data)
}

func ParseJob(data []byte) (*Job, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var job Job
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("parse job spec: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *Job) Validate() error {
	if j.Mixtures < 1 {
		j.Mixtures = 1
	}
	if len(j.Stages) == 0 {
		return &SpecificationError{Stage: "", Message: "job defines no stages"}
	}
	for _, st := range j.Stages {
		if err := st.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Save persists the job spec verbatim alongside generated scripts, for
// reproducibility.
func (j *Job) Save(path string) error {
	data, err := yaml.Marshal(j)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
