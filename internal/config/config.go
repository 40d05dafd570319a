// Package config defines the analysis pipeline configuration (JSON, one file
// per pipeline) and the API server configuration (environment variables).
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Pipeline is one batch analysis run: where the raw transaction log lives,
// the mining thresholds, and where results go.
type Pipeline struct {
	Job      string   `json:"job"`
	Input    Input    `json:"input"`
	Analysis Analysis `json:"analysis"`
	Output   Output   `json:"output"`
	Storage  Storage  `json:"storage"`
}

// Input describes the raw transaction table.
type Input struct {
	Path      string `json:"path"`
	Delimiter string `json:"delimiter"`  // single character; default "|"
	HasHeader *bool  `json:"has_header"` // default true

	// Options carries less common parser knobs without growing the schema,
	// e.g. {"trim_space": true}.
	Options Options `json:"options"`
}

// Analysis holds the mining and reporting thresholds.
type Analysis struct {
	MinSupport    float64 `json:"min_support"`     // default 0.01
	MinConfidence float64 `json:"min_confidence"`  // default 0.3
	TopN          int     `json:"top_n"`           // default 50; caps ranked tables
	MinBasketSize int     `json:"min_basket_size"` // default 2; co-occurrence floor
}

// Output describes the artifact directory.
type Output struct {
	Dir string `json:"dir"` // default "reports"
}

// Storage optionally persists artifacts to a database. Empty Kind disables
// persistence.
type Storage struct {
	Kind string `json:"kind"`
	DSN  string `json:"dsn"`
}

// Defaults for the analysis thresholds.
const (
	DefaultMinSupport    = 0.01
	DefaultMinConfidence = 0.3
	DefaultTopN          = 50
	DefaultMinBasketSize = 2
	DefaultDelimiter     = "|"
	DefaultOutputDir     = "reports"
)

// Load reads, decodes and defaults a pipeline config file.
func Load(path string) (Pipeline, error) {
	var p Pipeline

	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("decode config %s: %w", path, err)
	}

	p.ApplyDefaults()
	return p, nil
}

// ApplyDefaults fills unset fields in place. Load calls it; tests and
// embedded callers may construct a Pipeline and call it directly.
func (p *Pipeline) ApplyDefaults() {
	if p.Input.Delimiter == "" {
		p.Input.Delimiter = DefaultDelimiter
	}
	if p.Input.HasHeader == nil {
		v := true
		p.Input.HasHeader = &v
	}
	if p.Analysis.MinSupport == 0 {
		p.Analysis.MinSupport = DefaultMinSupport
	}
	if p.Analysis.MinConfidence == 0 {
		p.Analysis.MinConfidence = DefaultMinConfidence
	}
	if p.Analysis.TopN == 0 {
		p.Analysis.TopN = DefaultTopN
	}
	if p.Analysis.MinBasketSize == 0 {
		p.Analysis.MinBasketSize = DefaultMinBasketSize
	}
	if p.Output.Dir == "" {
		p.Output.Dir = DefaultOutputDir
	}
}

// Server is the artifact API configuration, read from EDA_* environment
// variables.
type Server struct {
	Host         string `envconfig:"HOST" default:"0.0.0.0"`
	Port         int    `envconfig:"PORT" default:"8080"`
	ArtifactsDir string `envconfig:"ARTIFACTS_DIR" default:"reports"`
	ReadTimeout  int    `envconfig:"READ_TIMEOUT_SECONDS" default:"15"`
	WriteTimeout int    `envconfig:"WRITE_TIMEOUT_SECONDS" default:"30"`
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (Server, error) {
	var s Server
	if err := envconfig.Process("eda", &s); err != nil {
		return s, fmt.Errorf("server config: %w", err)
	}
	return s, nil
}
