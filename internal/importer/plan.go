package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is the top-level YAML structure of a project plan file. Resources and
// tasks carry local refs that the other sections point at.
type Plan struct {
	Project      ProjectPlan      `yaml:"project"`
	Resources    []ResourcePlan   `yaml:"resources"`
	Assignments  []AssignmentPlan `yaml:"assignments"`
	Tasks        []TaskPlan       `yaml:"tasks"`
	Dependencies []DependencyPlan `yaml:"dependencies"`
	OpenItems    []OpenItemPlan   `yaml:"open_items"`
}

type ProjectPlan struct {
	ID          string  `yaml:"id"`
	Description string  `yaml:"description"`
	Status      string  `yaml:"status"`
	Start       string  `yaml:"start"`
	End         string  `yaml:"end"`
	Budget      *string `yaml:"budget"`
	Revenue     *string `yaml:"revenue"`
	Costs       *string `yaml:"costs"`
}

// ResourcePlan describes a crew member. A resource whose email already exists
// in the store is reused instead of created.
type ResourcePlan struct {
	Ref      string `yaml:"ref"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Category string `yaml:"category"`
}

type AssignmentPlan struct {
	Resource       string `yaml:"resource"`
	Start          string `yaml:"start"`
	End            string `yaml:"end"`
	TravelOut      int    `yaml:"travel_out"`
	TravelBack     int    `yaml:"travel_back"`
	Override       bool   `yaml:"override"`
	OverrideReason string `yaml:"override_reason"`
	Notes          string `yaml:"notes"`
}

type TaskPlan struct {
	Ref     string `yaml:"ref"`
	Phase   string `yaml:"phase"`
	Title   string `yaml:"title"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Status  string `yaml:"status"`
	Percent int    `yaml:"percent"`
}

type DependencyPlan struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Type string `yaml:"type"`
	Lag  int    `yaml:"lag"`
}

type OpenItemPlan struct {
	Title    string `yaml:"title"`
	Priority string `yaml:"priority"`
	Due      string `yaml:"due"`
	Owner    string `yaml:"owner"`
}

// Load reads and parses a plan file. Unknown keys are rejected.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var plan Plan
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}
