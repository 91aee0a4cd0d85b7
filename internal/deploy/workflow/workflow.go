package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is a parsed deployment workflow file. The model covers the
// subset of the GitHub Actions schema the deploy workflow uses.
type Definition struct {
	Name string            `yaml:"name"`
	On   *Trigger          `yaml:"-"`
	Env  map[string]string `yaml:"env"`
	Jobs map[string]*Job   `yaml:"jobs"`
}

// Trigger holds the workflow trigger configuration. Only the manual
// dispatch trigger is supported by the deploy pipeline; the other
// fields exist so validation can reject them by name.
type Trigger struct {
	WorkflowDispatch bool
	Push             bool
	PullRequest      bool
	Schedule         bool
	Other            []string
}

type Job struct {
	Name        string            `yaml:"name"`
	RunsOn      string            `yaml:"runs-on"`
	Permissions map[string]string `yaml:"permissions"`
	Steps       []*Step           `yaml:"steps"`
}

type Step struct {
	ID   string            `yaml:"id"`
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses"`
	Run  string            `yaml:"run"`
	With map[string]string `yaml:"with"`
	Env  map[string]string `yaml:"env"`
}

// rawDefinition is the intermediate YAML structure before the trigger
// is normalized; "on" may be a string, a list, or a map.
type rawDefinition struct {
	Name string            `yaml:"name"`
	On   yaml.Node         `yaml:"on"`
	Env  map[string]string `yaml:"env"`
	Jobs map[string]*Job   `yaml:"jobs"`
}

// ParseFile reads and parses a workflow definition from disk.
func ParseFile(path string) (*Definition, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return Parse(data)
}

// Parse parses a workflow definition from its YAML representation.
func Parse(data []byte) (*Definition, error) {

	var raw rawDefinition

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse workflow YAML: %w", err)
	}

	def := &Definition{
		Name: raw.Name,
		Env:  raw.Env,
		Jobs: raw.Jobs,
	}

	trigger, err := parseTrigger(&raw.On)
	if err != nil {
		return nil, err
	}
	def.On = trigger

	return def, nil
}

func parseTrigger(node *yaml.Node) (*Trigger, error) {

	trigger := &Trigger{}

	switch node.Kind {
	case 0:
		return trigger, nil
	case yaml.ScalarNode:
		trigger.set(node.Value)
	case yaml.SequenceNode:
		for _, item := range node.Content {
			trigger.set(item.Value)
		}
	case yaml.MappingNode:
		// Mapping content alternates between key and value nodes.
		for i := 0; i < len(node.Content); i += 2 {
			trigger.set(node.Content[i].Value)
		}
	default:
		return nil, fmt.Errorf("unsupported trigger node kind: %v", node.Kind)
	}

	return trigger, nil
}

func (t *Trigger) set(name string) {
	switch name {
	case "workflow_dispatch":
		t.WorkflowDispatch = true
	case "push":
		t.Push = true
	case "pull_request":
		t.PullRequest = true
	case "schedule":
		t.Schedule = true
	default:
		t.Other = append(t.Other, name)
	}
}
