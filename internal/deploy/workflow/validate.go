package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// The deploy workflow pins these values; validation rejects anything
// else so a drifted file cannot silently target another service.
const (
	RequiredService = "game-server-service"
	RequiredRegion  = "europe-west6"
	RequiredPort    = 8080
)

// DeployParams are the deploy parameters extracted from a validated
// workflow definition.
type DeployParams struct {
	Project                  string
	Service                  string
	Region                   string
	Port                     int
	AllowUnauthenticated     bool
	ServiceAccount           string
	WorkloadIdentityProvider string
}

// Validate checks the structural properties of the deploy workflow:
// manual trigger only, federated identity permissions, the expected
// step ordering, and the pinned deploy parameter values.
func (d *Definition) Validate() error {

	var mErr *multierror.Error

	if d.On == nil || !d.On.WorkflowDispatch {
		mErr = multierror.Append(mErr, fmt.Errorf("workflow must use the manual workflow_dispatch trigger"))
	}
	if d.On != nil {
		if d.On.Push {
			mErr = multierror.Append(mErr, fmt.Errorf("push trigger is not allowed; deploys are manual only"))
		}
		if d.On.PullRequest {
			mErr = multierror.Append(mErr, fmt.Errorf("pull_request trigger is not allowed; deploys are manual only"))
		}
		if d.On.Schedule {
			mErr = multierror.Append(mErr, fmt.Errorf("schedule trigger is not allowed; deploys are manual only"))
		}
		for _, other := range d.On.Other {
			mErr = multierror.Append(mErr, fmt.Errorf("unsupported trigger %q; deploys are manual only", other))
		}
	}

	if len(d.Jobs) != 1 {
		mErr = multierror.Append(mErr, fmt.Errorf("workflow must contain exactly one job, found %d", len(d.Jobs)))
		return mErr.ErrorOrNil()
	}

	for name, job := range d.Jobs {
		if err := validateJob(name, job); err != nil {
			mErr = multierror.Append(mErr, err)
		}
	}

	return mErr.ErrorOrNil()
}

func validateJob(name string, job *Job) error {

	var mErr *multierror.Error

	// Federated identity needs an ID token; checkout needs repository
	// read. Anything beyond that is excess privilege.
	if job.Permissions["id-token"] != "write" {
		mErr = multierror.Append(mErr, fmt.Errorf("job %s must set the id-token: write permission", name))
	}
	if job.Permissions["contents"] != "read" {
		mErr = multierror.Append(mErr, fmt.Errorf("job %s must set the contents: read permission", name))
	}

	steps := []struct {
		desc  string
		match func(*Step) bool
	}{
		{"source checkout", func(s *Step) bool { return strings.Contains(s.Uses, "checkout") }},
		{"cloud authentication", func(s *Step) bool { return strings.Contains(s.Uses, "auth") }},
		{"SDK setup", func(s *Step) bool { return strings.Contains(s.Uses, "setup-gcloud") }},
		{"service deploy", func(s *Step) bool { return strings.Contains(s.Run, "gcloud run deploy") }},
		{"service describe", func(s *Step) bool { return strings.Contains(s.Run, "gcloud run services describe") }},
	}

	idx := 0
	for _, required := range steps {
		found := -1
		for i := idx; i < len(job.Steps); i++ {
			if required.match(job.Steps[i]) {
				found = i
				break
			}
		}
		if found < 0 {
			mErr = multierror.Append(mErr, fmt.Errorf("job %s is missing the %s step, or it is out of order", name, required.desc))
			continue
		}
		idx = found + 1
	}

	if authStep := findStep(job, func(s *Step) bool { return strings.Contains(s.Uses, "auth") }); authStep != nil {
		if authStep.With["workload_identity_provider"] == "" {
			mErr = multierror.Append(mErr, fmt.Errorf("job %s auth step must set workload_identity_provider", name))
		}
		if authStep.With["service_account"] == "" {
			mErr = multierror.Append(mErr, fmt.Errorf("job %s auth step must set service_account", name))
		}
	}

	if deployStep := findStep(job, func(s *Step) bool { return strings.Contains(s.Run, "gcloud run deploy") }); deployStep != nil {
		mErr = multierror.Append(mErr, validateDeployCommand(name, deployStep.Run))
	}

	return mErr.ErrorOrNil()
}

func validateDeployCommand(name, run string) error {

	var mErr *multierror.Error

	flags := parseCommandFlags(run)

	if service := deployCommandService(run); service != RequiredService {
		mErr = multierror.Append(mErr, fmt.Errorf(
			"job %s must deploy service %q, found %q", name, RequiredService, service))
	}
	if region := flags["region"]; region != RequiredRegion {
		mErr = multierror.Append(mErr, fmt.Errorf(
			"job %s must deploy to region %q, found %q", name, RequiredRegion, region))
	}
	if port, err := strconv.Atoi(flags["port"]); err != nil || port != RequiredPort {
		mErr = multierror.Append(mErr, fmt.Errorf(
			"job %s must expose port %d, found %q", name, RequiredPort, flags["port"]))
	}
	if _, ok := flags["allow-unauthenticated"]; !ok {
		mErr = multierror.Append(mErr, fmt.Errorf(
			"job %s must allow unauthenticated access", name))
	}
	if flags["project"] == "" {
		mErr = multierror.Append(mErr, fmt.Errorf(
			"job %s deploy command must set the project", name))
	}

	return mErr.ErrorOrNil()
}

// Params extracts the deploy parameters from the workflow, mapping the
// declarative file onto the native pipeline's configuration.
func (d *Definition) Params() (*DeployParams, error) {

	if err := d.Validate(); err != nil {
		return nil, err
	}

	params := &DeployParams{}

	for _, job := range d.Jobs {
		if authStep := findStep(job, func(s *Step) bool { return strings.Contains(s.Uses, "auth") }); authStep != nil {
			params.ServiceAccount = authStep.With["service_account"]
			params.WorkloadIdentityProvider = authStep.With["workload_identity_provider"]
		}
		if deployStep := findStep(job, func(s *Step) bool { return strings.Contains(s.Run, "gcloud run deploy") }); deployStep != nil {
			flags := parseCommandFlags(deployStep.Run)
			params.Project = flags["project"]
			params.Region = flags["region"]
			params.Service = deployCommandService(deployStep.Run)
			params.Port, _ = strconv.Atoi(flags["port"])
			_, params.AllowUnauthenticated = flags["allow-unauthenticated"]
		}
	}

	return params, nil
}

func findStep(job *Job, match func(*Step) bool) *Step {
	for _, step := range job.Steps {
		if match(step) {
			return step
		}
	}
	return nil
}

// parseCommandFlags scans a shell command for --flag and --flag value
// pairs. Line continuations are treated as whitespace.
func parseCommandFlags(run string) map[string]string {

	fields := strings.Fields(strings.ReplaceAll(run, "\\\n", " "))

	flags := make(map[string]string)

	for i := 0; i < len(fields); i++ {
		if !strings.HasPrefix(fields[i], "--") {
			continue
		}

		name := strings.TrimPrefix(fields[i], "--")

		if eq := strings.IndexByte(name, '='); eq >= 0 {
			flags[name[:eq]] = trimQuotes(name[eq+1:])
			continue
		}

		if i+1 < len(fields) && !strings.HasPrefix(fields[i+1], "--") {
			flags[name] = trimQuotes(fields[i+1])
			i++
		} else {
			flags[name] = ""
		}
	}

	return flags
}

// deployCommandService returns the positional service argument of a
// "gcloud run deploy" command.
func deployCommandService(run string) string {

	fields := strings.Fields(strings.ReplaceAll(run, "\\\n", " "))

	for i := 0; i+2 < len(fields); i++ {
		if fields[i] == "run" && fields[i+1] == "deploy" {
			if arg := fields[i+2]; !strings.HasPrefix(arg, "--") {
				return trimQuotes(arg)
			}
			return ""
		}
	}
	return ""
}

func trimQuotes(s string) string {
	return strings.Trim(s, `"'`)
}
