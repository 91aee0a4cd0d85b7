// Package cloudrun creates or updates the Cloud Run service that runs
// the game server and manages its public access policy.
package cloudrun

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/iam/apiv1/iampb"
	run "cloud.google.com/go/run/apiv2"
	"cloud.google.com/go/run/apiv2/runpb"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

// requestTimeout bounds a single game API request; autoplay loops are
// driven client side, so nothing legitimately runs longer.
const requestTimeout = 60 * time.Second

type DeployerReq struct {
	Logger *zap.Logger

	Project string
	Region  string
	Service string
	Port    int

	// AllowUnauthenticated opens the service to unauthenticated
	// invocations once the revision is serving.
	AllowUnauthenticated bool

	// TokenSource carries the federated deploy credential; when nil the
	// ambient application default credentials are used.
	TokenSource oauth2.TokenSource
}

type Deployer struct {
	logger *zap.Logger

	project              string
	region               string
	service              string
	port                 int
	allowUnauthenticated bool

	client *run.ServicesClient
}

func NewDeployer(ctx context.Context, req *DeployerReq) (*Deployer, error) {

	var opts []option.ClientOption
	if req.TokenSource != nil {
		opts = append(opts, option.WithTokenSource(req.TokenSource))
	}

	client, err := run.NewServicesClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create services client: %w", err)
	}

	return &Deployer{
		logger:               req.Logger.Named(logger.ComponentNameCloudRun),
		project:              req.Project,
		region:               req.Region,
		service:              req.Service,
		port:                 req.Port,
		allowUnauthenticated: req.AllowUnauthenticated,
		client:               client,
	}, nil
}

func (d *Deployer) Close() { _ = d.client.Close() }

// Deploy rolls the service onto the given image, creating the service
// if this is the first deploy, and returns the serving URL.
func (d *Deployer) Deploy(ctx context.Context, image string) (string, error) {

	name := d.serviceName()

	_, err := d.client.GetService(ctx, &runpb.GetServiceRequest{Name: name})

	var deployed *runpb.Service

	switch status.Code(err) {
	case codes.OK:
		d.logger.Info("updating existing service", zap.String("service", name))
		deployed, err = d.updateService(ctx, name, image)
	case codes.NotFound:
		d.logger.Info("creating service", zap.String("service", name))
		deployed, err = d.createService(ctx, image)
	default:
		return "", fmt.Errorf("failed to look up service: %w", err)
	}
	if err != nil {
		return "", err
	}

	if d.allowUnauthenticated {
		if err := d.allowPublicAccess(ctx, name); err != nil {
			return "", fmt.Errorf("failed to allow unauthenticated access: %w", err)
		}
	}

	d.logger.Info("service is serving",
		zap.String("service", name), zap.String("url", deployed.Uri))

	return deployed.Uri, nil
}

// URL returns the serving URL of the deployed service.
func (d *Deployer) URL(ctx context.Context) (string, error) {

	svc, err := d.client.GetService(ctx, &runpb.GetServiceRequest{Name: d.serviceName()})
	if err != nil {
		return "", fmt.Errorf("failed to get service: %w", err)
	}
	return svc.Uri, nil
}

func (d *Deployer) createService(ctx context.Context, image string) (*runpb.Service, error) {

	op, err := d.client.CreateService(ctx, &runpb.CreateServiceRequest{
		Parent:    fmt.Sprintf("projects/%s/locations/%s", d.project, d.region),
		ServiceId: d.service,
		Service:   serviceSpec(image, d.port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	svc, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("service creation failed: %w", err)
	}
	return svc, nil
}

func (d *Deployer) updateService(ctx context.Context, name, image string) (*runpb.Service, error) {

	spec := serviceSpec(image, d.port)
	spec.Name = name

	op, err := d.client.UpdateService(ctx, &runpb.UpdateServiceRequest{Service: spec})
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	svc, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("service update failed: %w", err)
	}
	return svc, nil
}

func (d *Deployer) allowPublicAccess(ctx context.Context, name string) error {

	_, err := d.client.SetIamPolicy(ctx, &iampb.SetIamPolicyRequest{
		Resource: name,
		Policy: &iampb.Policy{
			Bindings: []*iampb.Binding{
				{
					Role:    "roles/run.invoker",
					Members: []string{"allUsers"},
				},
			},
		},
	})
	return err
}

func (d *Deployer) serviceName() string {
	return fmt.Sprintf("projects/%s/locations/%s/services/%s",
		d.project, d.region, d.service)
}

// serviceSpec describes a single-container service exposing the game
// server port.
func serviceSpec(image string, port int) *runpb.Service {
	return &runpb.Service{
		Ingress: runpb.IngressTraffic_INGRESS_TRAFFIC_ALL,
		Template: &runpb.RevisionTemplate{
			Timeout: durationpb.New(requestTimeout),
			Containers: []*runpb.Container{
				{
					Image: image,
					Ports: []*runpb.ContainerPort{
						{ContainerPort: int32(port)},
					},
				},
			},
		},
	}
}
