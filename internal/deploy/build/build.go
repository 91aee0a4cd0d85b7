// Package build stages a source archive into cloud storage and runs a
// container image build from it.
package build

import (
	"context"
	"fmt"
	"io"

	cloudbuild "cloud.google.com/go/cloudbuild/apiv1/v2"
	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"cloud.google.com/go/storage"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

type BuilderReq struct {
	Logger *zap.Logger

	Project string
	Bucket  string
	Image   string

	// TokenSource carries the federated deploy credential; when nil the
	// ambient application default credentials are used.
	TokenSource oauth2.TokenSource
}

type Builder struct {
	logger *zap.Logger

	project string
	bucket  string
	image   string

	storageClient *storage.Client
	buildClient   *cloudbuild.Client
}

// Result describes a finished image build.
type Result struct {
	Image   string
	BuildID string
	LogURL  string
}

func NewBuilder(ctx context.Context, req *BuilderReq) (*Builder, error) {

	var opts []option.ClientOption
	if req.TokenSource != nil {
		opts = append(opts, option.WithTokenSource(req.TokenSource))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	buildClient, err := cloudbuild.NewClient(ctx, opts...)
	if err != nil {
		_ = storageClient.Close()
		return nil, fmt.Errorf("failed to create build client: %w", err)
	}

	return &Builder{
		logger:        req.Logger.Named(logger.ComponentNameBuild),
		project:       req.Project,
		bucket:        req.Bucket,
		image:         req.Image,
		storageClient: storageClient,
		buildClient:   buildClient,
	}, nil
}

func (b *Builder) Close() {
	_ = b.storageClient.Close()
	_ = b.buildClient.Close()
}

// Run uploads the source archive and executes the image build,
// blocking until the build finishes.
func (b *Builder) Run(ctx context.Context, archive io.Reader, commit string) (*Result, error) {

	object := fmt.Sprintf("source/%s.tar.gz", ulid.Make().String())

	if err := b.upload(ctx, object, archive); err != nil {
		return nil, fmt.Errorf("failed to upload source archive: %w", err)
	}
	b.logger.Info("uploaded source archive",
		zap.String("bucket", b.bucket), zap.String("object", object))

	op, err := b.buildClient.CreateBuild(ctx, &cloudbuildpb.CreateBuildRequest{
		ProjectId: b.project,
		Build:     buildSpec(b.bucket, object, b.image, commit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create build: %w", err)
	}

	b.logger.Info("waiting for image build to finish")

	done, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("image build failed: %w", err)
	}
	if done.Status != cloudbuildpb.Build_SUCCESS {
		return nil, fmt.Errorf("image build finished with status %s", done.Status)
	}

	b.logger.Info("image build succeeded",
		zap.String("build_id", done.Id), zap.String("image", b.image))

	return &Result{
		Image:   b.image,
		BuildID: done.Id,
		LogURL:  done.LogUrl,
	}, nil
}

func (b *Builder) upload(ctx context.Context, object string, archive io.Reader) error {

	writer := b.storageClient.Bucket(b.bucket).Object(object).NewWriter(ctx)
	writer.ContentType = "application/gzip"

	if _, err := io.Copy(writer, archive); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// buildSpec describes a docker build of the uploaded source, tagged and
// pushed as the configured image. The commit, when known, is recorded
// as an image label for provenance.
func buildSpec(bucket, object, image, commit string) *cloudbuildpb.Build {

	args := []string{"build", "-t", image}
	if commit != "" {
		args = append(args, "--label", "org.opencontainers.image.revision="+commit)
	}
	args = append(args, ".")

	return &cloudbuildpb.Build{
		Source: &cloudbuildpb.Source{
			Source: &cloudbuildpb.Source_StorageSource{
				StorageSource: &cloudbuildpb.StorageSource{
					Bucket: bucket,
					Object: object,
				},
			},
		},
		Steps: []*cloudbuildpb.BuildStep{
			{
				Name: "gcr.io/cloud-builders/docker",
				Args: args,
			},
		},
		Images: []string{image},
	}
}
