package build

import (
	"testing"
)

func TestBuildSpec(t *testing.T) {

	spec := buildSpec("staging-bucket", "source/abc.tar.gz",
		"europe-west6-docker.pkg.dev/proj/svc/svc:latest", "deadbeef")

	storageSource := spec.Source.GetStorageSource()
	if storageSource == nil {
		t.Fatal("build source is not a storage source")
	}
	if storageSource.Bucket != "staging-bucket" || storageSource.Object != "source/abc.tar.gz" {
		t.Errorf("storage source = %s/%s", storageSource.Bucket, storageSource.Object)
	}

	if len(spec.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(spec.Steps))
	}
	step := spec.Steps[0]
	if step.Name != "gcr.io/cloud-builders/docker" {
		t.Errorf("builder = %q", step.Name)
	}

	wantArgs := []string{
		"build", "-t", "europe-west6-docker.pkg.dev/proj/svc/svc:latest",
		"--label", "org.opencontainers.image.revision=deadbeef", ".",
	}
	if len(step.Args) != len(wantArgs) {
		t.Fatalf("args = %v", step.Args)
	}
	for i, arg := range wantArgs {
		if step.Args[i] != arg {
			t.Errorf("args[%d] = %q, want %q", i, step.Args[i], arg)
		}
	}

	if len(spec.Images) != 1 || spec.Images[0] != "europe-west6-docker.pkg.dev/proj/svc/svc:latest" {
		t.Errorf("images = %v", spec.Images)
	}
}

func TestBuildSpecNoCommit(t *testing.T) {

	spec := buildSpec("bucket", "obj", "image:latest", "")

	for _, arg := range spec.Steps[0].Args {
		if arg == "--label" {
			t.Error("label arg present without a commit")
		}
	}
	if last := spec.Steps[0].Args[len(spec.Steps[0].Args)-1]; last != "." {
		t.Errorf("last arg = %q, want .", last)
	}
}
