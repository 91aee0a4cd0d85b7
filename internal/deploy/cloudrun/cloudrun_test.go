package cloudrun

import (
	"testing"

	"cloud.google.com/go/run/apiv2/runpb"
)

func TestServiceName(t *testing.T) {

	d := Deployer{
		project: "devops-project",
		region:  "europe-west6",
		service: "game-server-service",
	}

	want := "projects/devops-project/locations/europe-west6/services/game-server-service"
	if got := d.serviceName(); got != want {
		t.Errorf("serviceName() = %q, want %q", got, want)
	}
}

func TestServiceSpec(t *testing.T) {

	spec := serviceSpec("europe-west6-docker.pkg.dev/p/s/s:latest", 8080)

	if spec.Ingress != runpb.IngressTraffic_INGRESS_TRAFFIC_ALL {
		t.Errorf("ingress = %v", spec.Ingress)
	}

	containers := spec.Template.Containers
	if len(containers) != 1 {
		t.Fatalf("containers = %d, want 1", len(containers))
	}
	if containers[0].Image != "europe-west6-docker.pkg.dev/p/s/s:latest" {
		t.Errorf("image = %q", containers[0].Image)
	}
	if len(containers[0].Ports) != 1 || containers[0].Ports[0].ContainerPort != 8080 {
		t.Errorf("ports = %v", containers[0].Ports)
	}
	if spec.Template.Timeout.AsDuration() != requestTimeout {
		t.Errorf("timeout = %v", spec.Template.Timeout.AsDuration())
	}
}
