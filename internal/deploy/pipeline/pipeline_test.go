package pipeline

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestRunAllStepsSucceed(t *testing.T) {

	var order []string

	p := New(zap.NewNop(), nil)
	p.Append("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	p.Append("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("execution order = %v", order)
	}
	for _, step := range p.Steps() {
		if step.Status != StatusSuccess {
			t.Errorf("step %s status = %s, want %s", step.Name, step.Status, StatusSuccess)
		}
		if step.StartTime.IsZero() || step.EndTime.IsZero() {
			t.Errorf("step %s missing timestamps", step.Name)
		}
	}
}

func TestRunFailureSkipsRemainingSteps(t *testing.T) {

	boom := errors.New("boom")
	ran := false

	p := New(zap.NewNop(), nil)
	p.Append("passes", func(context.Context) error { return nil })
	p.Append("fails", func(context.Context) error { return boom })
	p.Append("never-runs", func(context.Context) error {
		ran = true
		return nil
	})

	if err := p.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run() = %v, want %v", err, boom)
	}
	if ran {
		t.Error("step after failure was executed")
	}

	steps := p.Steps()
	want := []string{StatusSuccess, StatusFailed, StatusSkipped}
	for i, status := range want {
		if steps[i].Status != status {
			t.Errorf("step %s status = %s, want %s", steps[i].Name, steps[i].Status, status)
		}
	}
	if steps[1].Err == nil {
		t.Error("failed step did not record its error")
	}
}

func TestRunUpdateCallback(t *testing.T) {

	updates := 0

	p := New(zap.NewNop(), func([]*Step) { updates++ })
	p.Append("only", func(context.Context) error { return nil })

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Initial render plus one per state transition.
	if updates != 3 {
		t.Errorf("updates = %d, want 3", updates)
	}
}
