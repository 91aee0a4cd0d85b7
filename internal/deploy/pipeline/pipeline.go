package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// StepFunc performs the work of a single pipeline step.
type StepFunc func(ctx context.Context) error

// Step is one unit of pipeline work with its recorded outcome.
type Step struct {
	Name      string
	Status    string
	StartTime time.Time
	EndTime   time.Time
	Err       error

	run StepFunc
}

// UpdateFunc is invoked after every step state transition, so callers
// can render progress while the pipeline executes.
type UpdateFunc func(steps []*Step)

type Pipeline struct {
	logger   *zap.Logger
	steps    []*Step
	onUpdate UpdateFunc
}

func New(log *zap.Logger, onUpdate UpdateFunc) *Pipeline {
	return &Pipeline{
		logger:   log.Named(logger.ComponentNamePipeline),
		onUpdate: onUpdate,
	}
}

// Append adds a named step; steps run in the order they were added.
func (p *Pipeline) Append(name string, run StepFunc) {
	p.steps = append(p.steps, &Step{
		Name:   name,
		Status: StatusPending,
		run:    run,
	})
}

func (p *Pipeline) Steps() []*Step { return p.steps }

// Run executes the steps in order. The first failure stops execution
// and marks every remaining step skipped; the failure is returned.
func (p *Pipeline) Run(ctx context.Context) error {

	p.update()

	for i, step := range p.steps {

		stepLogger := p.logger.With(zap.String("step", step.Name))
		stepLogger.Info("executing pipeline step")

		step.Status = StatusRunning
		step.StartTime = time.Now()
		p.update()

		err := step.run(ctx)

		step.EndTime = time.Now()

		if err != nil {
			step.Status = StatusFailed
			step.Err = err
			p.skipFrom(i + 1)
			p.update()
			stepLogger.Error("pipeline step failed", zap.Error(err))
			return err
		}

		step.Status = StatusSuccess
		p.update()
		stepLogger.Info("successfully ran pipeline step",
			zap.Duration("elapsed", step.EndTime.Sub(step.StartTime)))
	}

	return nil
}

func (p *Pipeline) skipFrom(idx int) {
	for _, step := range p.steps[idx:] {
		step.Status = StatusSkipped
	}
}

func (p *Pipeline) update() {
	if p.onUpdate != nil {
		p.onUpdate(p.steps)
	}
}
