package sim

import (
	"context"
	"sync"

	"github.com/san-kum/pacer/internal/pacer"
)

// Job is one independent run: Setup populates a fresh registry, and Metrics,
// when set, supplies the metrics for this run only.
type Job struct {
	Name    string
	Setup   func(reg *pacer.Registry) error
	Config  Config
	Times   []float64
	Metrics func() []Metric
}

// RunBatch runs every job on its own registry and goroutine. Results are
// returned in job order; the first error in job order fails the batch.
func RunBatch(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = runJob(ctx, jobs[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func runJob(ctx context.Context, job Job) (*Result, error) {
	reg := pacer.NewRegistry()
	if job.Setup != nil {
		if err := job.Setup(reg); err != nil {
			return nil, err
		}
	}

	r := New(reg)
	if job.Metrics != nil {
		for _, m := range job.Metrics() {
			r.AddMetric(m)
		}
	}

	if len(job.Times) > 0 {
		return r.RunSchedule(ctx, job.Times)
	}
	return r.Run(ctx, job.Config)
}
