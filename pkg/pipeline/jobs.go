package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/smapshot/pkg/observability"
)

// Job is one unit of work for RunJobs.
type Job struct {
	ID      string
	Options Options
}

// JobResult is the outcome of a Job. Exactly one of Result and Err is set.
type JobResult struct {
	ID       string
	Name     string
	Result   *Result
	Err      error
	Duration time.Duration
}

// Run executes a single job, assigning an id when it has none, and reports
// it to the render hooks.
func (r *Runner) Run(ctx context.Context, job Job) JobResult {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	name := job.Options.Boundary
	if job.Options.Shape != nil && job.Options.Shape.Name != "" {
		name = job.Options.Shape.Name
	}
	hooks := observability.Render()
	hooks.OnJobStart(ctx, job.ID, name)

	start := time.Now()
	res, err := r.Execute(ctx, job.Options)
	d := time.Since(start)
	hooks.OnJobComplete(ctx, job.ID, d, err)

	if err != nil {
		r.Logger.Error("job failed", "id", job.ID, "boundary", name, "err", err)
		return JobResult{ID: job.ID, Name: name, Err: err, Duration: d}
	}
	return JobResult{ID: job.ID, Name: res.Name, Result: res, Duration: d}
}

// RunJobs executes jobs with at most workers running at once. Results keep
// the order of jobs. A failed job never cancels the others.
func (r *Runner) RunJobs(ctx context.Context, jobs []Job, workers int) []JobResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]JobResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = r.Run(ctx, job)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
