package cron

import (
	"context"
	"fmt"
	"strings"
)

// Names of the jobs the cron worker registers.
const (
	ReconcileJobName       = "stock-reconcile"
	OutboxRetentionJobName = "outbox-retention"
)

// Job represents a scheduled task that runs inside the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a cron cycle runs, in registration order.
type Registry struct {
	jobs  []Job
	index map[string]int
}

// NewRegistry builds a registry preloaded with the provided jobs. Nil jobs
// and repeated names are skipped.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{index: make(map[string]int)}
	for _, job := range jobs {
		_ = registry.Register(job)
	}
	return registry
}

// Register adds a job. Job names must be unique.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("job required")
	}
	name := strings.TrimSpace(job.Name())
	if name == "" {
		return fmt.Errorf("job name required")
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	r.index[name] = len(r.jobs)
	r.jobs = append(r.jobs, job)
	return nil
}

// Lookup returns the job registered under name.
func (r *Registry) Lookup(name string) (Job, bool) {
	pos, ok := r.index[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	return r.jobs[pos], true
}

// Only returns a registry limited to the named jobs.
func (r *Registry) Only(names ...string) (*Registry, error) {
	subset := NewRegistry()
	for _, name := range names {
		job, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown job %q", name)
		}
		if err := subset.Register(job); err != nil {
			return nil, err
		}
	}
	return subset, nil
}

// Jobs returns the registered jobs in the order they were added.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
