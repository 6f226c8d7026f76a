package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrderAndCopies(t *testing.T) {
	registry := NewRegistry()
	reconcile := &stubJob{name: ReconcileJobName}
	retention := &stubJob{name: OutboxRetentionJobName}
	require.NoError(t, registry.Register(reconcile))
	require.NoError(t, registry.Register(retention))

	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	assert.Same(t, reconcile, jobs[0])
	assert.Same(t, retention, jobs[1])

	jobs[0] = nil
	assert.NotNil(t, registry.Jobs()[0])
}

func TestRegistryRejectsDuplicateAndBlankNames(t *testing.T) {
	registry := NewRegistry(&stubJob{name: "a"})

	assert.Error(t, registry.Register(&stubJob{name: "a"}))
	assert.Error(t, registry.Register(&stubJob{name: "  "}))
	assert.Error(t, registry.Register(nil))
	assert.Len(t, registry.Jobs(), 1)
}

func TestRegistryOnly(t *testing.T) {
	registry := NewRegistry(&stubJob{name: "a"}, &stubJob{name: "b"}, &stubJob{name: "c"})

	subset, err := registry.Only("c", "a")
	require.NoError(t, err)
	jobs := subset.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "c", jobs[0].Name())
	assert.Equal(t, "a", jobs[1].Name())

	_, err = registry.Only("missing")
	assert.Error(t, err)

	job, ok := registry.Lookup(" b ")
	require.True(t, ok)
	assert.Equal(t, "b", job.Name())
}
