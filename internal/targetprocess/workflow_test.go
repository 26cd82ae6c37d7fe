package targetprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkc/tp-todo/internal/domain"
)

type fakeWorkflowFetcher struct {
	workflows []domain.Workflow
	err       error
	calls     [][]int
}

func (f *fakeWorkflowFetcher) FetchWorkflows(ctx context.Context, ids []int) ([]domain.Workflow, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	return f.workflows, nil
}

func intPtr(v int) *int { return &v }

func taskWithWorkflow(id int, workflow *int) domain.Task {
	return domain.Task{
		ID:    id,
		Title: "task",
		Progress: domain.Progress{
			State:        domain.StateInProgress,
			TeamWorkflow: workflow,
		},
	}
}

func TestCollectWorkflowIDs(t *testing.T) {
	tasks := []domain.Task{
		taskWithWorkflow(1, intPtr(20)),
		taskWithWorkflow(2, nil),
		taskWithWorkflow(3, intPtr(10)),
		taskWithWorkflow(4, intPtr(20)),
	}

	assert.Equal(t, []int{20, 10}, CollectWorkflowIDs(tasks))
	assert.Empty(t, CollectWorkflowIDs(nil))
}

func TestResolve_EmptyIDsIssuesNoRequest(t *testing.T) {
	fetcher := &fakeWorkflowFetcher{}
	resolver := NewWorkflowResolver(fetcher)
	tasks := []domain.Task{taskWithWorkflow(1, nil), taskWithWorkflow(2, nil)}

	got, err := resolver.Resolve(context.Background(), nil, tasks)

	require.NoError(t, err)
	assert.Empty(t, fetcher.calls)
	assert.Equal(t, tasks, got)
	for _, task := range got {
		assert.Nil(t, task.Progress.Steps)
	}
}

func TestResolve_SharedWorkflow(t *testing.T) {
	fetcher := &fakeWorkflowFetcher{
		workflows: []domain.Workflow{{ID: 20, StatesCount: 5}},
	}
	resolver := NewWorkflowResolver(fetcher)
	tasks := []domain.Task{
		taskWithWorkflow(1, intPtr(20)),
		taskWithWorkflow(2, intPtr(20)),
	}

	got, err := resolver.Resolve(context.Background(), CollectWorkflowIDs(tasks), tasks)

	require.NoError(t, err)
	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, []int{20}, fetcher.calls[0])
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
	for _, task := range got {
		require.NotNil(t, task.Progress.Steps)
		assert.Equal(t, 5, *task.Progress.Steps)
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	fetcher := &fakeWorkflowFetcher{
		workflows: []domain.Workflow{{ID: 20, StatesCount: 4}},
	}
	tasks := []domain.Task{taskWithWorkflow(1, intPtr(20))}

	got, err := NewWorkflowResolver(fetcher).Resolve(context.Background(), []int{20}, tasks)

	require.NoError(t, err)
	assert.Nil(t, tasks[0].Progress.Steps)
	require.NotNil(t, got[0].Progress.Steps)
	assert.Equal(t, 4, *got[0].Progress.Steps)
}

func TestResolve_TaskWithoutWorkflowPassesThrough(t *testing.T) {
	fetcher := &fakeWorkflowFetcher{
		workflows: []domain.Workflow{{ID: 10, StatesCount: 3}},
	}
	tasks := []domain.Task{
		taskWithWorkflow(1, nil),
		taskWithWorkflow(2, intPtr(10)),
	}

	got, err := NewWorkflowResolver(fetcher).Resolve(context.Background(), CollectWorkflowIDs(tasks), tasks)

	require.NoError(t, err)
	assert.Equal(t, tasks[0], got[0])
	assert.Nil(t, got[0].Progress.Steps)
	assert.Equal(t, 3, *got[1].Progress.Steps)
}

func TestResolve_MissingWorkflowIsIntegrityError(t *testing.T) {
	fetcher := &fakeWorkflowFetcher{
		workflows: []domain.Workflow{{ID: 10, StatesCount: 3}},
	}
	tasks := []domain.Task{
		taskWithWorkflow(1, intPtr(10)),
		taskWithWorkflow(2, intPtr(99)),
	}

	got, err := NewWorkflowResolver(fetcher).Resolve(context.Background(), CollectWorkflowIDs(tasks), tasks)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrMissingWorkflow))

	var missing *MissingWorkflowError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 2, missing.TaskID)
	assert.Equal(t, 99, missing.WorkflowID)
}

func TestResolve_FetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("boom")
	fetcher := &fakeWorkflowFetcher{err: fetchErr}
	tasks := []domain.Task{taskWithWorkflow(1, intPtr(10))}

	_, err := NewWorkflowResolver(fetcher).Resolve(context.Background(), []int{10}, tasks)

	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
}
