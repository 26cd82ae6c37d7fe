package targetprocess

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tkc/tp-todo/internal/domain"
)

const workflowAppend = "[EntityStates-Count]"

// WorkflowFetcher はワークフローをまとめて取得する
type WorkflowFetcher interface {
	FetchWorkflows(ctx context.Context, ids []int) ([]domain.Workflow, error)
}

type workflowsResponse struct {
	Items []struct {
		ID          int `json:"Id"`
		StatesCount int `json:"EntityStates-Count"`
	} `json:"Items"`
}

// FetchWorkflows は ids のワークフローを1回のリクエストで取得する
func (c *Client) FetchWorkflows(ctx context.Context, ids []int) ([]domain.Workflow, error) {
	if len(ids) == 0 {
		return []domain.Workflow{}, nil
	}

	params := url.Values{
		"where":  {BuildFilter(Compare{Field: "Id", Operator: OpIn, Value: ids})},
		"append": {workflowAppend},
	}

	var resp workflowsResponse
	if err := c.get(ctx, "Workflows", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch workflows: %w", err)
	}

	workflows := make([]domain.Workflow, 0, len(resp.Items))
	for _, item := range resp.Items {
		workflows = append(workflows, domain.Workflow{
			ID:          item.ID,
			StatesCount: item.StatesCount,
		})
	}
	return workflows, nil
}

// WorkflowResolver はタスクのワークフロー段数を解決する
type WorkflowResolver struct {
	fetcher WorkflowFetcher
}

// NewWorkflowResolver は新しいWorkflowResolverを作成する
func NewWorkflowResolver(fetcher WorkflowFetcher) *WorkflowResolver {
	return &WorkflowResolver{fetcher: fetcher}
}

// CollectWorkflowIDs はタスクが参照するワークフローIDを重複なく、出現順に返す
func CollectWorkflowIDs(tasks []domain.Task) []int {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, t := range tasks {
		if t.Progress.TeamWorkflow == nil {
			continue
		}
		id := *t.Progress.TeamWorkflow
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Resolve はワークフローを取得し、各タスクの Progress.Steps を埋めた新しいスライスを返す
// ids が空ならリクエストせずに tasks をそのまま返す
func (r *WorkflowResolver) Resolve(ctx context.Context, ids []int, tasks []domain.Task) ([]domain.Task, error) {
	if len(ids) == 0 {
		return tasks, nil
	}

	workflows, err := r.fetcher.FetchWorkflows(ctx, ids)
	if err != nil {
		return nil, err
	}

	statesCount := make(map[int]int, len(workflows))
	for _, w := range workflows {
		statesCount[w.ID] = w.StatesCount
	}

	resolved := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Progress.TeamWorkflow == nil {
			resolved = append(resolved, t)
			continue
		}
		id := *t.Progress.TeamWorkflow
		count, ok := statesCount[id]
		if !ok {
			return nil, &MissingWorkflowError{TaskID: t.ID, WorkflowID: id}
		}
		resolved = append(resolved, t.WithSteps(count))
	}
	return resolved, nil
}
