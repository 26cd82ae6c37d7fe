package targetprocess

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tkc/tp-todo/internal/domain"
)

// Assignables の取得で使うフィールド
const (
	FieldAssignedUserID = "AssignedUser.Id"
	FieldTeamID         = "Team.Id"
	FieldIsCurrent      = "TeamIteration.IsCurrent"
	FieldStateName      = "EntityState.Name"

	assignableInclude = "[Id,Name,Description,EntityState,AssignedUser,ResponsibleTeam[EntityState[Name,NumericPriority,Workflow[Id]]]]"
	assignableOrderBy = "NumericPriority"
)

type assignablesResponse struct {
	Items []assignableItem `json:"Items"`
}

type assignableItem struct {
	ID          int     `json:"Id"`
	Name        string  `json:"Name"`
	Description *string `json:"Description"`
	EntityState *struct {
		Name string `json:"Name"`
	} `json:"EntityState"`
	AssignedUser *struct {
		Items []struct {
			FirstName string `json:"FirstName"`
			LastName  string `json:"LastName"`
		} `json:"Items"`
	} `json:"AssignedUser"`
	ResponsibleTeam *struct {
		EntityState *struct {
			Name            string   `json:"Name"`
			NumericPriority *float64 `json:"NumericPriority"`
			Workflow        *struct {
				ID int `json:"Id"`
			} `json:"Workflow"`
		} `json:"EntityState"`
	} `json:"ResponsibleTeam"`
}

// TaskService はタスクの取得とワークフロー解決を行う
type TaskService struct {
	client   *Client
	resolver *WorkflowResolver
}

// NewTaskService は新しいTaskServiceを作成する
func NewTaskService(client *Client) *TaskService {
	return &TaskService{
		client:   client,
		resolver: NewWorkflowResolver(client),
	}
}

// TaskConditions はフィルタ条件をwhere句の条件に変換する
// 順序は user, team, currentSprint, defined, inProgress で固定
func TaskConditions(filter domain.TaskFilter) []Condition {
	conditions := make([]Condition, 0, 5)
	if filter.User != 0 {
		conditions = append(conditions, Equals{Field: FieldAssignedUserID, Value: filter.User})
	}
	if filter.Team != 0 {
		conditions = append(conditions, Equals{Field: FieldTeamID, Value: filter.Team})
	}
	if filter.CurrentSprint {
		conditions = append(conditions, Equals{Field: FieldIsCurrent, Value: true})
	}
	if filter.Defined {
		conditions = append(conditions, Compare{Field: FieldStateName, Operator: OpIn, Value: []string{string(domain.StateDefined)}})
	}
	if filter.InProgress {
		conditions = append(conditions, Compare{Field: FieldStateName, Operator: OpIn, Value: []string{string(domain.StateInProgress)}})
	}
	return conditions
}

// FetchTasks は条件に合うタスクを取得し、ワークフローの段数を解決して返す
func (s *TaskService) FetchTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	tasks, err := s.client.Assignables(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.resolver.Resolve(ctx, CollectWorkflowIDs(tasks), tasks)
}

// Assignables はタスクを1回のリクエストで取得する。ワークフローは解決しない
func (c *Client) Assignables(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	params := url.Values{
		"where":   {BuildFilter(TaskConditions(filter)...)},
		"include": {assignableInclude},
		"orderBy": {assignableOrderBy},
	}

	var resp assignablesResponse
	if err := c.get(ctx, "Assignables", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(resp.Items))
	for _, item := range resp.Items {
		tasks = append(tasks, c.toTask(item))
	}
	return tasks, nil
}

func (c *Client) toTask(item assignableItem) domain.Task {
	task := domain.Task{
		ID:          item.ID,
		Title:       item.Name,
		Description: item.Description,
		URL:         c.EntityURL(item.ID),
		Assignees:   make([]string, 0),
	}

	if item.EntityState != nil {
		task.Progress.State = domain.StateName(item.EntityState.Name)
	}

	if item.AssignedUser != nil {
		for _, u := range item.AssignedUser.Items {
			task.Assignees = append(task.Assignees, strings.Join([]string{u.FirstName, u.LastName}, " "))
		}
	}

	if team := item.ResponsibleTeam; team != nil && team.EntityState != nil {
		state := team.EntityState
		task.Progress.TeamState = state.Name
		task.Progress.Step = state.NumericPriority
		if state.Workflow != nil && state.Workflow.ID != 0 {
			id := state.Workflow.ID
			task.Progress.TeamWorkflow = &id
		}
	}

	return task
}
