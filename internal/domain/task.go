package domain

// StateName はTargetProcessのEntityState名
type StateName string

const (
	StateDefined    StateName = "Defined"
	StateInProgress StateName = "In Progress"
	StateCompleted  StateName = "Completed"
	StateDone       StateName = "Done"
)

// Task はTargetProcessのAssignable(タスク)を表す
type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description *string  `json:"description,omitempty" yaml:"description,omitempty"` // HTMLのまま
	URL         string   `json:"url" yaml:"url"`
	Assignees   []string `json:"assignees" yaml:"assignees"`
	Progress    Progress `json:"progress" yaml:"progress"`
}

// Progress はチームのワークフロー上での進捗
type Progress struct {
	State        StateName `json:"state" yaml:"state"`
	TeamState    string    `json:"teamState,omitempty" yaml:"teamState,omitempty"`
	TeamWorkflow *int      `json:"teamWorkflow,omitempty" yaml:"teamWorkflow,omitempty"`
	Step         *float64  `json:"step,omitempty" yaml:"step,omitempty"`   // NumericPriority
	Steps        *int      `json:"steps,omitempty" yaml:"steps,omitempty"` // ワークフロー解決後のみ
}

// HasDescription は説明文があるかどうかを返す
func (t Task) HasDescription() bool {
	return t.Description != nil && *t.Description != ""
}

// WithSteps はSteps を設定したコピーを返す
func (t Task) WithSteps(steps int) Task {
	t.Progress.Steps = &steps
	return t
}

// Resolved はワークフローの段数が解決済みかどうかを返す
func (p Progress) Resolved() bool {
	return p.Steps != nil
}

// TaskFilter はタスク取得の条件
// ID が 0 のものは条件なしとして扱う
type TaskFilter struct {
	User          int
	Team          int
	CurrentSprint bool
	Defined       bool
	InProgress    bool
}

// Workflow はチームワークフローの定義
type Workflow struct {
	ID          int
	StatesCount int
}
