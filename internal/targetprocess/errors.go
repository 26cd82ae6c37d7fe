package targetprocess

import (
	"errors"
	"fmt"
)

// APIError はTargetProcessが成功以外のステータスを返したときのエラー
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound は404かどうかを返す
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorised はトークンが無効かどうかを返す
func (e *APIError) IsUnauthorised() bool {
	return e.StatusCode == 401
}

// ErrMissingWorkflow はタスクが参照するワークフローが取得結果に無いことを表す
var ErrMissingWorkflow = errors.New("workflow missing from lookup")

// MissingWorkflowError は整合性エラー。進捗を0で埋めることはしない
type MissingWorkflowError struct {
	TaskID     int
	WorkflowID int
}

func (e *MissingWorkflowError) Error() string {
	return fmt.Sprintf("task %d references workflow %d which was not returned by the workflow lookup", e.TaskID, e.WorkflowID)
}

func (e *MissingWorkflowError) Is(target error) bool {
	return target == ErrMissingWorkflow
}
