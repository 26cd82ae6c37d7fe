package targetprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tkc/tp-todo/internal/domain"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int list", []int{1, 2, 3}, "(1,2,3)"},
		{"string", "Defined", `"Defined"`},
		{"string with space", "In Progress", `"In Progress"`},
		{"bool", true, `"true"`},
		{"false", false, `"false"`},
		{"int", 5, "5"},
		{"int64", int64(42), "42"},
		{"float", 1.5, "1.5"},
		{"string list", []string{"Defined"}, `("Defined")`},
		{"mixed list", []any{1, "a", true}, `(1,"a","true")`},
		{"nested list", []any{[]int{1, 2}, 3}, "((1,2),3)"},
		{"empty list", []int{}, "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestFormatValue_PanicsOnUnsupportedType(t *testing.T) {
	assert.Panics(t, func() { FormatValue(struct{}{}) })
	assert.Panics(t, func() { FormatValue(nil) })
}

func TestBuildFilter_Empty(t *testing.T) {
	assert.Equal(t, "", BuildFilter())
	assert.Equal(t, "", BuildFilter(nil, nil))
}

func TestBuildFilter_SingleEquals(t *testing.T) {
	assert.Equal(t, `(Name eq "v")`, BuildFilter(Equals{Field: "Name", Value: "v"}))
}

func TestBuildFilter_PreservesOrder(t *testing.T) {
	got := BuildFilter(Equals{Field: "a", Value: 1}, Equals{Field: "b", Value: 2})
	assert.Equal(t, "(a eq 1) and (b eq 2)", got)

	got = BuildFilter(Equals{Field: "b", Value: 2}, Equals{Field: "a", Value: 1})
	assert.Equal(t, "(b eq 2) and (a eq 1)", got)
}

func TestBuildFilter_SkipsNil(t *testing.T) {
	got := BuildFilter(nil, Equals{Field: "a", Value: 1}, nil, Equals{Field: "b", Value: 2})
	assert.Equal(t, "(a eq 1) and (b eq 2)", got)
}

func TestBuildFilter_Compare(t *testing.T) {
	got := BuildFilter(Compare{Field: "EntityState.Name", Operator: OpIn, Value: []string{"Defined"}})
	assert.Equal(t, `(EntityState.Name in ("Defined"))`, got)
}

func TestTaskConditions(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.TaskFilter
		want   string
	}{
		{
			name:   "no filter",
			filter: domain.TaskFilter{},
			want:   "",
		},
		{
			name:   "in progress",
			filter: domain.TaskFilter{InProgress: true},
			want:   `(EntityState.Name in ("In Progress"))`,
		},
		{
			name:   "team current sprint",
			filter: domain.TaskFilter{Team: 7, CurrentSprint: true},
			want:   `(Team.Id eq 7) and (TeamIteration.IsCurrent eq "true")`,
		},
		{
			name:   "my tasks in progress",
			filter: domain.TaskFilter{User: 12, InProgress: true},
			want:   `(AssignedUser.Id eq 12) and (EntityState.Name in ("In Progress"))`,
		},
		{
			name:   "all fields keep fixed order",
			filter: domain.TaskFilter{InProgress: true, Defined: true, CurrentSprint: true, Team: 3, User: 1},
			want: `(AssignedUser.Id eq 1) and (Team.Id eq 3) and (TeamIteration.IsCurrent eq "true")` +
				` and (EntityState.Name in ("Defined")) and (EntityState.Name in ("In Progress"))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilter(TaskConditions(tt.filter)...))
		})
	}
}
