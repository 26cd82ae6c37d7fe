package targetprocess

import (
	"fmt"
	"strconv"
	"strings"
)

// フィルタ演算子
const (
	OpEq = "eq"
	OpIn = "in"
)

// Condition はwhereパラメータの条件1つ
// https://dev.targetprocess.com/docs/sorting-and-filters
type Condition interface {
	expression() string
}

// Equals は "field eq value" の条件
type Equals struct {
	Field string
	Value any
}

func (c Equals) expression() string {
	return c.Field + " " + OpEq + " " + FormatValue(c.Value)
}

// Compare は任意の演算子を使う条件
type Compare struct {
	Field    string
	Operator string
	Value    any
}

func (c Compare) expression() string {
	return c.Field + " " + c.Operator + " " + FormatValue(c.Value)
}

// BuildFilter は条件を " and " で連結する。nil の条件は無視される
// 条件が残らなければ空文字を返す
func BuildFilter(conditions ...Condition) string {
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		if c == nil {
			continue
		}
		parts = append(parts, "("+c.expression()+")")
	}
	return strings.Join(parts, " and ")
}

// FormatValue は値をクエリ言語のリテラルに変換する
// 未対応の型はプログラミングエラーなのでpanicする
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return `"` + v + `"`
	case bool:
		return `"` + strconv.FormatBool(v) + `"`
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []int:
		return formatList(len(v), func(i int) string { return FormatValue(v[i]) })
	case []string:
		return formatList(len(v), func(i int) string { return FormatValue(v[i]) })
	case []any:
		return formatList(len(v), func(i int) string { return FormatValue(v[i]) })
	default:
		panic(fmt.Sprintf("targetprocess: unsupported filter value type %T", value))
	}
}

func formatList(n int, format func(int) string) string {
	items := make([]string, n)
	for i := range items {
		items[i] = format(i)
	}
	return "(" + strings.Join(items, ",") + ")"
}
