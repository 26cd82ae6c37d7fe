// Package printer はタスク一覧を端末向けに整形して出力する
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/labstack/gommon/color"
	"gopkg.in/yaml.v3"

	"github.com/tkc/tp-todo/internal/domain"
)

// Format は出力形式
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat は文字列から出力形式を返す
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (text, json, yaml)", s)
	}
}

// Options は出力オプション
type Options struct {
	ShowDescription bool
	Format          Format
}

// Printer はタスクを出力する
type Printer struct {
	out   io.Writer
	color *color.Color
}

// New は新しいPrinterを作成する
// out が端末でない場合は色を付けない
func New(out io.Writer, noColor bool) *Printer {
	c := color.New()
	c.SetOutput(out)
	if noColor {
		c.Disable()
	}
	return &Printer{out: out, color: c}
}

// PrintTasks はタスク一覧を出力する
func (p *Printer) PrintTasks(tasks []domain.Task, opt Options) error {
	switch opt.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, t := range tasks {
		if err := p.printTask(t, opt.ShowDescription); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printTask(t domain.Task, showDescription bool) error {
	assignees := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		assignees = append(assignees, p.color.Dim(a))
	}

	fmt.Fprintf(p.out, "%s %s %s %s\n%s\n",
		p.color.Red(t.ID, color.B),
		p.color.Blue(t.URL),
		p.state(t.Progress.State),
		strings.Join(assignees, ", "),
		t.Title,
	)

	if progress := p.progress(t.Progress); progress != "" {
		fmt.Fprintln(p.out, progress)
	}

	if showDescription && t.HasDescription() {
		text, err := FormatHTML(*t.Description)
		if err != nil {
			return fmt.Errorf("failed to format description of task %d: %w", t.ID, err)
		}
		if text != "" {
			fmt.Fprintln(p.out, text)
		}
	}

	fmt.Fprintln(p.out)
	return nil
}

func (p *Printer) state(s domain.StateName) string {
	switch s {
	case domain.StateInProgress:
		return p.color.Yellow(s)
	case domain.StateCompleted, domain.StateDone:
		return p.color.Green(s)
	default:
		return p.color.Dim(s)
	}
}

// progress はチームのワークフロー上の位置を "Dev (2/5)" の形式で返す
func (p *Printer) progress(pr domain.Progress) string {
	if pr.TeamState == "" {
		return ""
	}
	if !pr.Resolved() || pr.Step == nil {
		return p.color.Cyan(pr.TeamState)
	}
	step := strconv.FormatFloat(*pr.Step, 'f', -1, 64)
	return fmt.Sprintf("%s %s", p.color.Cyan(pr.TeamState), p.color.Dim(fmt.Sprintf("(%s/%d)", step, *pr.Steps)))
}

// FormatHTML は説明文のHTMLをテキストに変換する
func FormatHTML(html string) (string, error) {
	fixed := strings.NewReplacer("<div>", "<p>", "</div>", "</p>").Replace(html)
	return html2text.FromString(fixed, html2text.Options{})
}
