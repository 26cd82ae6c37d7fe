// Package setup は設定ファイルを作成する対話式ウィザード
package setup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/gommon/color"

	"github.com/tkc/tp-todo/internal/config"
	"github.com/tkc/tp-todo/internal/domain"
)

// UserFetcher はトークンの持ち主を取得する
type UserFetcher interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// ClientFactory は入力されたURLとトークンでUserFetcherを作る
type ClientFactory func(baseURL, token string) UserFetcher

// Choice は選択肢
type Choice struct {
	Value string
	Label string
}

// Commands はデフォルトコマンドの選択肢
var Commands = []Choice{
	{Value: "now", Label: "(now) show my tasks in progress"},
	{Value: "next", Label: "(next) show unassigned tasks"},
	{Value: "team", Label: "(team) show all tasks for my team"},
}

// Wizard は対話式の設定ウィザード
type Wizard struct {
	in        *bufio.Reader
	out       io.Writer
	color     *color.Color
	home      string
	newClient ClientFactory
}

// New は新しいWizardを作成する
func New(in io.Reader, out io.Writer, home string, newClient ClientFactory) *Wizard {
	c := color.New()
	c.SetOutput(out)
	return &Wizard{
		in:        bufio.NewReader(in),
		out:       out,
		color:     c,
		home:      home,
		newClient: newClient,
	}
}

// Run は質問に答えてもらい設定ファイルを保存する
// 保存しなかった場合は空のパスを返す
func (w *Wizard) Run(ctx context.Context, current *config.Config) (string, error) {
	fmt.Fprintln(w.out, w.color.Underline("TargetProcess"))
	url, err := w.ask("Base URL", current.TargetProcess.URL)
	if err != nil {
		return "", err
	}
	token, err := w.ask("Token", current.TargetProcess.Token)
	if err != nil {
		return "", err
	}

	fmt.Fprintln(w.out, w.color.Underline("CLI"))
	defaultCommand, err := w.choose("Default Command", Commands, current.CLI.DefaultCommand)
	if err != nil {
		return "", err
	}

	fmt.Fprintln(w.out, w.color.Underline("Config File"))

	user, err := w.newClient(url, token).CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	team, ok := user.DefaultTeam()
	if !ok {
		return "", fmt.Errorf("user %d (%s) is not a member of any team", user.ID, user.Email)
	}

	next := *current
	next.TargetProcess.URL = url
	next.TargetProcess.Token = token
	next.Filter.User = user.ID
	next.Filter.Team = team.ID
	next.CLI.DefaultCommand = defaultCommand

	rendered, err := next.Render()
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w.out, w.color.Dim(rendered))

	path, err := w.choosePath(current.Path)
	if err != nil || path == "" {
		return "", err
	}

	if err := next.Save(path); err != nil {
		return "", fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(w.out, "Configuration file saved to %s\n", path)
	return path, nil
}

func (w *Wizard) choosePath(currentPath string) (string, error) {
	if currentPath != "" {
		// 指定されたファイルがまだ無ければそのまま作る
		if _, err := os.Stat(currentPath); errors.Is(err, os.ErrNotExist) {
			return currentPath, nil
		}
		ok, err := w.confirm(fmt.Sprintf("Overwrite file %s", currentPath))
		if err != nil || !ok {
			return "", err
		}
		return currentPath, nil
	}

	candidates := config.HomeCandidates(w.home)
	choices := make([]Choice, 0, len(candidates))
	for _, c := range candidates {
		choices = append(choices, Choice{Value: c, Label: c})
	}
	return w.choose("Choose config file location", choices, "")
}

func (w *Wizard) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w.out, "? %s (%s): ", label, def)
	} else {
		fmt.Fprintf(w.out, "? %s: ", label)
	}

	answer, err := w.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = def
	}
	if answer == "" {
		return "", fmt.Errorf("%s cannot be empty", strings.ToLower(label))
	}
	return answer, nil
}

func (w *Wizard) choose(label string, choices []Choice, def string) (string, error) {
	defIndex := 0
	for i, c := range choices {
		if c.Value == def {
			defIndex = i
		}
	}

	fmt.Fprintf(w.out, "? %s\n", label)
	for i, c := range choices {
		fmt.Fprintf(w.out, "  %d) %s\n", i+1, c.Label)
	}
	fmt.Fprintf(w.out, "  Answer [1-%d] (%d): ", len(choices), defIndex+1)

	answer, err := w.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return choices[defIndex].Value, nil
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(choices) {
		return "", fmt.Errorf("invalid choice: %q", answer)
	}
	return choices[n-1].Value, nil
}

func (w *Wizard) confirm(label string) (bool, error) {
	fmt.Fprintf(w.out, "? %s (y/N): ", label)

	answer, err := w.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine は1行読む。入力が終わっている場合は空文字を返す
func (w *Wizard) readLine() (string, error) {
	line, err := w.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
