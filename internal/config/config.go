package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"
)

// AppName は設定ファイル名や環境変数の接頭辞に使う名前
const AppName = "todo"

// DefaultCommand はサブコマンド省略時に実行するコマンド
const DefaultCommand = "now"

// fileHeader は保存するファイルの先頭行
const fileHeader = "; config for " + AppName + "\n"

// 環境変数
const (
	EnvConfig         = "TODO_CONFIG"
	EnvURL            = "TODO_URL"
	EnvToken          = "TODO_TOKEN"
	EnvUser           = "TODO_USER"
	EnvTeam           = "TODO_TEAM"
	EnvDefaultCommand = "TODO_DEFAULT_COMMAND"
)

// Config はアプリケーション設定
type Config struct {
	TargetProcess TargetProcess `ini:"targetProcess"`
	Filter        Filter        `ini:"filter"`
	CLI           CLI           `ini:"cli"`

	// Path は読み込んだファイルのうち最も優先度の高いもの。未読み込みなら空
	// 明示的に指定されたファイルはまだ存在しなくてもそのパスになる
	Path string `ini:"-"`
}

// TargetProcess は接続先
type TargetProcess struct {
	URL   string `ini:"url" validate:"required"`
	Token string `ini:"token" validate:"required"`
}

// Filter はデフォルトのフィルタ条件
type Filter struct {
	User int `ini:"user,omitempty"`
	Team int `ini:"team,omitempty"`
}

// CLI はコマンドラインの設定
type CLI struct {
	DefaultCommand string `ini:"defaultCommand"`
}

// IncompleteError は必須項目が足りないことを表す
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("configuration is incomplete, missing: %s", strings.Join(e.Missing, ", "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("ini"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default はデフォルト値の設定を返す
func Default() *Config {
	return &Config{
		CLI: CLI{DefaultCommand: DefaultCommand},
	}
}

// HomeCandidates はユーザーのホーム配下の保存先候補
func HomeCandidates(home string) []string {
	return []string{
		filepath.Join(home, "."+AppName+"rc"),
		filepath.Join(home, "."+AppName, "config"),
		filepath.Join(home, ".config", AppName),
		filepath.Join(home, ".config", AppName, "config"),
	}
}

// SearchPaths は検索するファイルを優先度の低い順に返す
func SearchPaths(home, cwd string) []string {
	paths := []string{
		filepath.Join("/etc", AppName, "config"),
		filepath.Join("/etc", AppName+"rc"),
	}

	if home != "" {
		candidates := HomeCandidates(home)
		for i := len(candidates) - 1; i >= 0; i-- {
			paths = append(paths, candidates[i])
		}
	}

	// カレントディレクトリに近いほど優先
	var local []string
	for dir := cwd; dir != ""; {
		local = append(local, filepath.Join(dir, "."+AppName+"rc"))
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	for i := len(local) - 1; i >= 0; i-- {
		paths = append(paths, local[i])
	}

	return dedupe(paths)
}

// Load は paths のうち存在するファイルを順に読み込む。後のファイルが優先される
func Load(paths ...string) (*Config, error) {
	cfg := Default()

	existing := make([]any, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		existing = append(existing, p)
		cfg.Path = p
	}
	if len(existing) == 0 {
		return cfg, nil
	}

	file, err := ini.Load(existing[0], existing[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := file.MapTo(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.CLI.DefaultCommand == "" {
		cfg.CLI.DefaultCommand = DefaultCommand
	}
	return cfg, nil
}

// LoadWithPrecedence は 環境変数 > 設定ファイル > デフォルト の順で設定を読み込む
// path を指定した場合(または TODO_CONFIG)はそのファイルだけを読む
func LoadWithPrecedence(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	var cfg *Config
	var err error
	if path != "" {
		if _, statErr := os.Stat(path); statErr != nil && !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("failed to read config: %w", statErr)
		}
		cfg, err = Load(path)
		if err == nil {
			cfg.Path = path
		}
	} else {
		home, _ := os.UserHomeDir()
		cwd, _ := os.Getwd()
		cfg, err = Load(SearchPaths(home, cwd)...)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvURL); v != "" {
		c.TargetProcess.URL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.TargetProcess.Token = v
	}
	if v := os.Getenv(EnvDefaultCommand); v != "" {
		c.CLI.DefaultCommand = v
	}
	ids := []struct {
		env string
		dst *int
	}{
		{EnvUser, &c.Filter.User},
		{EnvTeam, &c.Filter.Team},
	}
	for _, id := range ids {
		v := os.Getenv(id.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", id.env, v)
		}
		*id.dst = n
	}
	return nil
}

// Validate は必須項目(URLとトークン)が揃っているかを検証する
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.TrimPrefix(fe.Namespace(), "Config."))
	}
	return &IncompleteError{Missing: missing}
}

// IsConfigured は接続先が設定済みかどうかを返す
func (c *Config) IsConfigured() bool {
	return c.Validate() == nil
}

// Render は保存される内容を返す
func (c *Config) Render() (string, error) {
	file := ini.Empty()
	if err := ini.ReflectFrom(file, c); err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if _, err := file.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.String(), nil
}

// Save は設定ファイルを保存する
func (c *Config) Save(path string) error {
	data, err := c.Render()
	if err != nil {
		return err
	}

	// ディレクトリ作成
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	c.Path = path
	return nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
