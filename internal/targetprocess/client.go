package targetprocess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout はリクエストのタイムアウト
	DefaultTimeout = 30 * time.Second

	apiPath   = "/api/v1"
	userAgent = "todo-cli"

	// エラーレスポンス本文の読み込み上限
	maxErrorBody = 4096
)

// Client はTargetProcess REST API (v1) クライアント
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     oauth2.TokenSource
	log        *log.Entry
}

// Option はClientの設定を変更する
type Option func(*Client)

// WithHTTPClient は使用するhttp.Clientを差し替える
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource はアクセストークンの取得元を差し替える
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// NewClient は新しいClientを作成する
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &userAgentTransport{},
			Timeout:   DefaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens: oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		),
		log: log.WithField("component", "targetprocess"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EntityURL はエンティティのWeb画面へのリンクを返す
func (c *Client) EntityURL(id int) string {
	return fmt.Sprintf("%s/entity/%d", c.baseURL, id)
}

// get はリソースを取得してresultにデコードする
// 空の値を持つパラメータは送信しない
func (c *Client) get(ctx context.Context, resource string, params url.Values, result any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	query := url.Values{}
	for key, values := range params {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		query[key] = values
	}
	query.Set("format", "json")

	c.log.WithFields(log.Fields{
		"resource": resource,
		"query":    query.Encode(),
	}).Debug("GET")

	query.Set("access_token", token.AccessToken)
	endpoint := c.baseURL + apiPath + "/" + resource + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error にはトークン付きのURLが含まれる
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redact(urlErr.URL)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(log.Fields{
		"resource": resource,
		"status":   resp.StatusCode,
	}).Debug("response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("access_token") {
		q.Set("access_token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", userAgent)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
