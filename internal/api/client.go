package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"docugen/internal/logging"
)

// TokenSource supplies the bearer token for backend requests. An empty token
// means the request is sent anonymously.
type TokenSource interface {
	APIToken() (string, error)
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Retries int
	Tokens  TokenSource
	Logger  *logging.Logger
}

// Client talks to the docugen backend REST API.
type Client struct {
	resty   *resty.Client
	baseURL string
	log     *logging.Logger
}

// New builds a client rooted at <BaseURL>/api. Failed GET requests and
// transport errors are retried up to opts.Retries times.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	r := resty.New().
		SetLogger(log.SugaredLogger).
		SetBaseURL(base+"/api").
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "docugen-desktop/1.0").
		SetRetryCount(max(opts.Retries, 0)).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				// A nil response means a request hook failed before sending.
				return resp != nil
			}
			return resp.StatusCode() >= http.StatusInternalServerError &&
				resp.Request.Method == http.MethodGet
		})
	if opts.Timeout > 0 {
		r.SetTimeout(opts.Timeout)
	}

	if opts.Tokens != nil {
		tokens := opts.Tokens
		r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			token, err := tokens.APIToken()
			if err != nil {
				return fmt.Errorf("api: read token: %w", err)
			}
			if token != "" {
				req.SetAuthToken(token)
			}
			return nil
		})
	}

	return &Client{resty: r, baseURL: base, log: log}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, query map[string]string) error {
	req := c.resty.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode(), "duration", resp.Time())
	if resp.IsError() {
		return newError(resp)
	}
	return nil
}
