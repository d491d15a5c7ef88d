package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Error is returned for any non-2xx backend response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// newError extracts the backend's "detail" message. Validation failures carry
// a list of details; the first message is used.
func newError(resp *resty.Response) *Error {
	body := resp.Body()
	msg := ""
	if gjson.ValidBytes(body) {
		detail := gjson.GetBytes(body, "detail")
		switch {
		case detail.IsArray():
			msg = detail.Get("0.msg").String()
		case detail.Exists():
			msg = detail.String()
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &Error{StatusCode: resp.StatusCode(), Message: msg}
}
