package schoolapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Transient failure categories, phrased for direct display.
var (
	ErrTimeout     = errors.New("request timed out; the server might be slow")
	ErrUnavailable = errors.New("unable to connect to server")
)

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	if apiErr, ok := errors.Cause(err).(*APIError); ok {
		return apiErr.StatusCode == code
	}
	return false
}

// newAPIError extracts the human-readable detail the backend puts under one
// of a few well-known keys.
func newAPIError(resp *http.Response) error {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	detail := http.StatusText(resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		switch {
		case payload.Detail != "":
			detail = payload.Detail
		case payload.Message != "":
			detail = payload.Message
		case payload.Err != "":
			detail = payload.Err
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

// normalizeNetErr classifies network-level failures into displayable
// categories without hiding the cause chain.
func normalizeNetErr(err error) error {
	if uerr, ok := errors.Cause(err).(*url.Error); ok {
		if uerr.Timeout() {
			return errors.Wrapf(ErrTimeout, "%v", uerr.Err)
		}
		return errors.Wrapf(ErrUnavailable, "%v", uerr.Err)
	}
	return errors.Wrap(err, "sending request")
}
