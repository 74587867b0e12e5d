package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgerrcode"
)

// Sentinel errors for backend operations
var (
	// ErrMissingServiceKey is returned before any request is made when no
	// service credential was configured.
	ErrMissingServiceKey = errors.New("backend: service key is required")

	// ErrNotFound is matched by errors.Is for HTTPErrors carrying a 404 and for
	// NotFound responses passed through Expect.
	ErrNotFound = errors.New("backend: not found")
)

// Outcome classifies a backend response.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

func classify(status int) Outcome {
	switch {
	case status >= 200 && status < 300:
		return OutcomeSuccess
	case status == http.StatusNotFound:
		return OutcomeNotFound
	default:
		return OutcomeFailure
	}
}

// Response is the result of a backend call that did not fail.
// Outcome is either OutcomeSuccess or OutcomeNotFound.
type Response struct {
	Outcome    Outcome
	StatusCode int
	Method     string
	Path       string
	Body       []byte
}

// Found reports whether the resource existed.
func (r *Response) Found() bool {
	return r.Outcome == OutcomeSuccess
}

// Expect returns an error if the resource was not found. Use it where absence is
// not a tolerated outcome.
func (r *Response) Expect() error {
	if r.Outcome == OutcomeNotFound {
		return &HTTPError{Method: r.Method, Path: r.Path, StatusCode: r.StatusCode, Body: r.Body}
	}
	return nil
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.Method, r.Path, err)
	}
	return nil
}

// HTTPError is returned for every non-success status the caller did not opt to
// tolerate. It carries the status code and body for operator diagnosis.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), string(e.Body))
}

// Is makes errors.Is(err, ErrNotFound) true for 404s.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// PostgresCode returns the SQLSTATE PostgREST put in the error body, or "" when
// the body carries none.
func (e *HTTPError) PostgresCode() string {
	var body struct {
		Code string `json:"code"`
	}
	if json.Unmarshal(e.Body, &body) != nil {
		return ""
	}
	return body.Code
}

// IsUniqueViolation reports whether err is a write rejected by a unique
// constraint.
func IsUniqueViolation(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.PostgresCode() == pgerrcode.UniqueViolation
}

// IsIntegrityViolation reports whether err is any constraint violation, such as
// a foreign key naming an organization that does not exist.
func IsIntegrityViolation(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return pgerrcode.IsIntegrityConstraintViolation(httpErr.PostgresCode())
}
