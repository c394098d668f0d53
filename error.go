package crawlx

import (
	"errors"
	"fmt"
	"net/http"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("crawlx error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Typed failures map onto codes: a 404 FetchError is ENOTFOUND, the rest
// are EINTERNAL. Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
		return ENOTFOUND
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// LaunchError reports that the rendering engine could not be started.
// The pool stays usable; the next acquire attempts a fresh launch.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching renderer: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// FetchError reports a failed retrieval. StatusCode is the HTTP status when
// the server answered, or zero for transport failures and timeouts.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports that a single extraction strategy failed.
type ExtractionError struct {
	Method string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Method, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// JobError reports that a named job exited abnormally. ExitCode is set
// when the job wraps an external process.
type JobError struct {
	Job      string
	ExitCode int
	Err      error
}

func (e *JobError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("job %q exited with status %d: %v", e.Job, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("job %q failed: %v", e.Job, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }
