package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/merge-warden/internal/core"
)

// ProviderError is a failed GitHub API call. It unwraps to one of the core
// provider sentinels and to the underlying go-github error.
type ProviderError struct {
	Op      string
	Status  int
	Message string
	Kind    error
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ProviderError) Unwrap() []error {
	errs := make([]error, 0, 2)
	for _, err := range []error{e.Kind, e.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// classify maps a go-github error onto the provider error categories.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	pe := &ProviderError{Op: op, Message: err.Error(), Kind: core.ErrProvider, Err: err}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse

	switch {
	case errors.As(err, &rateErr):
		pe.Kind = core.ErrRateLimited
		pe.Message = rateErr.Message
		if rateErr.Response != nil {
			pe.Status = rateErr.Response.StatusCode
		}
	case errors.As(err, &abuseErr):
		pe.Kind = core.ErrRateLimited
		pe.Message = abuseErr.Message
		if abuseErr.Response != nil {
			pe.Status = abuseErr.Response.StatusCode
		}
	case errors.As(err, &respErr):
		pe.Message = responseMessage(respErr)
		if respErr.Response != nil {
			pe.Status = respErr.Response.StatusCode
		}
		pe.Kind = kindForStatus(pe.Status, pe.Message)
	}
	return pe
}

func kindForStatus(status int, message string) error {
	lower := strings.ToLower(message)
	switch {
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusTooManyRequests,
		status == http.StatusForbidden && strings.Contains(lower, "rate limit"):
		return core.ErrRateLimited
	case status == http.StatusUnprocessableEntity && strings.Contains(lower, "already exists"):
		return core.ErrAlreadyExists
	case status == http.StatusConflict, status == http.StatusUnprocessableEntity,
		status == http.StatusMethodNotAllowed:
		return core.ErrUnprocessable
	default:
		return core.ErrProvider
	}
}

// responseMessage joins the top-level message with the per-field errors, which
// is where GitHub puts details such as "Reference already exists".
func responseMessage(r *github.ErrorResponse) string {
	parts := []string{r.Message}
	for _, e := range r.Errors {
		if e.Message != "" {
			parts = append(parts, e.Message)
		} else if e.Code != "" {
			parts = append(parts, e.Code)
		}
	}
	return strings.Join(parts, ": ")
}

// ProviderMessage returns the provider's error text, or the error string for
// errors that did not come from the API.
func ProviderMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
