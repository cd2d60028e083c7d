package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/openai/openai-go"
)

// userInputStatus lists the statuses that reject the request itself.
// Other 4xx answers are permanent and 5xx are transient.
var userInputStatus = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusNotFound:            true,
	http.StatusUnprocessableEntity: true,
}

func categorize(status int) ai.ErrorCategory {
	switch {
	case status == http.StatusTooManyRequests, status/100 == 5:
		return ai.ErrorTransient
	case userInputStatus[status]:
		return ai.ErrorUserInput
	default:
		return ai.ErrorPermanent
	}
}

// wrapError classifies an API error as an *ai.Error. Any answer carrying a
// retry hint is transient. Errors that never got a response pass through.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	e := ai.NewError(categorize(apiErr.StatusCode), apiErr.StatusCode, err.Error(), err)
	if e.RetryAfter = retryAfter(apiErr.Response); e.RetryAfter > 0 {
		e.Category = ai.ErrorTransient
	}
	return e
}

// retryAfter reads the server's hint from Retry-After-Ms, or from
// Retry-After as seconds or an HTTP date.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	if ms, err := strconv.ParseFloat(resp.Header.Get("Retry-After-Ms"), 64); err == nil && ms > 0 {
		return time.Duration(ms * float64(time.Millisecond))
	}

	v := resp.Header.Get("Retry-After")
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}
