package agent

import "errors"

// ErrNoResponse is returned when a model stream ends without a final response.
var ErrNoResponse = errors.New("agent: stream ended without a response")
