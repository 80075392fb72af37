package googleads

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for upstream calls.
var (
	ErrTokenExchange   = errors.New("oauth token exchange failed")
	ErrMalformedResult = errors.New("malformed search response")
)

// failureType marks the detail entry carrying Google Ads error objects.
const failureType = "GoogleAdsFailure"

// APIError is a non-2xx response from the Google Ads API.
// Details holds the individual Google Ads error objects, verbatim.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	RequestID  string
	Details    []json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("google ads api returned HTTP %d", e.StatusCode)
	}
	return e.Message
}

// errorEnvelope is the google.rpc.Status wrapper returned on failure.
type errorEnvelope struct {
	Error *errorBody `json:"error"`
}

type errorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Details []errorDetail `json:"details"`
}

type errorDetail struct {
	Type      string            `json:"@type"`
	Errors    []json.RawMessage `json:"errors"`
	RequestID string            `json:"requestId"`
}

// parseAPIError decodes an error body. searchStream may wrap the status in a
// one-element array, so both shapes are accepted. Unparseable bodies keep
// their text as the message.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var env errorEnvelope
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var envs []errorEnvelope
		if err := json.Unmarshal(body, &envs); err == nil && len(envs) > 0 {
			env = envs[0]
		}
	} else {
		_ = json.Unmarshal(body, &env)
	}

	if env.Error == nil {
		apiErr.Message = trimmed
		return apiErr
	}

	apiErr.applyBody(env.Error)
	return apiErr
}

func (e *APIError) applyBody(b *errorBody) {
	e.Message = b.Message
	e.Status = b.Status
	for _, d := range b.Details {
		if !strings.HasSuffix(d.Type, failureType) {
			continue
		}
		e.Details = append(e.Details, d.Errors...)
		if d.RequestID != "" {
			e.RequestID = d.RequestID
		}
	}
}
