package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tasklio/tasklio-go/internal/core/domain"
)

// envelope is the backend's wrapper around a payload. Older endpoints return
// the payload bare, newer ones wrapped; both report all outcomes under HTTP
// 200 with the real status carried in code. The pointer fields double as a
// structural discriminant: a body is only treated as an envelope when both
// code and message keys are present.
type envelope struct {
	Code    *int            `json:"code"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) valid() bool {
	return e.Code != nil && e.Message != nil
}

func (e *envelope) hasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// decode turns an HTTP status and raw body into a typed payload, the
// envelope's human-readable message (empty for bare payloads), or a pipeline
// error.
//
// Under HTTP 200 the body is classified structurally: envelope with a
// non-zero code is a backend business error, envelope with code zero carries
// the payload in data (possibly null for ack endpoints), and anything that is
// not an envelope is tried as the bare payload type. Non-200 statuses map to
// their kinds directly, taking the message from an error envelope when one
// parses.
func decode[T any](status int, body []byte) (T, string, error) {
	var zero T

	switch {
	case status == http.StatusOK:
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && env.valid() {
			if *env.Code != 0 {
				return zero, "", domain.NewAPIError(*env.Code, *env.Message)
			}
			if !env.hasData() {
				// Ack endpoints: success with nothing to decode.
				return zero, *env.Message, nil
			}
			var out T
			if err := json.Unmarshal(env.Data, &out); err != nil {
				return zero, "", domain.NewError(domain.KindDecode, "malformed response payload")
			}
			return out, *env.Message, nil
		}

		var out T
		if err := json.Unmarshal(body, &out); err == nil {
			return out, "", nil
		}
		return zero, "", domain.NewError(domain.KindDecode, "unrecognized response body")

	case status == http.StatusUnauthorized:
		if msg, ok := errorMessage(body); ok {
			return zero, "", domain.NewError(domain.KindAuthenticationFailed, msg)
		}
		return zero, "", domain.NewError(domain.KindUnauthorized, "unauthorized")

	case status == http.StatusBadRequest:
		return zero, "", domain.NewError(domain.KindBadRequest, messageOr(body, "bad request"))

	case status == http.StatusForbidden:
		return zero, "", domain.NewError(domain.KindForbidden, messageOr(body, "forbidden"))

	case status == http.StatusConflict:
		return zero, "", domain.NewError(domain.KindConflict, messageOr(body, "conflict"))

	case status >= 500 && status <= 599:
		// The body is deliberately ignored at this tier.
		return zero, "", domain.NewError(domain.KindServerError, "internal server error")

	default:
		return zero, "", domain.NewError(domain.KindUnknownStatus,
			messageOr(body, fmt.Sprintf("unexpected status %d", status)))
	}
}

// errorMessage extracts the message from an error envelope, if the body
// parses as one.
func errorMessage(body []byte) (string, bool) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || !env.valid() {
		return "", false
	}
	return *env.Message, true
}

func messageOr(body []byte, fallback string) string {
	if msg, ok := errorMessage(body); ok && msg != "" {
		return msg
	}
	return fallback
}
