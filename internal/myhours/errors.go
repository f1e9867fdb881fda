package myhours

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AuthError reports a rejected login or token refresh. It is never
// retried; the user has to sign in again.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

// PreconditionError reports an operation attempted without the local
// state it needs, e.g. a token refresh without a stored refresh token.
type PreconditionError struct {
	Op   string
	Need string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s without %s", e.Op, e.Need)
}

// RequestError reports a non-success HTTP status from the API, carrying
// the server-supplied message and validation details when present.
type RequestError struct {
	Status           int
	Message          string
	ValidationErrors []string
}

func (e *RequestError) Error() string {
	result := fmt.Sprintf("request failed with HTTP %d", e.Status)
	if e.Message == "" {
		return result
	}
	if len(e.ValidationErrors) > 0 {
		return fmt.Sprintf("%s - %s (%s)", result, e.Message, strings.Join(e.ValidationErrors, ", "))
	}
	return result + " - " + e.Message
}

// errorBody is the structured error shape the API returns when it can.
type errorBody struct {
	Message          string   `json:"message"`
	ValidationErrors []string `json:"validationErrors"`
}

// errorFromResponse builds a RequestError from a non-success response.
// An unparsable body or one without a message degrades to the plain
// status description.
func errorFromResponse(resp *http.Response) *RequestError {
	reqErr := &RequestError{Status: resp.StatusCode}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return reqErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		return reqErr
	}

	reqErr.Message = body.Message
	reqErr.ValidationErrors = body.ValidationErrors
	return reqErr
}
