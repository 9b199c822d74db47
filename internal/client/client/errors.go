package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("service unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSession    = errors.New("no active session")
)

// APIError is a non-2xx answer from a hosted service.
type APIError struct {
	Status  int
	Message string

	kind error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(status int, msg string) *APIError {
	e := &APIError{Status: status, Message: msg}
	switch {
	case status == 401 || status == 403:
		e.kind = ErrUnauthorized
	case status >= 500:
		e.kind = ErrUnavailable
	}
	return e
}

// Message returns the text a user should see for err: the service message
// when there is one, otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && !errors.Is(err, ErrUnavailable) && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
