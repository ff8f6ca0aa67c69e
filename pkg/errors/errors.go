package errors

import (
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when a request is rejected locally, before
// anything is sent upstream
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrUpstream is returned for a non-retryable Shopify HTTP failure
// (any status other than 2xx, 429 and 5xx).
type ErrUpstream struct {
	Status int
	Body   string
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("shopify API error: status %d, body: %s", e.Status, e.Body)
}

// ErrExhaustedRetries is returned when every retry has failed.
// Attempts counts every request made, including the first one.
type ErrExhaustedRetries struct {
	Attempts int
	LastErr  error
}

func (e *ErrExhaustedRetries) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("shopify request failed after %d attempts: %v", e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("shopify request failed after %d attempts", e.Attempts)
}

func (e *ErrExhaustedRetries) Unwrap() error {
	return e.LastErr
}

// ErrDataShape is returned when an expected GraphQL connection is missing
// from an otherwise successful response.
type ErrDataShape struct {
	Field string
}

func (e *ErrDataShape) Error() string {
	return fmt.Sprintf("unexpected Shopify GraphQL response: missing %s", e.Field)
}
