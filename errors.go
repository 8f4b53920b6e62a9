package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds. Every error that leaves a generator or store is classified by
// one of these so handlers can pick a status code with errors.Is.
var (
	errValidation        = errors.New("validation error")
	errUnauthorized      = errors.New("unauthorized")
	errNotFound          = errors.New("not found")
	errRateLimitExceeded = errors.New("rate limit exceeded")
	errCollaborator      = errors.New("collaborator failure")
	errInternal          = errors.New("internal error")
)

// kindError carries a human-readable message plus its kind and an optional cause.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *kindError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// newError builds a classified error with a formatted message.
func newError(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// wrapError classifies cause under kind, prefixing it with msg.
func wrapError(kind error, cause error, msg string) error {
	return &kindError{kind: kind, msg: msg, cause: cause}
}

// validationError names the offending field and the constraint it broke.
type validationError struct {
	Field      string
	Constraint string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Constraint)
}

func (e *validationError) Unwrap() error { return errValidation }

// statusFor maps an error kind to its HTTP status. Unclassified errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errValidation):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, errRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. 5xx errors are logged with
// their full chain; the client only sees a generic message for them.
func respondError(c *gin.Context, where string, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		apiError(c, status, err.Error())
		return
	}
	log.Printf("[%s] %v", where, err)
	if errors.Is(err, errCollaborator) {
		apiError(c, status, "plan generation failed, please try again")
		return
	}
	apiError(c, status, "internal error")
}
