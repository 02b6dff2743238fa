package deploy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Kind is a coarse classification of a failed platform call.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindQuota         Kind = "quota"
	KindConflict      Kind = "conflict"
	KindTransient     Kind = "transient"
	KindUnknown       Kind = "unknown"
)

// Step names the stage of an entry at which a failure happened.
type Step string

const (
	StepNaming         Step = "naming"
	StepInput          Step = "input"
	StepModel          Step = "create-model"
	StepEndpointConfig Step = "create-endpoint-config"
	StepEndpoint       Step = "create-endpoint"
)

// StepError records which entry and step failed, and the resource name that
// was being created. Resources created by earlier steps are left in place.
type StepError struct {
	Entry    string
	Step     Step
	Resource string
	Err      error
}

func (e *StepError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: %s: %v", e.Entry, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Entry, e.Step, e.Resource, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Kind classifies the underlying error.
func (e *StepError) Kind() Kind { return Classify(e.Err) }

// Classify maps err to a Kind using the API error code when one is present.
// Errors that never reached the service (transport failures, timeouts) are
// treated as transient.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	var se *StepError
	if errors.As(err, &se) && (se.Step == StepNaming || se.Step == StepInput) {
		return KindValidation
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return KindTransient
	}
	code := apiErr.ErrorCode()
	switch {
	case code == "ValidationException" || code == "ValidationError":
		return KindValidation
	case strings.HasPrefix(code, "AccessDenied") || code == "UnauthorizedOperation" ||
		code == "UnrecognizedClientException" || code == "InvalidClientTokenId" || code == "ExpiredTokenException":
		return KindAuthorization
	case code == "ResourceLimitExceeded":
		return KindQuota
	case code == "ResourceInUse":
		return KindConflict
	case strings.Contains(code, "Throttl") || code == "ServiceUnavailable" ||
		code == "InternalFailure" || code == "RequestTimeout":
		return KindTransient
	}
	if apiErr.ErrorFault() == smithy.FaultServer {
		return KindTransient
	}
	return KindUnknown
}

// IsQuota reports whether err stems from an exhausted account limit.
func IsQuota(err error) bool { return Classify(err) == KindQuota }

// IsAuthorization reports whether err stems from missing permissions.
func IsAuthorization(err error) bool { return Classify(err) == KindAuthorization }

// Hint suggests where to look for a failure, or "" when there is nothing
// more specific to say than the error itself.
func Hint(err error) string {
	switch {
	case IsAuthorization(err):
		return "check the caller's credentials and that it may pass the execution role"
	case IsQuota(err):
		return "request a service quota increase for the instance type or use a smaller one"
	}
	return ""
}
