package util

import "net/http"

// Envelope is the response body of every endpoint.
type Envelope struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Data       any      `json:"data"`
	Errors     []string `json:"errors"`
}

// NewEnvelope derives Success from the status so the two can never disagree.
func NewEnvelope(status int, message string, data any, errs []string) *Envelope {
	return &Envelope{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Message:    message,
		Data:       data,
		Errors:     errs,
	}
}

// OK builds a 200 envelope.
func OK(message string, data any) *Envelope {
	return NewEnvelope(http.StatusOK, message, data, nil)
}

// Fail builds an envelope without payload.
func Fail(status int, message string, errs []string) *Envelope {
	return NewEnvelope(status, message, nil, errs)
}

// FromError renders any error as an envelope, defaulting to 500.
func FromError(err error) *Envelope {
	domainErr := ToDomainError(err)
	if domainErr == nil {
		return OK("", nil)
	}
	return Fail(domainErr.HTTPStatus, domainErr.Message, domainErr.Details)
}
