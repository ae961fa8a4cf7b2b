package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/lifepattern/pkg/errors"
)

// HTTPError is the transport view of a failure: status, public code and message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type errorMapping struct {
	status int
	code   string
}

// Domain codes not listed here surface as 500 with the caller's fallback code.
var domainErrors = map[string]errorMapping{
	apperrors.CodeInvalidInput:   {http.StatusBadRequest, "invalid_request"},
	apperrors.CodeCityNotFound:   {http.StatusBadRequest, apperrors.CodeCityNotFound},
	apperrors.CodeGeocodingError: {http.StatusBadGateway, apperrors.CodeGeocodingError},
	apperrors.CodeUpstreamError:  {http.StatusBadGateway, apperrors.CodeUpstreamError},
}

// fromDomainError translates an AppError code into a response.
func fromDomainError(err error, fallbackCode string) *HTTPError {
	m, ok := domainErrors[apperrors.Code(err)]
	if !ok {
		m = errorMapping{http.StatusInternalServerError, fallbackCode}
	}
	return NewHTTPError(m.status, m.code, apperrors.PublicMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
