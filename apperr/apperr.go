package apperr

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is a typed application error that knows its HTTP status.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Status  int               `json:"-"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

var (
	ErrBadRequest       = New("bad_request", http.StatusBadRequest, "invalid request body")
	ErrValidation       = New("validation_failed", http.StatusUnprocessableEntity, "applicant fields out of range")
	ErrUnsupportedMedia = New("unsupported_media_type", http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	ErrModelUnavailable = New("model_unavailable", http.StatusServiceUnavailable, "loan model unavailable")
	ErrRateLimited      = New("rate_limited", http.StatusTooManyRequests, "rate limit exceeded")
	ErrInternal         = New("internal", http.StatusInternalServerError, "internal server error")
)

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return "error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code so wrapped copies compare equal to their base.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func Wrap(err error, base *Error, message string) *Error {
	if err == nil {
		return nil
	}
	if base == nil {
		base = ErrInternal
	}
	copy := *base
	if message != "" {
		copy.Message = message
	}
	copy.Err = err
	return &copy
}

func WithFields(base *Error, fields map[string]string) *Error {
	if base == nil {
		return nil
	}
	copy := *base
	copy.Fields = fields
	return &copy
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func Status(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// FromValidation turns validator failures into an ErrValidation carrying one
// message per offending field. Other errors are wrapped as ErrBadRequest.
func FromValidation(err error) *Error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(err, ErrBadRequest, err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	out := WithFields(ErrValidation, fields)
	out.Err = err
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), "'", "\"")
	case "required":
		return "is required"
	}
	if fe.Kind() == reflect.String {
		return "is invalid"
	}
	return "failed " + fe.Tag()
}
