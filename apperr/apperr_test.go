package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsStatusAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, ErrModelUnavailable, "")

	assert.Equal(t, http.StatusServiceUnavailable, Status(err))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, "loan model unavailable", err.Error())

	assert.Nil(t, Wrap(nil, ErrInternal, "x"))
}

func TestStatusDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
	assert.Equal(t, http.StatusTooManyRequests, Status(fmt.Errorf("outer: %w", ErrRateLimited)))
}

func TestFromValidation(t *testing.T) {
	type sample struct {
		Score int    `json:"score" validate:"min=300,max=900"`
		Kind  string `json:"kind" validate:"oneof='A b' C"`
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string { return fld.Tag.Get("json") })

	err := v.Struct(sample{Score: 100, Kind: "Z"})
	require.Error(t, err)

	out := FromValidation(err)
	require.NotNil(t, out)
	assert.Equal(t, http.StatusUnprocessableEntity, out.Status)
	assert.Equal(t, "must be at least 300", out.Fields["score"])
	assert.Equal(t, `must be one of "A b" C`, out.Fields["kind"])

	plain := FromValidation(errors.New("not a validator error"))
	assert.Equal(t, http.StatusBadRequest, plain.Status)
}
