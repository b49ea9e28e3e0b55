package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"loan-predictor/domain"
)

func TestPredictionKey(t *testing.T) {
	a := domain.DefaultApplicant()
	base := PredictionKey("v1", a.Features())

	assert.True(t, strings.HasPrefix(base, "loan:prediction:v1:"))
	assert.Equal(t, base, PredictionKey("v1", a.Features()), "stable for equal rows")
	assert.NotEqual(t, base, PredictionKey("v2", a.Features()), "scoped by model version")

	a.CibilScore++
	assert.NotEqual(t, base, PredictionKey("v1", a.Features()))
}
