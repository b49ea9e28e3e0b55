package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateInstallment_WithInterest(t *testing.T) {
	got := EstimateInstallment(10_000_000, 9.5, 10)
	assert.InDelta(t, 129397.56, got, 0.01)
}

func TestEstimateInstallment_ZeroInterest(t *testing.T) {
	assert.Equal(t, 100.0, EstimateInstallment(1200, 0, 1))
}

func TestEstimateInstallment_NoLoan(t *testing.T) {
	assert.Equal(t, 0.0, EstimateInstallment(0, 9.5, 10))
	assert.Equal(t, 0.0, EstimateInstallment(1000, 9.5, 0))
}
