package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-predictor/apperr"
	"loan-predictor/domain"
	"loan-predictor/metrics"
	"loan-predictor/repository"
)

type MockClassifier struct {
	Label      domain.Label
	Calls      int
	ForceError bool
}

func (m *MockClassifier) Predict(ctx context.Context, features domain.Features) (domain.Prediction, error) {
	m.Calls++
	if m.ForceError {
		return domain.Prediction{}, errors.New("model offline")
	}
	return domain.Prediction{Label: m.Label, Confidence: 0.9, ModelVersion: m.Version()}, nil
}

func (m *MockClassifier) Version() string { return "mock-1" }

type failingCache struct{ repository.NoopCache }

func (failingCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("cache down")
}

func TestDecide_Approved(t *testing.T) {
	model := &MockClassifier{Label: domain.LabelApproved}
	svc := NewDecisionService(model)

	d, err := svc.Decide(context.Background(), domain.DefaultApplicant(), DecideOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, d.Status)
	assert.Equal(t, "Approved", d.Summary)
	assert.Empty(t, d.Reasons)
	require.NotNil(t, d.Prediction)
	assert.Equal(t, "mock-1", d.Prediction.ModelVersion)
	assert.Nil(t, d.Input)
	assert.Equal(t, 1, model.Calls)
}

func TestDecide_RejectedWithReasons(t *testing.T) {
	model := &MockClassifier{Label: domain.LabelRejected}
	svc := NewDecisionService(model)

	a := domain.DefaultApplicant()
	a.CibilScore = 410

	d, err := svc.Decide(context.Background(), a, DecideOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, d.Status)
	assert.Equal(t, "Rejected", d.Summary)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonLowCreditScore}, codes(d.Reasons))
}

func TestDecide_RejectedWithoutRuleFallsBackToModelRisk(t *testing.T) {
	svc := NewDecisionService(&MockClassifier{Label: domain.LabelRejected})

	d, err := svc.Decide(context.Background(), domain.DefaultApplicant(), DecideOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonModelRisk}, codes(d.Reasons))
}

func TestDecide_NoIncomeNoAssetsOverridesModel(t *testing.T) {
	model := &MockClassifier{Label: domain.LabelApproved}
	svc := NewDecisionService(model)

	a := domain.DefaultApplicant()
	a.IncomeAnnum = 0
	a.ResidentialAssetsValue, a.CommercialAssetsValue = 0, 0
	a.LuxuryAssetsValue, a.BankAssetValue = 0, 0

	d, err := svc.Decide(context.Background(), a, DecideOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, d.Status)
	assert.Equal(t, "Rejected (No Income and No Assets)", d.Summary)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonNoIncomeNoAssets}, codes(d.Reasons))
	assert.Nil(t, d.Prediction)
	assert.Zero(t, model.Calls, "model is not consulted")
}

func TestDecide_IncomeWithoutAssetsStillUsesModel(t *testing.T) {
	model := &MockClassifier{Label: domain.LabelApproved}
	svc := NewDecisionService(model)

	a := domain.DefaultApplicant()
	a.ResidentialAssetsValue, a.CommercialAssetsValue = 0, 0
	a.LuxuryAssetsValue, a.BankAssetValue = 0, 0

	d, err := svc.Decide(context.Background(), a, DecideOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, d.Status)
	assert.Equal(t, 1, model.Calls)
}

func TestDecide_IncludeInput(t *testing.T) {
	svc := NewDecisionService(&MockClassifier{})

	d, err := svc.Decide(context.Background(), domain.DefaultApplicant(), DecideOptions{IncludeInput: true})
	require.NoError(t, err)
	require.NotNil(t, d.Input)
	assert.Equal(t, 600.0, d.Input["cibil_score"])
	assert.Equal(t, 0.0, d.Input["education"])
}

func TestDecide_ValidationError(t *testing.T) {
	model := &MockClassifier{}
	svc := NewDecisionService(model)

	a := domain.DefaultApplicant()
	a.CibilScore = 950
	a.LoanTerm = 1
	a.Education = "PhD"
	a.IncomeAnnum = -1

	_, err := svc.Decide(context.Background(), a, DecideOptions{})
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "must be at most 900", appErr.Fields["cibil_score"])
	assert.Equal(t, "must be at least 2", appErr.Fields["loan_term"])
	assert.Contains(t, appErr.Fields, "education")
	assert.Contains(t, appErr.Fields, "income_annum")
	assert.Zero(t, model.Calls)
}

func TestDecide_ModelError(t *testing.T) {
	svc := NewDecisionService(&MockClassifier{ForceError: true})

	_, err := svc.Decide(context.Background(), domain.DefaultApplicant(), DecideOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrModelUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, apperr.Status(err))
}

func TestDecide_CachesPredictions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	model := &MockClassifier{Label: domain.LabelApproved}
	cache := repository.NewMemoryCache(time.Hour)
	defer cache.Stop()
	svc := NewDecisionService(model, WithCache(cache, time.Minute), WithMetrics(m))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := svc.Decide(ctx, domain.DefaultApplicant(), DecideOptions{})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, d.Status)
	}

	assert.Equal(t, 1, model.Calls)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Decisions.WithLabelValues("Approved")))

	a := domain.DefaultApplicant()
	a.Dependents = 3
	_, err := svc.Decide(ctx, a, DecideOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, model.Calls, "different applicant misses the cache")
}

func TestDecide_IgnoresCorruptCacheEntry(t *testing.T) {
	model := &MockClassifier{Label: domain.LabelRejected}
	cache := repository.NewMemoryCache(time.Hour)
	defer cache.Stop()
	svc := NewDecisionService(model, WithCache(cache, time.Minute))

	a := domain.DefaultApplicant()
	key := repository.PredictionKey(model.Version(), a.Features())
	require.NoError(t, cache.Set(context.Background(), key, "not-json", 0))

	d, err := svc.Decide(context.Background(), a, DecideOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, d.Status)
	assert.Equal(t, 1, model.Calls)
}

func TestDecide_CacheWriteFailureIsNotFatal(t *testing.T) {
	model := &MockClassifier{Label: domain.LabelApproved}
	svc := NewDecisionService(model, WithCache(failingCache{}, time.Minute))

	d, err := svc.Decide(context.Background(), domain.DefaultApplicant(), DecideOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, d.Status)
}

func TestDecide_CustomRules(t *testing.T) {
	rules := DefaultRules()
	rules.MinCreditScore = 700
	svc := NewDecisionService(&MockClassifier{Label: domain.LabelRejected}, WithRules(rules))

	d, err := svc.Decide(context.Background(), domain.DefaultApplicant(), DecideOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonLowCreditScore}, codes(d.Reasons))
	assert.Equal(t, 700, svc.Schema().Rules.MinCreditScore)
}

func TestSchema(t *testing.T) {
	s := NewDecisionService(&MockClassifier{}).Schema()
	require.Len(t, s.Fields, len(domain.FeatureNames))
	assert.Equal(t, domain.FeatureNames, s.Features)

	for i, f := range s.Fields {
		assert.Equal(t, domain.FeatureNames[i], f.Name)
	}

	cibil := s.Fields[6]
	require.NotNil(t, cibil.Min)
	require.NotNil(t, cibil.Max)
	assert.Equal(t, int64(300), *cibil.Min)
	assert.Equal(t, int64(900), *cibil.Max)
	assert.Equal(t, int64(600), cibil.Default)
	assert.Equal(t, []string{"Graduate", "Not Graduate"}, s.Fields[1].Options)
}

func TestDecide_HugeAmountsRejectedBeforeSumming(t *testing.T) {
	model := &MockClassifier{Label: domain.LabelApproved}
	svc := NewDecisionService(model)

	// four of these would wrap the int64 total to exactly zero
	a := domain.DefaultApplicant()
	a.IncomeAnnum = 0
	a.ResidentialAssetsValue = 1 << 62
	a.CommercialAssetsValue = 1 << 62
	a.LuxuryAssetsValue = 1 << 62
	a.BankAssetValue = 1 << 62

	_, err := svc.Decide(context.Background(), a, DecideOptions{})
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "must be at most 1000000000000000", appErr.Fields["residential_assets_value"])
	assert.Zero(t, model.Calls)
}

func TestDecide_MaxAmountsStayPositive(t *testing.T) {
	svc := NewDecisionService(&MockClassifier{Label: domain.LabelRejected})

	a := domain.DefaultApplicant()
	a.IncomeAnnum = domain.MaxAmount
	a.LoanAmount = domain.MaxAmount
	a.ResidentialAssetsValue = domain.MaxAmount
	a.CommercialAssetsValue = domain.MaxAmount
	a.LuxuryAssetsValue = domain.MaxAmount
	a.BankAssetValue = domain.MaxAmount

	d, err := svc.Decide(context.Background(), a, DecideOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4*domain.MaxAmount, d.Metrics.TotalAssets)
	require.NotNil(t, d.Metrics.LoanToAssetRatio)
	assert.InDelta(t, 0.25, *d.Metrics.LoanToAssetRatio, 1e-9)

	a.LoanAmount = domain.MaxAmount + 1
	_, err = svc.Decide(context.Background(), a, DecideOptions{})
	require.Error(t, err)
}

func TestSchema_AmountBoundsMatchValidation(t *testing.T) {
	s := NewDecisionService(&MockClassifier{}).Schema()
	for _, f := range s.Fields {
		if f.Step != 100_000 {
			continue
		}
		require.NotNil(t, f.Max, f.Name)
		assert.Equal(t, domain.MaxAmount, *f.Max, f.Name)
	}
}
