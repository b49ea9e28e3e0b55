package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"loan-predictor/apperr"
	"loan-predictor/classifier"
	"loan-predictor/domain"
	"loan-predictor/metrics"
	"loan-predictor/repository"
)

type DecisionService struct {
	classifier classifier.Classifier
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	rules      Rules
	metrics    *metrics.Metrics
}

type Option func(*DecisionService)

func WithCache(cache repository.CacheRepository, ttl time.Duration) Option {
	return func(s *DecisionService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithRules(rules Rules) Option {
	return func(s *DecisionService) { s.rules = rules }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DecisionService) { s.metrics = m }
}

// NewDecisionService wires a classifier with the explanation rules. Without
// options it uses the default rules and no cache.
func NewDecisionService(c classifier.Classifier, opts ...Option) *DecisionService {
	s := &DecisionService{
		classifier: c,
		cache:      repository.NoopCache{},
		cacheTTL:   DefaultCacheTTL,
		rules:      DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}
	return s
}

type DecideOptions struct {
	// IncludeInput echoes the encoded feature row in the decision.
	IncludeInput bool
}

func (s *DecisionService) ModelVersion() string {
	return s.classifier.Version()
}

// Decide validates the applicant, obtains the model's verdict and explains a
// rejection.
func (s *DecisionService) Decide(
	ctx context.Context,
	applicant domain.Applicant,
	opts DecideOptions,
) (domain.Decision, error) {

	if err := Validator().Struct(applicant); err != nil {
		return domain.Decision{}, apperr.FromValidation(err)
	}

	features := applicant.Features()
	decision := domain.Decision{
		Metrics: s.rules.ComputeMetrics(applicant),
	}
	if opts.IncludeInput {
		decision.Input = features.Row()
	}

	entry := log.WithFields(log.Fields{
		"income":       applicant.IncomeAnnum,
		"total_assets": decision.Metrics.TotalAssets,
	})
	entry.Debug("evaluating applicant")

	if noIncomeNoAssets(applicant) {
		entry.Debug("no income and no assets, skipping model")
		decision.Status = domain.StatusRejected
		decision.Summary = summaryNoIncomeNoAssets
		decision.Reasons = []domain.Reason{{
			Code:    domain.ReasonNoIncomeNoAssets,
			Message: "applicant reports no income and no assets",
		}}
		s.record(decision)
		return decision, nil
	}

	prediction, err := s.predict(ctx, features)
	if err != nil {
		return domain.Decision{}, apperr.Wrap(err, apperr.ErrModelUnavailable, "")
	}
	decision.Prediction = &prediction

	entry.WithFields(log.Fields{
		"label":      prediction.Label,
		"confidence": prediction.Confidence,
	}).Debug("model prediction")

	if prediction.Label == domain.LabelApproved {
		decision.Status = domain.StatusApproved
		decision.Summary = summaryApproved
	} else {
		decision.Status = domain.StatusRejected
		decision.Summary = summaryRejected
		decision.Reasons = s.rules.Explain(applicant, decision.Metrics)
		if len(decision.Reasons) == 0 {
			decision.Reasons = []domain.Reason{{
				Code:    domain.ReasonModelRisk,
				Message: "the model assessed the overall risk profile as too high",
			}}
		}
	}

	s.record(decision)
	return decision, nil
}

func (s *DecisionService) predict(ctx context.Context, features domain.Features) (domain.Prediction, error) {
	key := repository.PredictionKey(s.classifier.Version(), features)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.Prediction
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			s.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		log.WithField("key", key).Warn("discarding undecodable cached prediction")
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	prediction, err := s.classifier.Predict(ctx, features)
	s.metrics.ModelLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ModelErrors.Inc()
		return domain.Prediction{}, err
	}

	// a failed cache write only costs a future model call
	if raw, err := json.Marshal(prediction); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"error": err,
			}).Warn("failed to cache prediction")
		}
	}
	return prediction, nil
}

func (s *DecisionService) record(d domain.Decision) {
	s.metrics.Decisions.WithLabelValues(string(d.Status)).Inc()
	for _, r := range d.Reasons {
		s.metrics.Reasons.WithLabelValues(string(r.Code)).Inc()
	}
}
