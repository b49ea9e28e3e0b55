package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"loan-predictor/classifier"
	"loan-predictor/config"
	"loan-predictor/metrics"
	"loan-predictor/repository"
	"loan-predictor/service"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg     config.Config
	service *service.DecisionService
	metrics *metrics.Metrics
	closers []func() error
}

func loadClassifier(cfg config.ModelConfig) (classifier.Classifier, error) {
	if cfg.RemoteURL != "" {
		return classifier.NewRemote(cfg.RemoteURL, cfg.Timeout), nil
	}
	forest, err := classifier.LoadForest(cfg.Path)
	if err != nil {
		return nil, err
	}
	return forest, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (repository.CacheRepository, func() error, error) {
	switch cfg.Backend {
	case "redis":
		cache := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisDB)
		if err := cache.Ping(ctx); err != nil {
			_ = cache.Close()
			return nil, nil, err
		}
		return cache, cache.Close, nil
	case "memory":
		cache := repository.NewMemoryCache(repository.DefaultSweepInterval)
		return cache, func() error { cache.Stop(); return nil }, nil
	default:
		return repository.NoopCache{}, nil, nil
	}
}

// cacheConfigFor turns the prediction cache off for a remote model. Its
// version names the endpoint, not the model behind it, so cached entries would
// survive a redeploy of the model server.
func cacheConfigFor(cfg config.Config) config.CacheConfig {
	cc := cfg.Cache
	if cfg.Model.RemoteURL != "" && cc.Backend != "none" {
		log.WithFields(log.Fields{
			"backend":    cc.Backend,
			"remote_url": cfg.Model.RemoteURL,
		}).Warn("prediction cache disabled for remote model")
		cc.Backend = "none"
	}
	return cc
}

func rulesFrom(cfg config.RulesConfig) service.Rules {
	return service.Rules{
		MinCreditScore:      cfg.MinCreditScore,
		MaxLoanToAsset:      cfg.MaxLoanToAsset,
		MinIncomeToLoan:     cfg.MinIncomeToLoan,
		ReferenceAnnualRate: cfg.ReferenceAnnualRate,
	}
}

// newApp builds the decision service. A model that cannot be loaded aborts
// startup.
func newApp(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (*app, error) {
	model, err := loadClassifier(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	cacheCfg := cacheConfigFor(cfg)
	cache, closeCache, err := newCache(ctx, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	m := metrics.New(reg)
	a := &app{
		cfg:     cfg,
		metrics: m,
		service: service.NewDecisionService(model,
			service.WithCache(cache, cfg.Cache.TTL),
			service.WithRules(rulesFrom(cfg.Rules)),
			service.WithMetrics(m),
		),
	}
	if closeCache != nil {
		a.closers = append(a.closers, closeCache)
	}

	log.WithFields(log.Fields{
		"model_version": model.Version(),
		"cache":         cacheCfg.Backend,
	}).Info("decision service ready")
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.WithError(err).Warn("close resource")
		}
	}
}
