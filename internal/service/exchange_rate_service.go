package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/resalehq/pricing-engine/internal/config"
	"github.com/resalehq/pricing-engine/internal/model"
)

// RateStore is the reference store of recorded currency-pair rates.
type RateStore interface {
	Latest(ctx context.Context, from, to string) (*model.StoredRate, error)
}

// ExchangeRateService resolves pair rates with a safety margin applied,
// caching per pair with a freshness window. Concurrent refreshes of the same
// pair are collapsed through singleflight; distinct pairs never contend on
// the store.
type ExchangeRateService struct {
	store RateStore
	cfg   config.RateConfig

	mu    sync.RWMutex
	cache map[string]cachedRate
	group singleflight.Group

	now func() time.Time
}

type cachedRate struct {
	rate      model.ExchangeRate
	fetchedAt time.Time
}

func NewExchangeRateService(store RateStore, cfg config.RateConfig) *ExchangeRateService {
	return &ExchangeRateService{
		store: store,
		cfg:   cfg,
		cache: make(map[string]cachedRate),
		now:   time.Now,
	}
}

// GetRate returns the effective rate for the pair. A cache entry younger
// than the TTL is returned as-is; otherwise the store is consulted. When the
// store has no row or is unreachable the configured fallback rate is
// returned with IsFallback set — never an error. overrideMargin replaces the
// stored safety margin for this call only and does not touch the cache.
func (s *ExchangeRateService) GetRate(ctx context.Context, from, to string, overrideMargin *decimal.Decimal) model.ExchangeRate {
	key := from + "/" + to

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()

	if !ok || s.now().Sub(entry.fetchedAt) >= s.cfg.CacheTTL {
		entry = s.refresh(ctx, key, from, to)
	}

	rate := entry.rate
	if overrideMargin != nil {
		rate = buildRate(rate.FromCurrency, rate.ToCurrency, rate.BaseRate,
			*overrideMargin, rate.RecordedAt, rate.IsFallback)
	}
	return rate
}

func (s *ExchangeRateService) refresh(ctx context.Context, key, from, to string) cachedRate {
	v, _, _ := s.group.Do(key, func() (any, error) {
		stored, err := s.store.Latest(ctx, from, to)
		if err != nil {
			log.Warn().Err(err).
				Str("pair", key).
				Str("fallback_base", s.cfg.FallbackBaseRate.String()).
				Msg("exchange rate lookup failed, using fallback")
			fb := buildRate(from, to, s.cfg.FallbackBaseRate, s.cfg.FallbackMarginPercent, s.now(), true)
			// Fallbacks are not cached so the store is retried on the next call.
			return cachedRate{rate: fb, fetchedAt: s.now()}, nil
		}

		entry := cachedRate{
			rate:      buildRate(stored.FromCurrency, stored.ToCurrency, stored.BaseRate, stored.SafetyMarginPercent, stored.RecordedAt, false),
			fetchedAt: s.now(),
		}
		s.mu.Lock()
		s.cache[key] = entry
		s.mu.Unlock()
		return entry, nil
	})
	return v.(cachedRate)
}

var oneHundred = decimal.NewFromInt(100)

func buildRate(from, to string, base, marginPercent decimal.Decimal, recordedAt time.Time, fallback bool) model.ExchangeRate {
	effective := base.Mul(decimal.NewFromInt(1).Add(marginPercent.Div(oneHundred)))
	return model.ExchangeRate{
		FromCurrency:        from,
		ToCurrency:          to,
		BaseRate:            base,
		SafetyMarginPercent: marginPercent,
		EffectiveRate:       effective,
		RecordedAt:          recordedAt,
		IsFallback:          fallback,
	}
}
