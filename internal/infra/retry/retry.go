package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
)

// Policy задаёт параметры повторов внешних вызовов.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	JitterMax   time.Duration
}

// DefaultPolicy — политика по умолчанию: 3 попытки, 0.8s база, до 0.4s джиттера.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 800 * time.Millisecond, JitterMax: 400 * time.Millisecond}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.JitterMax < 0 {
		p.JitterMax = def.JitterMax
	}
	return p
}

// expBackoff выдаёт паузы base*2^(n-1) + uniform(0, jitter).
type expBackoff struct {
	base    time.Duration
	jitter  time.Duration
	attempt int
}

func (b *expBackoff) NextBackOff() time.Duration {
	delay := b.base << b.attempt
	b.attempt++
	if b.jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(b.jitter)))
	}
	return delay
}

func (b *expBackoff) Reset() {
	b.attempt = 0
}

// Do выполняет операцию с повторами и экспоненциальной паузой.
// Отсутствие ключа провайдера — детерминированный отказ, попытки не тратятся.
// После исчерпания попыток наружу отдаётся последняя ошибка.
func Do[T any](ctx context.Context, logger zerolog.Logger, op string, p Policy, fn func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	operation := func() (T, error) {
		v, err := fn(ctx)
		if err != nil && errors.Is(err, domain.ErrMissingCredential) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	attempt := 0
	notify := func(err error, delay time.Duration) {
		attempt++
		logger.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Int("max_attempts", p.MaxAttempts).
			Dur("delay", delay).
			Err(err).
			Msg("операция не удалась, повтор")
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&expBackoff{base: p.BaseDelay, jitter: p.JitterMax}, uint64(p.MaxAttempts-1)),
		ctx,
	)
	return backoff.RetryNotifyWithData(operation, b, notify)
}
