package market

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

const (
	defaultCallTimeout = 10 * time.Second
	defaultRetries     = 3
	defaultBackoffBase = 500 * time.Millisecond
)

var (
	errUnusable         = errors.New("market: unusable result")
	errEmptyObservation = errors.New("market: observation has no fields")
)

// Orchestrator drives provider chains. Fallback mode walks providers in order
// with retries; consensus mode queries all providers once.
type Orchestrator struct {
	timeout     time.Duration
	retries     int
	backoffBase time.Duration
}

// OrchestratorOption customises an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCallTimeout bounds every individual provider call.
func WithCallTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetries sets the number of attempts per provider in fallback mode.
func WithRetries(retries int) OrchestratorOption {
	return func(o *Orchestrator) {
		if retries > 0 {
			o.retries = retries
		}
	}
}

// WithBackoffBase sets the base delay; attempt n waits base*2^n.
func WithBackoffBase(base time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if base >= 0 {
			o.backoffBase = base
		}
	}
}

// NewOrchestrator constructs an orchestrator with defaults for unset options.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		timeout:     defaultCallTimeout,
		retries:     defaultRetries,
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Retries returns the per-provider attempt budget.
func (o *Orchestrator) Retries() int {
	return o.retries
}

// Timeout returns the bound on a single provider call.
func (o *Orchestrator) Timeout() time.Duration {
	return o.timeout
}

// BackoffBase returns the delay before the second attempt.
func (o *Orchestrator) BackoffBase() time.Duration {
	return o.backoffBase
}

// Budget is the longest a fallback walk over n providers can take: every
// attempt runs to its timeout and every backoff wait is taken.
func (o *Orchestrator) Budget(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	perProvider := time.Duration(o.retries) * o.timeout
	if o.retries > 1 {
		perProvider += o.backoffBase * time.Duration((1<<uint(o.retries-1))-1)
	}
	return time.Duration(n) * perProvider
}

func (o *Orchestrator) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.backoffBase
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = o.backoffBase << uint(o.retries)
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(o.retries-1)), ctx)
}

// Fallback tries providers in order and returns the first usable result. Each
// provider gets the orchestrator's retry budget. When every provider is
// exhausted the error is a *NoDataError; a cancelled ctx is returned as is.
func Fallback[T any](ctx context.Context, o *Orchestrator, op, symbol string, providers []Provider,
	call func(context.Context, Provider) (T, error), usable func(T) bool) (T, Report, error) {
	var zero T
	report := make(Report, 0, len(providers))
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return zero, report, err
		}
		value, outcome := attempt(ctx, o, op, p, call, usable)
		report = append(report, outcome)
		if outcome.Status == OutcomeSuccess {
			return value, report, nil
		}
		if err := ctx.Err(); err != nil {
			return zero, report, err
		}
	}
	logx.WithContext(ctx).Errorf("market: %s exhausted all providers symbol=%s report=[%s]", op, symbol, report)
	return zero, report, &NoDataError{Op: op, Symbol: symbol, Report: report}
}

func attempt[T any](ctx context.Context, o *Orchestrator, op string, p Provider,
	call func(context.Context, Provider) (T, error), usable func(T) bool) (T, Outcome) {
	var result T
	outcome := Outcome{Provider: p.Name()}
	operation := func() error {
		outcome.Attempts++
		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()
		started := time.Now()
		value, err := call(callCtx, p)
		observeCall(p.Name(), op, started)
		switch {
		case errors.Is(err, ErrNotApplicable):
			return backoff.Permanent(err)
		case err != nil:
			return err
		case usable != nil && !usable(value):
			return errUnusable
		}
		result = value
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logx.WithContext(ctx).Infof("market: %s attempt %d/%d failed provider=%s err=%v retry_in=%s",
			op, outcome.Attempts, o.retries, p.Name(), err, wait)
	}

	err := backoff.RetryNotify(operation, o.policy(ctx), notify)
	switch {
	case err == nil:
		outcome.Status = OutcomeSuccess
		logx.WithContext(ctx).Infof("market: %s served provider=%s attempts=%d", op, p.Name(), outcome.Attempts)
	case errors.Is(err, ErrNotApplicable):
		outcome.Status = OutcomeSkipped
		outcome.Err = err
		logx.WithContext(ctx).Infof("market: %s skipped provider=%s err=%v", op, p.Name(), err)
	default:
		outcome.Status = OutcomeFailed
		outcome.Err = err
		logx.WithContext(ctx).Errorf("market: %s failed provider=%s attempts=%d err=%v", op, p.Name(), outcome.Attempts, err)
	}
	recordOutcome(op, outcome)
	if outcome.Status != OutcomeSuccess {
		var zero T
		return zero, outcome
	}
	return result, outcome
}

type indexedObservation struct {
	index int
	obs   Observation
}

// Consensus queries every provider concurrently, once each, and returns the
// observations that completed in time together with the per-provider report.
// Failures are absorbed into the report; the result may be empty.
func (o *Orchestrator) Consensus(ctx context.Context, providers []Provider, symbol string) ([]Observation, Report) {
	report := make(Report, len(providers))
	for i, p := range providers {
		report[i] = Outcome{Provider: p.Name(), Status: OutcomeFailed, Err: context.Canceled}
	}
	if len(providers) == 0 {
		return nil, report
	}

	var mu sync.Mutex
	collected, err := mr.MapReduce(func(source chan<- int) {
		for i := range providers {
			source <- i
		}
	}, func(i int, writer mr.Writer[indexedObservation], cancel func(error)) {
		obs, outcome := o.quote(ctx, providers[i], symbol)
		mu.Lock()
		report[i] = outcome
		mu.Unlock()
		if obs != nil {
			writer.Write(indexedObservation{index: i, obs: *obs})
		}
	}, func(pipe <-chan indexedObservation, writer mr.Writer[[]indexedObservation], cancel func(error)) {
		var all []indexedObservation
		for item := range pipe {
			all = append(all, item)
		}
		writer.Write(all)
	}, mr.WithContext(ctx), mr.WithWorkers(len(providers)))
	if err != nil {
		logx.WithContext(ctx).Errorf("market: consensus aborted symbol=%s err=%v", symbol, err)
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})
	observations := make([]Observation, 0, len(collected))
	for _, item := range collected {
		observations = append(observations, item.obs)
	}

	mu.Lock()
	defer mu.Unlock()
	out := make(Report, len(report))
	copy(out, report)
	return observations, out
}

func (o *Orchestrator) quote(ctx context.Context, p Provider, symbol string) (*Observation, Outcome) {
	const op = "quote"
	outcome := Outcome{Provider: p.Name(), Attempts: 1}
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	started := time.Now()
	obs, err := p.Quote(callCtx, symbol)
	observeCall(p.Name(), op, started)
	switch {
	case errors.Is(err, ErrNotApplicable):
		outcome.Status = OutcomeSkipped
		outcome.Err = err
		logx.WithContext(ctx).Infof("market: quote skipped provider=%s symbol=%s err=%v", p.Name(), symbol, err)
	case err != nil:
		outcome.Status = OutcomeFailed
		outcome.Err = err
		logx.WithContext(ctx).Errorf("market: quote failed provider=%s symbol=%s err=%v", p.Name(), symbol, err)
	case obs == nil || (obs.Price == nil && obs.MarketCap == nil && obs.Volume24h == nil && obs.Change24h == nil):
		outcome.Status = OutcomeFailed
		outcome.Err = errEmptyObservation
		obs = nil
		logx.WithContext(ctx).Errorf("market: quote empty provider=%s symbol=%s", p.Name(), symbol)
	default:
		outcome.Status = OutcomeSuccess
		if obs.Provider == "" {
			obs.Provider = p.Name()
		}
		if obs.FetchedAt.IsZero() {
			obs.FetchedAt = time.Now().UTC()
		}
	}
	recordOutcome(op, outcome)
	if outcome.Status != OutcomeSuccess {
		return nil, outcome
	}
	return obs, outcome
}
