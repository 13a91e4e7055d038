package sheets

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/metrics"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// RetryPolicy bounds how rate-limited calls are retried. The delay starts at
// InitialInterval and doubles up to MaxInterval.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 700 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// Retrying retries calls that fail with ErrRateLimited. Other failures are
// returned at once. A call still rate limited after MaxAttempts fails as
// ErrUnavailable with Attempts set.
type Retrying struct {
	next   Store
	policy RetryPolicy
	log    *logger.Logger
}

func NewRetrying(next Store, policy RetryPolicy, log *logger.Logger) *Retrying {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Retrying{next: next, policy: policy, log: log}
}

func (r *Retrying) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	return b
}

func retry[T any](ctx context.Context, r *Retrying, op, worksheet string, call func() (T, error)) (T, error) {
	attempts := 0
	res, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		v, err := call()
		switch {
		case err == nil:
			metrics.StoreCalls.WithLabelValues(op, metrics.OutcomeOK).Inc()
			return v, nil
		case errors.Is(err, ErrRateLimited):
			metrics.StoreCalls.WithLabelValues(op, metrics.OutcomeRateLimited).Inc()
			return v, err
		default:
			metrics.StoreCalls.WithLabelValues(op, metrics.OutcomeError).Inc()
			return v, backoff.Permanent(err)
		}
	},
		backoff.WithBackOff(r.backOff()),
		backoff.WithMaxTries(uint(r.policy.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			metrics.StoreRetries.WithLabelValues(op).Inc()
			r.log.Warn("store rate limited, retrying",
				"op", op,
				"worksheet", worksheet,
				"attempt", attempts,
				"wait", wait,
			)
		}),
	)
	// the final attempt's error comes back still marked permanent
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	if err != nil && errors.Is(err, ErrRateLimited) {
		cause := err
		var se *Error
		if errors.As(err, &se) && se.Err != nil {
			cause = se.Err
		}
		r.log.Error("store rate limit outlasted retries", "op", op, "worksheet", worksheet, "attempts", attempts)
		return res, &Error{Op: op, Worksheet: worksheet, Attempts: attempts, Err: cause}
	}
	return res, err
}

func (r *Retrying) Handle() string {
	return r.next.Handle()
}

func (r *Retrying) ListWorksheets(ctx context.Context) ([]string, error) {
	return retry(ctx, r, OpListWorksheets, "", func() ([]string, error) {
		return r.next.ListWorksheets(ctx)
	})
}

func (r *Retrying) ReadTable(ctx context.Context, worksheet string) (*types.Table, error) {
	return retry(ctx, r, OpReadTable, worksheet, func() (*types.Table, error) {
		return r.next.ReadTable(ctx, worksheet)
	})
}

func (r *Retrying) WriteHeaderCell(ctx context.Context, worksheet string, col int, header string) error {
	_, err := retry(ctx, r, OpWriteHeader, worksheet, func() (struct{}, error) {
		return struct{}{}, r.next.WriteHeaderCell(ctx, worksheet, col, header)
	})
	return err
}

func (r *Retrying) WriteCell(ctx context.Context, worksheet string, cell types.Cell) error {
	_, err := retry(ctx, r, OpWriteCell, worksheet, func() (struct{}, error) {
		return struct{}{}, r.next.WriteCell(ctx, worksheet, cell)
	})
	return err
}

func (r *Retrying) WriteCells(ctx context.Context, worksheet string, cells []types.Cell) error {
	_, err := retry(ctx, r, OpWriteCells, worksheet, func() (struct{}, error) {
		return struct{}{}, r.next.WriteCells(ctx, worksheet, cells)
	})
	return err
}

func (r *Retrying) ReplaceWorksheet(ctx context.Context, worksheet string, table *types.Table) error {
	_, err := retry(ctx, r, OpReplaceWorksheet, worksheet, func() (struct{}, error) {
		return struct{}{}, r.next.ReplaceWorksheet(ctx, worksheet, table)
	})
	return err
}
