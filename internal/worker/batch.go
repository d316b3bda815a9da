// Package worker drives lookups in fixed-size, throttled batches.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/phone"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize = 3
	DefaultDelay     = 2 * time.Second
)

// errNotDispatched marks inputs the batch never sent because it was cancelled
var errNotDispatched = errors.New("lookup not dispatched")

// Resolver defines the interface for resolving one number
type Resolver interface {
	Lookup(ctx context.Context, raw string) (model.LookupRecord, error)
}

// LookupJob resolves one input
type LookupJob struct {
	Input    string
	Resolver Resolver
}

// Execute implements Job
func (j *LookupJob) Execute(ctx context.Context) Result {
	record, err := j.Resolver.Lookup(ctx, j.Input)
	return &LookupResult{Record: record, Error: err}
}

// LookupResult is the outcome of a LookupJob
type LookupResult struct {
	Record model.LookupRecord
	Error  error
}

// GetError implements Result
func (r *LookupResult) GetError() error {
	return r.Error
}

// Option configures a BatchProcessor
type Option func(*BatchProcessor)

// WithNotifier sets where the aggregate failure notice goes
func WithNotifier(n notify.Notifier) Option {
	return func(b *BatchProcessor) { b.notifier = n }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(b *BatchProcessor) { b.logger = l }
}

// WithProgress registers a callback invoked after every batch
func WithProgress(fn func(done, total int)) Option {
	return func(b *BatchProcessor) { b.progress = fn }
}

// BatchProcessor resolves many numbers in sequential batches. Lookups
// inside a batch run concurrently; batch N+1 starts only after batch N has
// settled and the delay has elapsed.
type BatchProcessor struct {
	resolver Resolver
	size     int
	delay    time.Duration
	notifier notify.Notifier
	logger   *zap.Logger
	progress func(done, total int)
	wait     func(ctx context.Context, d time.Duration) error
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(resolver Resolver, size int, delay time.Duration, opts ...Option) *BatchProcessor {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if delay < 0 {
		delay = 0
	}

	b := &BatchProcessor{
		resolver: resolver,
		size:     size,
		delay:    delay,
		notifier: notify.Nop{},
		logger:   zap.NewNop(),
		wait:     sleepContext,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Process resolves inputs in order. Records keep batch-then-position order;
// failed inputs are absent from Records and listed in Failures. Cancelling
// ctx stops further batches from being dispatched.
func (b *BatchProcessor) Process(ctx context.Context, inputs []string) model.Outcome {
	outcome := model.Outcome{
		Records:  make([]model.LookupRecord, 0, len(inputs)),
		Failures: make([]model.Failure, 0),
	}

	for start := 0; start < len(inputs); start += b.size {
		if start > 0 {
			if err := b.wait(ctx, b.delay); err != nil {
				b.logger.Info("batch cancelled",
					zap.Int("dispatched", start),
					zap.Int("total", len(inputs)),
					zap.Error(err))
				for i := start; i < len(inputs); i++ {
					outcome.Failures = append(outcome.Failures, model.Failure{
						Index: i,
						Input: inputs[i],
						Err:   notDispatched(err),
					})
				}
				break
			}
		}

		end := min(start+b.size, len(inputs))
		results := b.runBatch(ctx, inputs[start:end])

		for i, res := range results {
			if res.Error != nil {
				outcome.Failures = append(outcome.Failures, model.Failure{
					Index: start + i,
					Input: inputs[start+i],
					Err:   res.Error,
				})
				continue
			}
			outcome.Records = append(outcome.Records, res.Record)
		}

		b.logger.Debug("batch settled",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(inputs)))

		if b.progress != nil {
			b.progress(end, len(inputs))
		}
	}

	if n := outcome.FailureCount(); n > 0 {
		b.notifier.Notify(notify.Warning(fmt.Sprintf("failed to process %d number(s)", n)))
	}

	return outcome
}

// runBatch fans out one batch, one goroutine per input. The pool keeps
// submission order, so result i belongs to batch[i].
func (b *BatchProcessor) runBatch(ctx context.Context, batch []string) []LookupResult {
	pool := NewPool(ctx, len(batch))
	pool.Start()

	for _, input := range batch {
		if !pool.Submit(&LookupJob{Input: input, Resolver: b.resolver}) {
			break
		}
	}

	done := pool.Wait()
	results := make([]LookupResult, len(batch))
	for i := range batch {
		if i < len(done) && done[i] != nil {
			results[i] = *done[i].(*LookupResult)
			continue
		}
		results[i] = LookupResult{Error: notDispatched(ctx.Err())}
	}
	return results
}

func notDispatched(cause error) error {
	if cause == nil {
		return errNotDispatched
	}
	return fmt.Errorf("%w: %w", errNotDispatched, cause)
}

// ProcessFile reads numbers from a file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) (model.Outcome, error) {
	numbers, err := phone.ReadNumbersFromFile(filePath)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("read numbers: %w", err)
	}

	return b.Process(ctx, numbers), nil
}

// Batches returns how many batches Process makes for n inputs
func (b *BatchProcessor) Batches(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + b.size - 1) / b.size
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
