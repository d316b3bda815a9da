// Package pipeline is the caller-facing surface of numinfo: submit numbers,
// summarize results, export them.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/numinfo/internal/export"
	"github.com/ppiankov/numinfo/internal/lookup"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/phone"
	"github.com/ppiankov/numinfo/internal/summary"
	"github.com/ppiankov/numinfo/internal/worker"
	"go.uber.org/zap"
)

// ErrInvalidNumber is returned by SubmitOne for input with too few digits
var ErrInvalidNumber = errors.New("not a phone number: need at least 10 digits")

// Service orchestrates lookups for one session
type Service struct {
	client     lookup.Client
	processor  *worker.BatchProcessor
	notifier   notify.Notifier
	logger     *zap.Logger
	largeInput int
}

// NewService wires a client into a batch processor configured from cfg
func NewService(cfg *model.Config, client lookup.Client, notifier notify.Notifier, logger *zap.Logger, opts ...worker.Option) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = append([]worker.Option{
		worker.WithNotifier(notifier),
		worker.WithLogger(logger.Named("batch")),
	}, opts...)

	return &Service{
		client:     client,
		processor:  worker.NewBatchProcessor(client, cfg.Batch.Size, cfg.Batch.Delay, opts...),
		notifier:   notifier,
		logger:     logger,
		largeInput: cfg.Batch.LargeInputThreshold,
	}
}

// Submit resolves inputs. A single input is looked up directly; more go
// through the batch processor. Failures are reported through the notifier
// and listed in the outcome, never returned as an error.
func (s *Service) Submit(ctx context.Context, inputs []string) model.Outcome {
	switch len(inputs) {
	case 0:
		return model.Outcome{Records: []model.LookupRecord{}, Failures: []model.Failure{}}
	case 1:
		record, err := s.client.Lookup(ctx, inputs[0])
		if err != nil {
			return model.Outcome{
				Records:  []model.LookupRecord{},
				Failures: []model.Failure{{Index: 0, Input: inputs[0], Err: err}},
			}
		}
		return model.Outcome{Records: []model.LookupRecord{record}, Failures: []model.Failure{}}
	default:
		s.logger.Info("bulk submission",
			zap.Int("numbers", len(inputs)),
			zap.Int("batches", s.processor.Batches(len(inputs))))
		return s.processor.Process(ctx, inputs)
	}
}

// SubmitOne resolves a single typed number. Unlike bulk submission it
// refuses input that fails the digit-count check before any lookup.
func (s *Service) SubmitOne(ctx context.Context, raw string) (model.LookupRecord, error) {
	if !phone.IsValid(raw) {
		return model.LookupRecord{}, ErrInvalidNumber
	}
	return s.client.Lookup(ctx, raw)
}

// SubmitText parses free-form text (one number per line) and submits it
func (s *Service) SubmitText(ctx context.Context, text string) (model.Outcome, error) {
	numbers := phone.ParseNumbers(text)
	return s.submitParsed(ctx, numbers)
}

// SubmitFile checks the upload contract, parses the file and submits it
func (s *Service) SubmitFile(ctx context.Context, name string, content []byte) (model.Outcome, error) {
	head := content
	if len(head) > 512 {
		head = head[:512]
	}
	if err := phone.CheckFile(name, int64(len(content)), head); err != nil {
		return model.Outcome{}, err
	}
	return s.SubmitText(ctx, string(content))
}

func (s *Service) submitParsed(ctx context.Context, numbers []string) (model.Outcome, error) {
	if len(numbers) == 0 {
		return model.Outcome{}, phone.ErrNoNumbers
	}
	if s.largeInput > 0 && len(numbers) > s.largeInput {
		s.notifier.Notify(notify.Warning(fmt.Sprintf("found %d numbers, processing may take a while", len(numbers))))
	}
	return s.Submit(ctx, numbers), nil
}

// Summarize returns the operator summary of records
func (s *Service) Summarize(records []model.LookupRecord) []model.OperatorSummary {
	return summary.Summarize(records)
}

// Export renders records or their summary. scope is "all" or "summary".
func (s *Service) Export(records []model.LookupRecord, scope string, format export.Format) (filename, payload string, err error) {
	rows, subject, err := Rows(records, scope)
	if err != nil {
		return "", "", err
	}
	payload, err = export.Export(rows, format)
	if err != nil {
		return "", "", err
	}
	return export.Filename(subject, format), payload, nil
}

// Rows selects the rows and subject for an export scope. An empty record
// set yields export.ErrNoData.
func Rows(records []model.LookupRecord, scope string) ([]export.Row, string, error) {
	if scope != "" && scope != "all" && scope != "summary" {
		return nil, "", fmt.Errorf("unknown export scope: %s (supported: all, summary)", scope)
	}
	if len(records) == 0 {
		return nil, "", export.ErrNoData
	}
	if scope == "summary" {
		return export.Summary(summary.Summarize(records)), export.SubjectSummary, nil
	}
	return export.Records(records), export.SubjectRecords, nil
}
