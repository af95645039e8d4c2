package picoplaca

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// ErrRecorderUnavailable is returned by Recent when no recorder is configured.
var ErrRecorderUnavailable = errors.New("picoplaca: check log not configured")

// Result is the outcome of one check as returned to callers.
type Result struct {
	ID        string    `json:"id"`
	Plate     Plate     `json:"plate"`
	Date      string    `json:"date"`
	Weekday   Weekday   `json:"weekday"`
	Time      ClockTime `json:"time"`
	Verdict   Verdict   `json:"verdict"`
	Message   string    `json:"message"`
	CheckedAt time.Time `json:"checked_at"`
}

// BatchItem pairs a batch query with its result or rejection.
type BatchItem struct {
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Recorder persists completed checks for later inspection.
type Recorder interface {
	Record(ctx context.Context, result Result) error
	Recent(ctx context.Context, limit int) ([]Result, error)
}

// VerdictObserver is notified of every verdict produced.
type VerdictObserver interface {
	ObserveVerdict(v Verdict)
}

// ServiceConfig groups optional collaborators of the Service.
type ServiceConfig struct {
	Recorder         Recorder
	Observer         VerdictObserver
	Logger           *slog.Logger
	BatchConcurrency int
	Now              func() time.Time
}

// Service resolves raw queries, evaluates them and reports the outcome.
type Service struct {
	recorder    Recorder
	observer    VerdictObserver
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	svc := &Service{
		recorder:    cfg.Recorder,
		observer:    cfg.Observer,
		logger:      cfg.Logger,
		concurrency: cfg.BatchConcurrency,
		now:         cfg.Now,
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.concurrency <= 0 {
		svc.concurrency = 8
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Check validates q, evaluates the restriction and records the result.
func (s *Service) Check(ctx context.Context, q Query, lang language.Tag) (Result, error) {
	input, err := q.Resolve()
	if err != nil {
		return Result{}, err
	}
	verdict, err := Evaluate(input.Weekday, input.Plate.LastDigit(), input.Time)
	if err != nil {
		return Result{}, err
	}
	result := Result{
		ID:        uuid.NewString(),
		Plate:     input.Plate,
		Date:      FormatDate(input.Date),
		Weekday:   input.Weekday,
		Time:      input.Time,
		Verdict:   verdict,
		Message:   Message(lang, verdict),
		CheckedAt: s.now().UTC(),
	}
	if s.observer != nil {
		s.observer.ObserveVerdict(verdict)
	}
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, result); err != nil {
			s.logger.Warn("record check", slog.String("id", result.ID), slog.Any("error", err))
		}
	}
	return result, nil
}

// CheckBatch runs Check for every query concurrently, keeping input order.
// Rejected queries are reported per item; only cancellation fails the batch.
func (s *Service) CheckBatch(ctx context.Context, queries []Query, lang language.Tag) ([]BatchItem, error) {
	items := make([]BatchItem, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, q := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i].Index = i
			result, err := s.Check(ctx, q, lang)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = &result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Recent lists the latest recorded checks, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Result, error) {
	if s.recorder == nil {
		return nil, ErrRecorderUnavailable
	}
	return s.recorder.Recent(ctx, limit)
}
