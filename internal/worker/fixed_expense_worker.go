package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/amqp"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

// Materializer is the part of the recurring generator the worker drives.
type Materializer interface {
	ProcessDay(ctx context.Context, now time.Time) (int, error)
	MaterializeByID(ctx context.Context, owner, templateID string, ref time.Time) error
}

// FixedExpenseWorker runs the daily fixed-expense pass on a cron schedule
// and handles fixed_expense.created messages from the broker.
type FixedExpenseWorker struct {
	generator Materializer
	logger    *applog.Logger
	events    *applog.StructuredLogger
	now       func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewFixedExpenseWorker(generator Materializer, logger *applog.Logger) *FixedExpenseWorker {
	logger = logger.WithComponent(applog.ComponentWorker)
	return &FixedExpenseWorker{
		generator: generator,
		logger:    logger,
		events:    applog.NewStructuredLogger(logger),
		now:       time.Now,
	}
}

// RunOnce performs the pass for the current day.
func (w *FixedExpenseWorker) RunOnce(ctx context.Context) (int, error) {
	now := w.now()
	count, err := w.generator.ProcessDay(ctx, now)
	if err != nil {
		w.events.LogError(ctx, "Fixed expense pass failed", err,
			applog.ComponentWorker, applog.OpMaterialize,
			applog.LogFields{"processing_date": core.FormatDate(now)})
		return count, err
	}
	w.logger.InfoContext(ctx, "Fixed expense pass complete",
		"transactions_created", count,
		"processing_date", core.FormatDate(now))
	return count, nil
}

// Start schedules RunOnce on spec. Runs that would overlap a pass still in
// progress are skipped.
func (w *FixedExpenseWorker) Start(ctx context.Context, spec string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return fmt.Errorf("worker already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		_, _ = w.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	c.Start()
	w.cron = c
	w.logger.Info("Fixed expense schedule started", "cron_spec", spec)
	return nil
}

// Stop halts the schedule and waits for a pass in progress, or for ctx.
func (w *FixedExpenseWorker) Stop(ctx context.Context) {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()
	if c == nil {
		return
	}

	stopped := c.Stop()
	select {
	case <-stopped.Done():
		w.logger.Info("Fixed expense schedule stopped")
	case <-ctx.Done():
		w.logger.Warn("Timed out waiting for the fixed expense pass")
	}
}

// HandleFixedExpenseCreated materializes the occurrence a freshly created
// template asked for. A malformed reference cannot succeed on redelivery, so
// it is logged and acknowledged.
func (w *FixedExpenseWorker) HandleFixedExpenseCreated(ctx context.Context, msg *amqp.FixedExpenseCreatedMessage) error {
	w.logger.InfoContext(ctx, "Processing fixed expense message",
		"template_id", msg.TemplateID,
		"owner", msg.Owner,
		"reference", msg.Reference)

	ref, err := core.ParseDate(msg.Reference)
	if err != nil {
		w.logger.WarnContext(ctx, "Dropping fixed expense message with bad reference",
			"template_id", msg.TemplateID,
			"reference", msg.Reference,
			applog.FieldError, err.Error())
		return nil
	}

	if err := w.generator.MaterializeByID(ctx, msg.Owner, msg.TemplateID, ref); err != nil {
		return fmt.Errorf("materialize template %s: %w", msg.TemplateID, err)
	}
	return nil
}
