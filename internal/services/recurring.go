package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/amqp"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

const defaultConcurrency = 4

// TemplateInput is what a user supplies to create a fixed expense.
type TemplateInput struct {
	Amount     decimal.Decimal
	CategoryID string
	Day        int
	Note       string
}

// RecurringGenerator materializes fixed-expense templates into
// transactions, at template creation and on the daily scheduler pass.
// Each (template, month) is written at most once thanks to the source key.
type RecurringGenerator struct {
	templates    TemplateStore
	transactions TransactionStore
	resolver     *CategoryResolver
	publisher    Publisher
	concurrency  int
	timeout      time.Duration
	now          func() time.Time
	events       *applog.StructuredLogger
}

// NewRecurringGenerator wires the generator. publisher may be nil when no
// broker is configured; creation-time materialization then runs inline.
func NewRecurringGenerator(templates TemplateStore, transactions TransactionStore, resolver *CategoryResolver, publisher Publisher, concurrency int, timeout time.Duration) *RecurringGenerator {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	logger := applog.FromContext(context.Background()).WithComponent(applog.ComponentRecurring)
	return &RecurringGenerator{
		templates:    templates,
		transactions: transactions,
		resolver:     resolver,
		publisher:    publisher,
		concurrency:  concurrency,
		timeout:      timeout,
		now:          time.Now,
		events:       applog.NewStructuredLogger(logger),
	}
}

// Materialize writes the occurrence of tmpl in ref's month, dated on the
// template's day clamped to the month's last day. When the occurrence
// already exists it is returned with created == false.
func (g *RecurringGenerator) Materialize(ctx context.Context, tmpl core.FixedExpenseTemplate, ref time.Time) (core.Transaction, bool, error) {
	if err := tmpl.Validate(); err != nil {
		return core.Transaction{}, false, err
	}

	cat, err := g.resolver.Resolve(ctx, tmpl.Owner, tmpl.CategoryID, "")
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("resolve category of template %s: %w", tmpl.ID, err)
	}

	ym := core.YearMonthOf(ref)
	date := core.ClampDay(ym.Year, ym.Month, tmpl.Day)

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	tx, created, err := g.transactions.InsertTransaction(ctx, core.Transaction{
		Owner:        tmpl.Owner,
		Amount:       tmpl.Amount,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		CategoryType: cat.Type,
		Date:         core.FormatDate(date),
		Note:         strings.TrimSpace(tmpl.Note + core.FixedExpenseNoteSuffix),
		SourceKey:    tmpl.SourceKey(ym),
	})
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("materialize template %s: %w", tmpl.ID, err)
	}

	g.events.LogMaterialized(ctx, tmpl.Owner, tmpl.ID, tx.SourceKey, tx.Date, created)

	if created && g.publisher != nil {
		msg := &amqp.TransactionMaterializedMessage{
			TransactionID: tx.ID,
			TemplateID:    tmpl.ID,
			Owner:         tx.Owner,
			SourceKey:     tx.SourceKey,
			Date:          tx.Date,
			Amount:        tx.Amount.StringFixed(2),
		}
		if err := g.publisher.PublishTransactionMaterialized(ctx, msg); err != nil {
			// the transaction is stored, the announcement is best effort
			slog.WarnContext(ctx, "Failed to announce materialized transaction",
				"transaction_id", tx.ID, "error", err)
		}
	}

	return tx, created, nil
}

// MaterializeByID reloads a template and materializes it for ref. Used by
// the broker consumer; a template deleted in the meantime is skipped.
func (g *RecurringGenerator) MaterializeByID(ctx context.Context, owner, templateID string, ref time.Time) error {
	tctx, cancel := withTimeout(ctx, g.timeout)
	tmpl, err := g.templates.GetFixedExpense(tctx, owner, templateID)
	cancel()
	if errors.Is(err, core.ErrNotFound) {
		slog.InfoContext(ctx, "Fixed expense template gone, skipping", "template_id", templateID, "owner", owner)
		return nil
	}
	if err != nil {
		return err
	}
	_, _, err = g.Materialize(ctx, tmpl, ref)
	return err
}

// CreateTemplate stores a new template and materializes its current-month
// occurrence, through the broker when one is configured.
func (g *RecurringGenerator) CreateTemplate(ctx context.Context, owner string, in TemplateInput) (core.FixedExpenseTemplate, error) {
	tmpl := core.FixedExpenseTemplate{
		Owner:      owner,
		Amount:     in.Amount,
		CategoryID: strings.TrimSpace(in.CategoryID),
		Day:        in.Day,
		Note:       strings.TrimSpace(in.Note),
	}
	if err := tmpl.Validate(); err != nil {
		return core.FixedExpenseTemplate{}, err
	}
	if _, err := g.resolver.Resolve(ctx, owner, tmpl.CategoryID, ""); err != nil {
		return core.FixedExpenseTemplate{}, err
	}

	tctx, cancel := withTimeout(ctx, g.timeout)
	tmpl, err := g.templates.CreateFixedExpense(tctx, tmpl)
	cancel()
	if err != nil {
		return core.FixedExpenseTemplate{}, err
	}

	ref := g.now()
	if g.publisher != nil {
		err := g.publisher.PublishFixedExpenseCreated(ctx, tmpl.ID, owner, core.FormatDate(ref))
		if err == nil {
			return tmpl, nil
		}
		slog.WarnContext(ctx, "Broker unavailable, materializing inline",
			"template_id", tmpl.ID, "error", err)
	}

	if _, _, err := g.Materialize(ctx, tmpl, ref); err != nil {
		// the template exists; the scheduler will pick the occurrence up
		g.events.LogError(ctx, "Creation-time materialization failed", err,
			applog.ComponentRecurring, applog.OpMaterialize,
			applog.NewFields().WithMaterialization(owner, tmpl.ID, tmpl.SourceKey(core.YearMonthOf(ref))))
	}
	return tmpl, nil
}

// ProcessDay is the scheduler pass for now's date. Templates are
// materialized concurrently; one failing template is logged and never
// stops the others. It returns the number of transactions created.
func (g *RecurringGenerator) ProcessDay(ctx context.Context, now time.Time) (int, error) {
	days := DueDays(now)

	lctx, cancel := withTimeout(ctx, g.timeout)
	templates, err := g.templates.ListFixedExpensesForDays(lctx, days)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("list due templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing fixed expenses",
		"due", len(templates),
		"days", days,
		"processing_date", core.FormatDate(now))

	var created, failed atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for _, tmpl := range templates {
		eg.Go(func() error {
			_, ok, err := g.Materialize(egCtx, tmpl, now)
			if err != nil {
				failed.Add(1)
				g.events.LogError(egCtx, "Failed to materialize fixed expense", err,
					applog.ComponentRecurring, applog.OpMaterialize,
					applog.NewFields().WithMaterialization(tmpl.Owner, tmpl.ID, tmpl.SourceKey(core.YearMonthOf(now))))
				return nil
			}
			if ok {
				created.Add(1)
			}
			return nil
		})
	}
	_ = eg.Wait()

	slog.InfoContext(ctx, "Fixed expense processing complete",
		"created", created.Load(),
		"failed", failed.Load(),
		"total_checked", len(templates))

	return int(created.Load()), ctx.Err()
}

// ListTemplates returns the owner's templates ordered by day.
func (g *RecurringGenerator) ListTemplates(ctx context.Context, owner string) ([]core.FixedExpenseTemplate, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()
	return g.templates.ListFixedExpenses(ctx, owner)
}

// DeleteTemplate removes a template; transactions it already generated stay.
func (g *RecurringGenerator) DeleteTemplate(ctx context.Context, owner, id string) (int64, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()
	return g.templates.DeleteFixedExpense(ctx, owner, id)
}
