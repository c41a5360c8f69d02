package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

type LedgerStore interface {
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	GetCategoryByID(ctx context.Context, owner, id string) (core.Category, error)
	ListCategories(ctx context.Context, owner string) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
	InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, bool, error)
	ListTransactions(ctx context.Context, owner string, p core.Period) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, owner, id string) (int64, error)
}

// TransactionInput references its category by id, or by name when no id
// is given.
type TransactionInput struct {
	Amount       decimal.Decimal
	CategoryID   string
	CategoryName string
	Date         string
	Note         string
}

// CategoryPatch carries the fields of a category update; nil means unchanged.
type CategoryPatch struct {
	Name      *string
	Type      *core.CategoryType
	SortOrder *int
}

// LedgerService records categories and transactions.
type LedgerService struct {
	store    LedgerStore
	resolver *CategoryResolver
	timeout  time.Duration
}

func NewLedgerService(store LedgerStore, resolver *CategoryResolver, timeout time.Duration) *LedgerService {
	return &LedgerService{store: store, resolver: resolver, timeout: timeout}
}

func (s *LedgerService) CreateCategory(ctx context.Context, owner, name string, typ core.CategoryType, sortOrder int) (core.Category, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.CreateCategory(ctx, core.Category{
		Owner:     owner,
		Name:      strings.TrimSpace(name),
		Type:      typ,
		SortOrder: sortOrder,
	})
}

func (s *LedgerService) ListCategories(ctx context.Context, owner string) ([]core.Category, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.ListCategories(ctx, owner)
}

// UpdateCategory applies patch to the owner's category. Renames reach the
// cached names on transactions and budgets.
func (s *LedgerService) UpdateCategory(ctx context.Context, owner, id string, patch CategoryPatch) (core.Category, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.store.GetCategoryByID(ctx, owner, id)
	if err != nil {
		return core.Category{}, err
	}
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		c.Type = *patch.Type
	}
	if patch.SortOrder != nil {
		c.SortOrder = *patch.SortOrder
	}
	return s.store.UpdateCategory(ctx, c)
}

// CreateTransaction resolves the category and stores the transaction with
// the category's current name and type.
func (s *LedgerService) CreateTransaction(ctx context.Context, owner string, in TransactionInput) (core.Transaction, error) {
	cat, err := s.resolver.Resolve(ctx, owner, in.CategoryID, in.CategoryName)
	if err != nil {
		return core.Transaction{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	tx, _, err := s.store.InsertTransaction(ctx, core.Transaction{
		Owner:        owner,
		Amount:       in.Amount,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		CategoryType: cat.Type,
		Date:         strings.TrimSpace(in.Date),
		Note:         strings.TrimSpace(in.Note),
	})
	return tx, err
}

func (s *LedgerService) ListTransactions(ctx context.Context, owner string, p core.Period) ([]core.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.ListTransactions(ctx, owner, p)
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, owner, id string) (int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.DeleteTransaction(ctx, owner, id)
}
