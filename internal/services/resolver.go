package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// CategoryResolver turns a transaction's category reference into the
// owner's authoritative category.
type CategoryResolver struct {
	store   CategoryStore
	timeout time.Duration
}

func NewCategoryResolver(store CategoryStore, timeout time.Duration) *CategoryResolver {
	return &CategoryResolver{store: store, timeout: timeout}
}

// Resolve looks a category up by id when one is given, by name otherwise.
// An id always wins; the name is never consulted to second-guess it.
func (r *CategoryResolver) Resolve(ctx context.Context, owner, categoryID, categoryName string) (core.Category, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if id := strings.TrimSpace(categoryID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return core.Category{}, fmt.Errorf("%w: %q is not a category id", core.ErrInvalidReference, id)
		}
		// stored ids are canonical lowercase
		return r.store.GetCategoryByID(ctx, owner, parsed.String())
	}

	name := strings.TrimSpace(categoryName)
	if name == "" {
		return core.Category{}, core.ErrMissingReference
	}
	return r.store.GetCategoryByName(ctx, owner, name)
}
