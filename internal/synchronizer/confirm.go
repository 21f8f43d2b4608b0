package synchronizer

import (
	"context"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
)

// Confirmer asks the user whether an entry may be deleted.
type Confirmer interface {
	Confirm(ctx context.Context, e domain.Entry) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, e domain.Entry) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, e domain.Entry) (bool, error) {
	return f(ctx, e)
}

// AlwaysConfirm approves every deletion. Use it for non-interactive callers
// that already asked.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, domain.Entry) (bool, error) {
	return true, nil
})
