package storage

import (
	"context"
	"errors"

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidType   = errors.New("transaction type must be income or expense")
	ErrInvalidDate   = errors.New("transaction date must be YYYY-MM-DD")
	ErrInvalidAmount = errors.New("transaction amount must not be negative")
)

// TransactionStore is the durable row store for transactions. Every call is
// scoped to an owner; rows belonging to other users are invisible. Insert and
// UpdateByID return the saved row, which is the source of truth for the
// persisted shape.
type TransactionStore interface {
	SelectAll(ctx context.Context, ownerID uint) ([]domain.Transaction, error)
	Insert(ctx context.Context, ownerID uint, t domain.Transaction) (*domain.Transaction, error)
	UpdateByID(ctx context.Context, ownerID, id uint, t domain.Transaction) (*domain.Transaction, error)
	DeleteByID(ctx context.Context, ownerID, id uint) error
}

// UserStore resolves login emails to stable user identities.
type UserStore interface {
	FindOrCreateByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Normalize enforces the row invariants the store is responsible for: a valid
// two-value type, a well-formed calendar date and a non-negative amount.
func Normalize(t *domain.Transaction) error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	date, err := domain.NormalizeDate(t.Date)
	if err != nil {
		return ErrInvalidDate
	}
	t.Date = date
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
