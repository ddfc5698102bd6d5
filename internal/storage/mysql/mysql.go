package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm" // GORM ORM library

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
	"github.com/GPT-Engineer-App/fin-track/internal/storage"
)

// Store persists transactions and users in MySQL through GORM.
type Store struct {
	db *gorm.DB
}

// New wraps an open GORM handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SelectAll returns every transaction owned by ownerID, newest first
func (s *Store) SelectAll(ctx context.Context, ownerID uint) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	// Scope to owner and keep the newest rows at the head of the list
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Insert stores a new row for ownerID and returns it with its assigned ID
func (s *Store) Insert(ctx context.Context, ownerID uint, t domain.Transaction) (*domain.Transaction, error) {
	if err := storage.Normalize(&t); err != nil {
		return nil, err
	}
	t.ID = 0 // IDs are assigned here, never by the caller
	t.OwnerID = ownerID
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateByID replaces every field except the ID on the matching row and
// returns the saved shape
func (s *Store) UpdateByID(ctx context.Context, ownerID, id uint, t domain.Transaction) (*domain.Transaction, error) {
	if err := storage.Normalize(&t); err != nil {
		return nil, err
	}
	var existing domain.Transaction
	// Fetch within the owner's scope so foreign rows read as not found
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	existing.Amount = t.Amount
	existing.Type = t.Type
	existing.Category = t.Category
	existing.Date = t.Date
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// DeleteByID removes the matching row; deletion is irreversible
func (s *Store) DeleteByID(ctx context.Context, ownerID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindOrCreateByEmail resolves an email to its user row, creating one on
// first login
func (s *Store) FindOrCreateByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := domain.User{Email: strings.ToLower(email)} // Lowercase to keep emails unique
	if err := s.db.WithContext(ctx).
		Where("email = ?", user.Email).
		FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
