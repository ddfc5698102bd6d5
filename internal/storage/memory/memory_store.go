package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
	"github.com/GPT-Engineer-App/fin-track/internal/storage"
)

// Store is an in-memory TransactionStore and UserStore used by tests and
// local development. It mirrors the MySQL backend's behavior, including
// newest-first SelectAll order.
type Store struct {
	mu       sync.Mutex
	txs      []domain.Transaction
	users    map[string]*domain.User
	nextTx   uint
	nextUser uint
}

func New() *Store {
	return &Store{users: make(map[string]*domain.User)}
}

func (s *Store) SelectAll(_ context.Context, ownerID uint) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	// Stored oldest-first; walk backwards so the newest row leads
	for i := len(s.txs) - 1; i >= 0; i-- {
		if s.txs[i].OwnerID == ownerID {
			out = append(out, s.txs[i])
		}
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, ownerID uint, t domain.Transaction) (*domain.Transaction, error) {
	if err := storage.Normalize(&t); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTx++
	t.ID = s.nextTx
	t.OwnerID = ownerID
	s.txs = append(s.txs, t)
	saved := t
	return &saved, nil
}

func (s *Store) UpdateByID(_ context.Context, ownerID, id uint, t domain.Transaction) (*domain.Transaction, error) {
	if err := storage.Normalize(&t); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id && s.txs[i].OwnerID == ownerID {
			s.txs[i].Amount = t.Amount
			s.txs[i].Type = t.Type
			s.txs[i].Category = t.Category
			s.txs[i].Date = t.Date
			saved := s.txs[i]
			return &saved, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) DeleteByID(_ context.Context, ownerID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id && s.txs[i].OwnerID == ownerID {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) FindOrCreateByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	if u, ok := s.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	s.nextUser++
	u := &domain.User{ID: s.nextUser, Email: email}
	s.users[email] = u
	copied := *u
	return &copied, nil
}
