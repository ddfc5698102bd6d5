package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus" // Logging library

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
	"github.com/GPT-Engineer-App/fin-track/internal/storage"
)

// ExportFilename is the download name for the exported transaction list
const ExportFilename = "transactions.json"

// Notice severities carried back to the user interface
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notice is a transient user-facing notification. Severity always reflects
// the actual outcome, for deletes as much as for creates and updates.
type Notice struct {
	Title    string `json:"title"`
	Severity string `json:"severity"`
}

// Manager owns one user's view of the transaction table: the in-memory list,
// the create/edit form, the active filter and the modal flag. The list is
// loaded once when the Manager is built and then kept consistent by applying
// each mutation's server-confirmed row; it is never re-fetched after a
// change, so writes from elsewhere stay invisible until the Manager is reset.
//
// All operations serialize on an internal mutex, so overlapping requests
// from the same user cannot interleave mid-mutation.
type Manager struct {
	mu      sync.Mutex
	ownerID uint
	store   storage.TransactionStore
	log     *logrus.Entry

	transactions []domain.Transaction
	form         domain.Form
	filter       domain.Filter
	modalOpen    bool
}

// New builds a Manager for one owner. The caller is expected to Load before
// serving reads.
func New(ownerID uint, store storage.TransactionStore) *Manager {
	return &Manager{
		ownerID: ownerID,
		store:   store,
		log:     logrus.WithField("user_id", ownerID),
	}
}

// Load fetches the owner's full transaction list and replaces the in-memory
// copy wholesale. On failure the prior list stays in place (empty on the
// first load) and the error is returned for the caller to decide on.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txs, err := m.store.SelectAll(ctx, m.ownerID)
	if err != nil {
		m.log.WithError(err).Error("Failed to load transactions")
		return fmt.Errorf("load transactions: %w", err)
	}
	m.transactions = txs
	return nil
}

// OpenCreate resets the form to empty create mode and opens the modal
func (m *Manager) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = domain.Form{}
	m.modalOpen = true
}

// OpenEdit copies the given transaction, id included, into the form and opens
// the modal in update mode
func (m *Manager) OpenEdit(t domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = domain.Form{Transaction: t, EditMode: true}
	m.modalOpen = true
}

// EditByID opens the edit form for the transaction with the given id; the row
// must be present in the loaded list
func (m *Manager) EditByID(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			m.form = domain.Form{Transaction: t, EditMode: true}
			m.modalOpen = true
			return nil
		}
	}
	return storage.ErrNotFound
}

// CloseModal abandons the form without submitting
func (m *Manager) CloseModal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = domain.Form{}
	m.modalOpen = false
}

// SetForm replaces the editable form fields, preserving the id and mode set
// by OpenCreate or OpenEdit
func (m *Manager) SetForm(t domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Amount = t.Amount
	m.form.Type = t.Type
	m.form.Category = t.Category
	m.form.Date = t.Date
}

// Form returns the current form buffer
func (m *Manager) Form() domain.Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// ModalOpen reports whether the create/edit modal is open
func (m *Manager) ModalOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modalOpen
}

// Submit sends the form to the store: update-by-id in edit mode, insert
// otherwise. The store's returned row is the source of truth for the saved
// shape; it replaces the matching entry on update and is prepended on
// create. On success the form clears and the modal closes; on failure both
// stay as they were so the user can retry.
func (m *Manager) Submit(ctx context.Context) (*domain.Transaction, Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.form.EditMode {
		saved, err := m.store.UpdateByID(ctx, m.ownerID, m.form.ID, m.form.Transaction)
		if err != nil {
			m.log.WithError(err).WithField("id", m.form.ID).Error("Failed to update transaction")
			return nil, Notice{Title: "Transaction update failed.", Severity: SeverityError}, fmt.Errorf("update transaction: %w", err)
		}
		for i := range m.transactions {
			if m.transactions[i].ID == saved.ID {
				m.transactions[i] = *saved
				break
			}
		}
		m.form = domain.Form{}
		m.modalOpen = false
		return saved, Notice{Title: "Transaction updated.", Severity: SeveritySuccess}, nil
	}
	saved, err := m.store.Insert(ctx, m.ownerID, m.form.Transaction)
	if err != nil {
		m.log.WithError(err).Error("Failed to add transaction")
		return nil, Notice{Title: "Transaction add failed.", Severity: SeverityError}, fmt.Errorf("insert transaction: %w", err)
	}
	// Newest entry leads the list
	m.transactions = append([]domain.Transaction{*saved}, m.transactions...)
	m.form = domain.Form{}
	m.modalOpen = false
	return saved, Notice{Title: "Transaction added.", Severity: SeveritySuccess}, nil
}

// Delete removes the transaction by id from the store and, on success, from
// the local list. On failure the list is untouched.
func (m *Manager) Delete(ctx context.Context, id uint) (Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.DeleteByID(ctx, m.ownerID, id); err != nil {
		m.log.WithError(err).WithField("id", id).Error("Failed to delete transaction")
		return Notice{Title: "Transaction delete failed.", Severity: SeverityError}, fmt.Errorf("delete transaction: %w", err)
	}
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			break
		}
	}
	return Notice{Title: "Transaction deleted.", Severity: SeveritySuccess}, nil
}

// SetFilter replaces the active filter
func (m *Manager) SetFilter(f domain.Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = f
}

// Filter returns the active filter
func (m *Manager) Filter() domain.Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

// View is one consistent read of the list: the filtered projection together
// with the balance and count over the full list.
type View struct {
	Transactions []domain.Transaction `json:"transactions"`
	Balance      decimal.Decimal      `json:"balance"`
	Total        int                  `json:"total"`
}

// List makes f the active filter and projects the list through it in a
// single critical section, so concurrent readers can never see each other's
// filter. The balance and total always cover the full list.
func (m *Manager) List(f domain.Filter) View {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = f
	v := View{Transactions: make([]domain.Transaction, 0, len(m.transactions)), Total: len(m.transactions)}
	total := decimal.Zero
	for _, t := range m.transactions {
		if m.filter.Matches(t) {
			v.Transactions = append(v.Transactions, t)
		}
		if t.Type == domain.TxTypeIncome {
			total = total.Add(t.Amount)
		} else {
			total = total.Sub(t.Amount)
		}
	}
	v.Balance = total
	return v
}

// Filtered projects the list through the active filter without mutating it
func (m *Manager) Filtered() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, 0, len(m.transactions))
	for _, t := range m.transactions {
		if m.filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Transactions returns a copy of the full, unfiltered list
func (m *Manager) Transactions() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// Balance folds the full list: income sums in, expense sums out. The active
// filter never applies here.
func (m *Manager) Balance() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, t := range m.transactions {
		if t.Type == domain.TxTypeIncome {
			total = total.Add(t.Amount)
		} else {
			total = total.Sub(t.Amount)
		}
	}
	return total
}

// Export serializes the full, unfiltered list as a JSON array for download
// under ExportFilename
func (m *Manager) Export() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txs := m.transactions
	if txs == nil {
		txs = []domain.Transaction{} // An empty list still exports as an array
	}
	return json.Marshal(txs)
}

// Reset drops all state back to the just-constructed shape. Used when the
// owning identity changes.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = nil
	m.form = domain.Form{}
	m.filter = domain.Filter{}
	m.modalOpen = false
}
