package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType restricts a transaction to the two values the balance is defined over
type TxType string

const (
	TxTypeIncome  TxType = "income"  // Adds to the balance
	TxTypeExpense TxType = "expense" // Subtracts from the balance
)

// Valid reports whether the type is one of the two supported values
func (t TxType) Valid() bool {
	return t == TxTypeIncome || t == TxTypeExpense
}

// Preset categories offered by the app; callers may also supply their own label
const (
	CategorySalary        = "Salary"
	CategoryGroceries     = "Groceries"
	CategoryBills         = "Bills"
	CategoryEntertainment = "Entertainment"
	CategoryOther         = "Other"
)

// Categories returns the preset category labels in display order
func Categories() []string {
	return []string{CategorySalary, CategoryGroceries, CategoryBills, CategoryEntertainment, CategoryOther}
}

// DateLayout is the normalized calendar-date format used everywhere; with this
// layout lexicographic order matches chronological order
const DateLayout = "2006-01-02"

// NormalizeDate validates a calendar date and returns it in DateLayout form
func NormalizeDate(s string) (string, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}

// Transaction Model
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                  // Primary key, assigned by the store
	OwnerID   uint            `gorm:"index;not null" json:"-"`               // Owning user, never exposed
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`      // Non-negative, currency-agnostic
	Type      TxType          `gorm:"type:varchar(16);not null" json:"type"` // income or expense
	Category  string          `gorm:"type:varchar(64)" json:"category"`      // Preset or free-form label
	Date      string          `gorm:"type:varchar(10);not null" json:"date"` // Calendar date, YYYY-MM-DD
	CreatedAt int64           `gorm:"autoCreateTime:milli" json:"-"`         // Timestamp of creation in milliseconds
}
