package domain

// Filter narrows the displayed transaction set. Unset fields always pass, so
// the zero Filter matches everything. Filtering is a view projection only; it
// never touches the underlying list.
type Filter struct {
	Type     TxType `json:"type,omitempty"`     // Exact match when set
	Category string `json:"category,omitempty"` // Exact match when set
	DateFrom string `json:"dateFrom,omitempty"` // Inclusive lower bound, YYYY-MM-DD
	DateTo   string `json:"dateTo,omitempty"`   // Inclusive upper bound, YYYY-MM-DD
}

// Matches reports whether the transaction passes every set field of the filter
func (f Filter) Matches(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	// YYYY-MM-DD strings compare chronologically
	if f.DateFrom != "" && t.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && t.Date > f.DateTo {
		return false
	}
	return true
}
