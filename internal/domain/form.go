package domain

// Form is the transient buffer behind the create/edit modal: a partial
// Transaction plus a flag distinguishing update from create. In edit mode the
// embedded ID identifies the row being replaced.
type Form struct {
	Transaction
	EditMode bool
}
