package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money amounts

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
	"github.com/GPT-Engineer-App/fin-track/internal/manager"
	"github.com/GPT-Engineer-App/fin-track/internal/storage"
)

// TransactionRequest carries the editable form fields. Only presence is
// checked here; the store enforces the row invariants.
type TransactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`                      // Non-negative amount
	Type     domain.TxType   `json:"type" binding:"required"`     // income or expense
	Category string          `json:"category"`                    // Preset or free-form label
	Date     string          `json:"date" binding:"required"`     // Calendar date, YYYY-MM-DD
}

// transaction converts the request into the form buffer shape
func (r TransactionRequest) transaction() domain.Transaction {
	return domain.Transaction{
		Amount:   r.Amount,   // Amount as submitted
		Type:     r.Type,     // Two-value type
		Category: r.Category, // Label as submitted
		Date:     r.Date,     // Store normalizes the date
	}
}

// currentManager resolves the caller's Manager from the gate's session
func currentManager(c *gin.Context, reg *manager.Registry) (*manager.Manager, bool) {
	s, exists := c.Get("session") // Session placed by the gate
	if !exists {
		// Should not happen behind the gate, but fail closed
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue"})
		return nil, false
	}
	return reg.Get(c.Request.Context(), s.(*domain.Session).UserID), true
}

// idParam parses the :id path segment
func idParam(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
		return 0, false
	}
	return uint(v), true
}

// storeStatus maps a store failure onto an HTTP status
func storeStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidType), errors.Is(err, storage.ErrInvalidDate), errors.Is(err, storage.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ListTransactionsHandler applies the query-string filter as the active view
// projection and returns it together with the balance over the full list
func ListTransactionsHandler(reg *manager.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentManager(c, reg)
		if !ok {
			return
		}
		// Unset query fields leave the corresponding filter field open;
		// filter and projection are applied in one step so concurrent
		// list requests cannot read each other's filter
		view := m.List(domain.Filter{
			Type:     domain.TxType(c.Query("type")), // Exact type match
			Category: c.Query("category"),            // Exact category match
			DateFrom: c.Query("date_from"),           // Inclusive lower bound
			DateTo:   c.Query("date_to"),             // Inclusive upper bound
		})
		c.JSON(http.StatusOK, view)
	}
}

// CreateTransactionHandler runs the create path of the form: open an empty
// form, fill it, submit, prepend the store's returned row
func CreateTransactionHandler(reg *manager.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentManager(c, reg)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		m.OpenCreate()                // Fresh form in create mode
		m.SetForm(req.transaction())  // Fill the buffer
		saved, notice, err := m.Submit(c.Request.Context())
		if err != nil {
			// The form stays populated for a retry; report the failure honestly
			c.JSON(storeStatus(err), gin.H{"error": "Could not add transaction", "notice": notice})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"transaction": saved, "notice": notice})
	}
}

// UpdateTransactionHandler runs the edit path: copy the row into the form,
// apply the submitted fields, submit, replace the matching entry
func UpdateTransactionHandler(reg *manager.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentManager(c, reg)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The row must be in the loaded list to be editable
		if err := m.EditByID(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		m.SetForm(req.transaction()) // Overwrite the editable fields, id stays
		saved, notice, err := m.Submit(c.Request.Context())
		if err != nil {
			c.JSON(storeStatus(err), gin.H{"error": "Could not update transaction", "notice": notice})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": saved, "notice": notice})
	}
}

// DeleteTransactionHandler removes a row; the local list only changes when
// the store confirms
func DeleteTransactionHandler(reg *manager.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentManager(c, reg)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		notice, err := m.Delete(c.Request.Context(), id)
		if err != nil {
			c.JSON(storeStatus(err), gin.H{"error": "Could not delete transaction", "notice": notice})
			return
		}
		c.JSON(http.StatusOK, gin.H{"notice": notice})
	}
}

// ExportTransactionsHandler streams the full, unfiltered list as a JSON
// download named after manager.ExportFilename
func ExportTransactionsHandler(reg *manager.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentManager(c, reg)
		if !ok {
			return
		}
		data, err := m.Export()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not export transactions"})
			return
		}
		// Offer the payload as a file download
		c.Header("Content-Disposition", `attachment; filename=`+manager.ExportFilename)
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}
