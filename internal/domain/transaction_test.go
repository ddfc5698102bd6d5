package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
)

func TestTxTypeValid(t *testing.T) {
	assert.True(t, domain.TxTypeIncome.Valid())
	assert.True(t, domain.TxTypeExpense.Valid())
	assert.False(t, domain.TxType("transfer").Valid())
	assert.False(t, domain.TxType("").Valid())
}

func TestNormalizeDate(t *testing.T) {
	got, err := domain.NormalizeDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", got)

	for _, bad := range []string{"", "2024-1-5", "05-01-2024", "2024-13-01", "yesterday"} {
		_, err := domain.NormalizeDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestCategoriesArePresetLabels(t *testing.T) {
	assert.Equal(t, []string{"Salary", "Groceries", "Bills", "Entertainment", "Other"}, domain.Categories())
}
