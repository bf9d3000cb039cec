package accounting_test

import (
	"testing"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNormalizeLines_Valid(t *testing.T) {
	got, err := accounting.NormalizeLines([]accounting.LineInput{
		{AccountID: "acc-supplies", Debit: dec("250.00")},
		{AccountID: "acc-cash", Credit: dec("250.00")},
	})
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.DebitTotal.Equal(dec("250.00")))
	assert.True(t, got.CreditTotal.Equal(dec("250.00")))
	assert.True(t, got.Lines[0].Credit.IsZero())
	assert.True(t, got.Lines[1].Debit.IsZero())
}

func TestNormalizeLines_RoundsToTwoDecimals(t *testing.T) {
	got, err := accounting.NormalizeLines([]accounting.LineInput{
		{AccountID: "a", Debit: dec("10.005")},
		{AccountID: "b", Credit: dec("10.01")},
	})
	require.NoError(t, err)
	assert.True(t, got.Lines[0].Debit.Equal(dec("10.01")), "expected half-up rounding, got %s", got.Lines[0].Debit)
}

func TestNormalizeLines_Errors(t *testing.T) {
	tests := []struct {
		name    string
		lines   []accounting.LineInput
		wantErr error
	}{
		{
			name:    "too few lines",
			lines:   []accounting.LineInput{{AccountID: "a", Debit: dec("1")}},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "missing account reference",
			lines: []accounting.LineInput{
				{AccountID: "  ", Debit: dec("1")},
				{AccountID: "b", Credit: dec("1")},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "negative amount",
			lines: []accounting.LineInput{
				{AccountID: "a", Debit: dec("-5")},
				{AccountID: "b", Credit: dec("5")},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "both sides set",
			lines: []accounting.LineInput{
				{AccountID: "a", Debit: dec("5"), Credit: dec("5")},
				{AccountID: "b", Credit: dec("5")},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "both sides zero",
			lines: []accounting.LineInput{
				{AccountID: "a"},
				{AccountID: "b", Credit: dec("5")},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "unbalanced",
			lines: []accounting.LineInput{
				{AccountID: "a", Debit: dec("100.00")},
				{AccountID: "b", Credit: dec("99.90")},
			},
			wantErr: apperrors.ErrPrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounting.NormalizeLines(tt.lines)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeLines_UnbalancedReportsBothTotals(t *testing.T) {
	_, err := accounting.NormalizeLines([]accounting.LineInput{
		{AccountID: "a", Debit: dec("100.00")},
		{AccountID: "b", Credit: dec("80.00")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100")
	assert.Contains(t, err.Error(), "80")
}

func TestNormalizeLines_WithinEpsilon(t *testing.T) {
	// A one-cent difference is tolerated; anything beyond is not.
	_, err := accounting.NormalizeLines([]accounting.LineInput{
		{AccountID: "a", Debit: dec("100.00")},
		{AccountID: "b", Credit: dec("99.99")},
	})
	assert.NoError(t, err)
}
