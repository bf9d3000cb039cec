package accounting

import (
	"fmt"
	"strings"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmountEpsilon is the tolerance used for all balance comparisons. Amounts
// are stored as exact decimals, so one tolerance serves every call path.
var AmountEpsilon = decimal.NewFromFloat(0.01)

// Round2 rounds a currency amount to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineInput is one proposed debit/credit line before normalization.
type LineInput struct {
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// NormalizedLine is a validated, rounded line ready to be written.
type NormalizedLine struct {
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// NormalizedLines is the builder output: normalized lines plus their totals.
type NormalizedLines struct {
	Lines       []NormalizedLine
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// NormalizeLines validates a set of proposed debit/credit lines and computes
// totals. It is pure and always invoked before any write. Rules, in order:
// at least two lines; non-empty account references; amounts rounded to 2dp;
// no negative amounts; exactly one of debit/credit strictly positive per
// line; debit and credit totals equal within AmountEpsilon.
func NormalizeLines(raw []LineInput) (NormalizedLines, error) {
	if len(raw) < 2 {
		return NormalizedLines{}, fmt.Errorf("%w: journal entry requires at least two lines, got %d", apperrors.ErrValidation, len(raw))
	}

	out := NormalizedLines{Lines: make([]NormalizedLine, 0, len(raw))}
	for i, in := range raw {
		if strings.TrimSpace(in.AccountID) == "" {
			return NormalizedLines{}, fmt.Errorf("%w: line %d has no account reference", apperrors.ErrValidation, i+1)
		}

		debit := Round2(in.Debit)
		credit := Round2(in.Credit)

		if debit.IsNegative() || credit.IsNegative() {
			return NormalizedLines{}, fmt.Errorf("%w: line %d has a negative amount (debit %s, credit %s)", apperrors.ErrValidation, i+1, debit, credit)
		}
		if debit.IsPositive() == credit.IsPositive() {
			// Both set or both zero.
			return NormalizedLines{}, fmt.Errorf("%w: line %d must have exactly one of debit or credit set (debit %s, credit %s)", apperrors.ErrValidation, i+1, debit, credit)
		}

		out.Lines = append(out.Lines, NormalizedLine{
			AccountID:   in.AccountID,
			Debit:       debit,
			Credit:      credit,
			Description: in.Description,
		})
		out.DebitTotal = out.DebitTotal.Add(debit)
		out.CreditTotal = out.CreditTotal.Add(credit)
	}

	if out.DebitTotal.Sub(out.CreditTotal).Abs().GreaterThan(AmountEpsilon) {
		return NormalizedLines{}, fmt.Errorf("%w: unbalanced entry: debit total %s does not equal credit total %s", apperrors.ErrPrecondition, out.DebitTotal, out.CreditTotal)
	}

	return out, nil
}
