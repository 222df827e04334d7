package creditconversion

import (
	"fmt"

	creditconversionerrors "go-leave/internal/creditconversion/errors"
	"go-leave/internal/ledger"

	"github.com/shopspring/decimal"
)

var (
	MinimumBalance      = decimal.NewFromInt(15)
	MinimumCredits      = decimal.NewFromInt(10)
	AnnualQuota         = decimal.NewFromInt(10)
	WorkingDaysPerMonth = decimal.NewFromInt(22)
)

// Eligibility is what a submission is checked against.
type Eligibility struct {
	LeaveType string
	Requested decimal.Decimal
	Balance   decimal.Decimal
	// Converted is the sum of effective credits of admin_approved
	// conversions in the same year.
	Converted decimal.Decimal
}

// Evaluate returns the effective credits for a submission. The requested
// amount is floored to MinimumCredits first. The annual quota only counts once
// a conversion has already been approved in the year, so a first conversion
// above the quota still passes. Quota is checked before balance so a repeat
// conversion reports the quota even after the first one drained the balance.
func Evaluate(e Eligibility) (decimal.Decimal, error) {
	if !e.Requested.IsPositive() {
		return decimal.Zero, creditconversionerrors.ErrInvalidCredits
	}
	if ledger.NormalizeCode(e.LeaveType) != ledger.CodeVL {
		return decimal.Zero, creditconversionerrors.ErrNotConvertible
	}

	effective := decimal.Max(e.Requested, MinimumCredits)
	if e.Converted.IsPositive() && e.Converted.Add(effective).GreaterThan(AnnualQuota) {
		return decimal.Zero, fmt.Errorf("%w: converted %s + %s > %s", creditconversionerrors.ErrQuotaExceeded, e.Converted, effective, AnnualQuota)
	}
	if e.Balance.LessThan(MinimumBalance) {
		return decimal.Zero, fmt.Errorf("%w: balance %s, minimum %s", creditconversionerrors.ErrBelowMinimumBalance, e.Balance, MinimumBalance)
	}
	if effective.GreaterThan(e.Balance) {
		return decimal.Zero, fmt.Errorf("%w: effective %s, balance %s", creditconversionerrors.ErrExceedsBalance, effective, e.Balance)
	}
	return effective, nil
}

// CashValue is (monthlySalary / 22) * credits rounded to 2 places.
func CashValue(monthlySalary, credits decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(credits).Div(WorkingDaysPerMonth).Round(2)
}
