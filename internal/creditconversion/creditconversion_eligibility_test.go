package creditconversion_test

import (
	"testing"

	"go-leave/internal/creditconversion"
	creditconversionerrors "go-leave/internal/creditconversion/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		in        creditconversion.Eligibility
		effective string
		wantErr   error
	}{
		{
			name:      "above floor",
			in:        creditconversion.Eligibility{LeaveType: "VL", Requested: dec("12"), Balance: dec("20")},
			effective: "12",
		},
		{
			name:      "floored to ten",
			in:        creditconversion.Eligibility{LeaveType: "vl", Requested: dec("3"), Balance: dec("15")},
			effective: "10",
		},
		{
			name:    "sick leave not convertible",
			in:      creditconversion.Eligibility{LeaveType: "SL", Requested: dec("12"), Balance: dec("20")},
			wantErr: creditconversionerrors.ErrNotConvertible,
		},
		{
			name:    "balance below minimum",
			in:      creditconversion.Eligibility{LeaveType: "VL", Requested: dec("10"), Balance: dec("14.999")},
			wantErr: creditconversionerrors.ErrBelowMinimumBalance,
		},
		{
			name:    "exceeds balance",
			in:      creditconversion.Eligibility{LeaveType: "VL", Requested: dec("16"), Balance: dec("15")},
			wantErr: creditconversionerrors.ErrExceedsBalance,
		},
		{
			name:    "second conversion over quota",
			in:      creditconversion.Eligibility{LeaveType: "VL", Requested: dec("5"), Balance: dec("8"), Converted: dec("12")},
			wantErr: creditconversionerrors.ErrQuotaExceeded,
		},
		{
			name:    "zero credits",
			in:      creditconversion.Eligibility{LeaveType: "VL", Requested: decimal.Zero, Balance: dec("20")},
			wantErr: creditconversionerrors.ErrInvalidCredits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := creditconversion.Evaluate(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.effective)), "got %s", got)
		})
	}
}

// Any approved conversion in the year is at least ten credits, so every
// further request in the same year is over the quota regardless of size.
func TestEvaluate_SecondConversionAlwaysOverQuota(t *testing.T) {
	for converted := 10; converted <= 30; converted++ {
		for requested := 1; requested <= 30; requested++ {
			_, err := creditconversion.Evaluate(creditconversion.Eligibility{
				LeaveType: "VL",
				Requested: decimal.NewFromInt(int64(requested)),
				Balance:   decimal.NewFromInt(100),
				Converted: decimal.NewFromInt(int64(converted)),
			})
			assert.ErrorIs(t, err, creditconversionerrors.ErrQuotaExceeded, "converted=%d requested=%d", converted, requested)
		}
	}
}

func TestEvaluate_EffectiveNeverBelowFloor(t *testing.T) {
	for requested := 1; requested <= 40; requested++ {
		got, err := creditconversion.Evaluate(creditconversion.Eligibility{
			LeaveType: "VL",
			Requested: decimal.NewFromInt(int64(requested)),
			Balance:   decimal.NewFromInt(40),
		})
		assert.NoError(t, err)
		assert.False(t, got.LessThan(creditconversion.MinimumCredits))
		assert.False(t, got.LessThan(decimal.NewFromInt(int64(requested))))
	}
}

func TestCashValue(t *testing.T) {
	tests := []struct {
		salary, credits, want string
	}{
		{"22000", "10", "10000"},
		{"30000", "12", "16363.64"},
		{"25500.50", "10", "11591.14"},
	}
	for _, tt := range tests {
		got := creditconversion.CashValue(dec(tt.salary), dec(tt.credits))
		assert.Equal(t, tt.want, got.String(), "salary=%s credits=%s", tt.salary, tt.credits)
	}
}
