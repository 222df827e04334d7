package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leave/internal/ledger"
	ledgererrors "go-leave/internal/ledger/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type balanceKey struct {
	employeeID uuid.UUID
	code       string
	year       int
}

type fakeLedgerRepository struct {
	credits  map[uuid.UUID]*ledger.LeaveCredit
	balances map[balanceKey]*ledger.LeaveBalance
	entries  []ledger.Entry

	updateCreditErr error
}

func newFakeLedgerRepository() *fakeLedgerRepository {
	return &fakeLedgerRepository{
		credits:  map[uuid.UUID]*ledger.LeaveCredit{},
		balances: map[balanceKey]*ledger.LeaveBalance{},
	}
}

func (f *fakeLedgerRepository) WithTx(tx *sql.Tx) ledger.Repository { return f }

func (f *fakeLedgerRepository) LockCredit(ctx context.Context, employeeID uuid.UUID) (*ledger.LeaveCredit, error) {
	c, ok := f.credits[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeLedgerRepository) UpdateCredit(ctx context.Context, employeeID uuid.UUID, code string, balance decimal.Decimal) error {
	if f.updateCreditErr != nil {
		return f.updateCreditErr
	}
	c := f.credits[employeeID]
	if code == ledger.CodeSL {
		c.SLBalance = balance
	} else {
		c.VLBalance = balance
	}
	return nil
}

func (f *fakeLedgerRepository) LockBalance(ctx context.Context, employeeID uuid.UUID, code string, year int) (*ledger.LeaveBalance, error) {
	b, ok := f.balances[balanceKey{employeeID, code, year}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeLedgerRepository) UpdateBalance(ctx context.Context, b *ledger.LeaveBalance) error {
	cp := *b
	f.balances[balanceKey{b.EmployeeID, b.LeaveType, b.Year}] = &cp
	return nil
}

func (f *fakeLedgerRepository) AppendEntry(ctx context.Context, e *ledger.Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeLedgerRepository) FindEntries(ctx context.Context, employeeID uuid.UUID, code string) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range f.entries {
		if e.EmployeeID == employeeID && (code == "" || e.LeaveType == code) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepository) FindCredit(ctx context.Context, employeeID uuid.UUID) (*ledger.LeaveCredit, error) {
	return f.LockCredit(ctx, employeeID)
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func movement(employeeID uuid.UUID, code, amount string) ledger.Movement {
	return ledger.Movement{
		EmployeeID:    employeeID,
		LeaveType:     code,
		Amount:        d(amount),
		Date:          day,
		ReferenceType: ledger.ReferenceLeaveRequest,
		ReferenceID:   uuid.New(),
	}
}

func TestEarnableLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("deduct then credit keeps entries chained", func(t *testing.T) {
		repo := newFakeLedgerRepository()
		emp := uuid.New()
		repo.credits[emp] = &ledger.LeaveCredit{EmployeeID: emp, SLBalance: d("5"), VLBalance: d("20")}
		l := ledger.NewEarnableLedger(repo)

		res, err := l.Deduct(ctx, nil, movement(emp, "vl", "11"))
		require.NoError(t, err)
		assert.True(t, res.BalanceBefore.Equal(d("20")))
		assert.True(t, res.BalanceAfter.Equal(d("9")))
		assert.Equal(t, "VL", res.Entry.LeaveType)
		assert.Equal(t, 2024, res.Entry.Year)
		require.NotNil(t, res.Entry.ReferenceID)

		res, err = l.Credit(ctx, nil, movement(emp, "VL", "1.5"))
		require.NoError(t, err)
		assert.True(t, res.BalanceAfter.Equal(d("10.5")))

		require.Len(t, repo.entries, 2)
		assert.True(t, repo.entries[1].BalanceBefore.Equal(repo.entries[0].BalanceAfter))
		last := repo.entries[len(repo.entries)-1]
		assert.True(t, repo.credits[emp].VLBalance.Equal(last.BalanceAfter))
		assert.True(t, repo.credits[emp].SLBalance.Equal(d("5")), "SL untouched")
	})

	t.Run("insufficient balance leaves account unchanged", func(t *testing.T) {
		repo := newFakeLedgerRepository()
		emp := uuid.New()
		repo.credits[emp] = &ledger.LeaveCredit{EmployeeID: emp, SLBalance: d("2"), VLBalance: d("0")}
		l := ledger.NewEarnableLedger(repo)

		_, err := l.Deduct(ctx, nil, movement(emp, "SL", "3"))

		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
		assert.Empty(t, repo.entries)
		assert.True(t, repo.credits[emp].SLBalance.Equal(d("2")))
	})

	t.Run("exact balance reaches zero", func(t *testing.T) {
		repo := newFakeLedgerRepository()
		emp := uuid.New()
		repo.credits[emp] = &ledger.LeaveCredit{EmployeeID: emp, SLBalance: d("3"), VLBalance: d("0")}

		res, err := ledger.NewEarnableLedger(repo).Deduct(ctx, nil, movement(emp, "SL", "3"))
		require.NoError(t, err)
		assert.True(t, res.BalanceAfter.IsZero())
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := ledger.NewEarnableLedger(newFakeLedgerRepository()).Deduct(ctx, nil, movement(uuid.New(), "VL", "1"))
		assert.ErrorIs(t, err, ledgererrors.ErrAccountNotFound)
	})

	t.Run("rejects non earnable type", func(t *testing.T) {
		repo := newFakeLedgerRepository()
		_, err := ledger.NewEarnableLedger(repo).Deduct(ctx, nil, movement(uuid.New(), "ML", "1"))
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidLeaveType)
	})

	t.Run("update failure skips entry", func(t *testing.T) {
		repo := newFakeLedgerRepository()
		emp := uuid.New()
		repo.credits[emp] = &ledger.LeaveCredit{EmployeeID: emp, VLBalance: d("10")}
		repo.updateCreditErr = errors.New("connection reset")

		_, err := ledger.NewEarnableLedger(repo).Deduct(ctx, nil, movement(emp, "VL", "1"))
		assert.Error(t, err)
		assert.Empty(t, repo.entries)
	})
}

func TestLedger_InvalidMovement(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewEarnableLedger(newFakeLedgerRepository())

	tests := []struct {
		name string
		m    ledger.Movement
		want error
	}{
		{"nil employee", movement(uuid.Nil, "VL", "1"), ledgererrors.ErrInvalidEmployeeID},
		{"empty type", movement(uuid.New(), " ", "1"), ledgererrors.ErrInvalidLeaveType},
		{"zero amount", movement(uuid.New(), "VL", "0"), ledgererrors.ErrInvalidAmount},
		{"negative amount", movement(uuid.New(), "VL", "-2"), ledgererrors.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Deduct(ctx, nil, tt.m)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAllotmentLedger(t *testing.T) {
	ctx := context.Background()

	setup := func(earned, used string) (*fakeLedgerRepository, uuid.UUID, ledger.Ledger) {
		repo := newFakeLedgerRepository()
		emp := uuid.New()
		e, u := d(earned), d(used)
		repo.balances[balanceKey{emp, "ML", 2024}] = &ledger.LeaveBalance{
			ID: uuid.New(), EmployeeID: emp, LeaveType: "ML", Year: 2024,
			TotalEarned: e, TotalUsed: u, Balance: e.Sub(u),
		}
		return repo, emp, ledger.NewAllotmentLedger(repo)
	}

	t.Run("deduct adds to used", func(t *testing.T) {
		repo, emp, l := setup("10", "2")

		res, err := l.Deduct(ctx, nil, movement(emp, "ml", "3"))
		require.NoError(t, err)
		assert.True(t, res.BalanceBefore.Equal(d("8")))
		assert.True(t, res.BalanceAfter.Equal(d("5")))

		b := repo.balances[balanceKey{emp, "ML", 2024}]
		assert.True(t, b.TotalUsed.Equal(d("5")))
		assert.True(t, b.Balance.Equal(b.TotalEarned.Sub(b.TotalUsed)))
	})

	t.Run("credit returns used days before adding allotment", func(t *testing.T) {
		repo, emp, l := setup("10", "2")

		res, err := l.Credit(ctx, nil, movement(emp, "ML", "3"))
		require.NoError(t, err)
		assert.True(t, res.BalanceAfter.Equal(d("11")))

		b := repo.balances[balanceKey{emp, "ML", 2024}]
		assert.True(t, b.TotalUsed.IsZero())
		assert.True(t, b.TotalEarned.Equal(d("11")))
		assert.True(t, repo.entries[0].PointsCredited.Equal(d("3")))
	})

	t.Run("insufficient allotment", func(t *testing.T) {
		repo, emp, l := setup("5", "4")

		_, err := l.Deduct(ctx, nil, movement(emp, "ML", "2"))
		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
		assert.Empty(t, repo.entries)
	})

	t.Run("balance by year", func(t *testing.T) {
		_, emp, l := setup("7", "1")

		got, err := l.Balance(ctx, nil, emp, "ML", 2024)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("6")))

		_, err = l.Balance(ctx, nil, emp, "ML", 2023)
		assert.ErrorIs(t, err, ledgererrors.ErrAccountNotFound)
	})
}

func TestLedger_BalanceNeverNegative(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepository()
	emp := uuid.New()
	repo.credits[emp] = &ledger.LeaveCredit{EmployeeID: emp, VLBalance: d("6")}
	l := ledger.NewEarnableLedger(repo)

	ops := []struct {
		deduct bool
		amount string
	}{
		{true, "2"}, {true, "5"}, {false, "1"}, {true, "4"}, {true, "1"}, {false, "0.5"}, {true, "2"},
	}
	for _, op := range ops {
		if op.deduct {
			_, _ = l.Deduct(ctx, nil, movement(emp, "VL", op.amount))
		} else {
			_, _ = l.Credit(ctx, nil, movement(emp, "VL", op.amount))
		}
		assert.False(t, repo.credits[emp].VLBalance.IsNegative())
	}

	require.NotEmpty(t, repo.entries)
	for i := 1; i < len(repo.entries); i++ {
		assert.True(t, repo.entries[i].BalanceBefore.Equal(repo.entries[i-1].BalanceAfter), "entry %d", i)
	}
	assert.True(t, repo.credits[emp].VLBalance.Equal(repo.entries[len(repo.entries)-1].BalanceAfter))
}

func TestDispatcher(t *testing.T) {
	repo := newFakeLedgerRepository()
	earnable := ledger.NewEarnableLedger(repo)
	allotment := ledger.NewAllotmentLedger(repo)
	disp := ledger.NewDispatcher(earnable, allotment)

	assert.Same(t, earnable, disp.For("vl"))
	assert.Same(t, earnable, disp.For(" SL "))
	assert.Same(t, allotment, disp.For("ML"))

	emp := uuid.New()
	repo.credits[emp] = &ledger.LeaveCredit{EmployeeID: emp, SLBalance: d("4"), VLBalance: d("4")}
	res, err := disp.Deduct(context.Background(), nil, movement(emp, "SL", "1"))
	require.NoError(t, err)
	assert.True(t, res.BalanceAfter.Equal(d("3")))
}

func TestQueryService_Entries(t *testing.T) {
	repo := newFakeLedgerRepository()
	emp := uuid.New()
	repo.credits[emp] = &ledger.LeaveCredit{EmployeeID: emp, SLBalance: d("4"), VLBalance: d("4")}
	l := ledger.NewEarnableLedger(repo)
	_, err := l.Deduct(context.Background(), nil, movement(emp, "SL", "1"))
	require.NoError(t, err)
	_, err = l.Deduct(context.Background(), nil, movement(emp, "VL", "2"))
	require.NoError(t, err)

	svc := ledger.NewQueryService(repo)

	resp, err := svc.Entries(context.Background(), emp.String(), "vl")
	require.NoError(t, err)
	assert.Equal(t, "VL", resp.LeaveType)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "2", resp.Entries[0].PointsDeducted)
	assert.Equal(t, "2024-03-04", resp.Entries[0].EntryDate)

	resp, err = svc.Entries(context.Background(), emp.String(), "")
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)

	_, err = svc.Entries(context.Background(), "bad", "")
	assert.ErrorIs(t, err, ledgererrors.ErrInvalidEmployeeID)
}

func TestCodes(t *testing.T) {
	assert.True(t, ledger.IsEarnable(" vl"))
	assert.False(t, ledger.IsEarnable("LWOP"))
	assert.False(t, ledger.IsMetered("lwop"))
	assert.True(t, ledger.IsMetered("ML"))
}
