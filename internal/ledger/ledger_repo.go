package ledger

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockCredit(ctx context.Context, employeeID uuid.UUID) (*LeaveCredit, error)
	UpdateCredit(ctx context.Context, employeeID uuid.UUID, code string, balance decimal.Decimal) error
	LockBalance(ctx context.Context, employeeID uuid.UUID, code string, year int) (*LeaveBalance, error)
	UpdateBalance(ctx context.Context, b *LeaveBalance) error
	AppendEntry(ctx context.Context, e *Entry) error
	FindEntries(ctx context.Context, employeeID uuid.UUID, code string) ([]Entry, error)
	FindCredit(ctx context.Context, employeeID uuid.UUID) (*LeaveCredit, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: database.Bind(r.db, tx)}
}

func (r *repository) LockCredit(ctx context.Context, employeeID uuid.UUID) (*LeaveCredit, error) {
	var c LeaveCredit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		First(&c).Error
	return &c, err
}

func (r *repository) FindCredit(ctx context.Context, employeeID uuid.UUID) (*LeaveCredit, error) {
	var c LeaveCredit
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&c).Error
	return &c, err
}

func (r *repository) UpdateCredit(ctx context.Context, employeeID uuid.UUID, code string, balance decimal.Decimal) error {
	column := "vl_balance"
	if code == CodeSL {
		column = "sl_balance"
	}
	return r.db.WithContext(ctx).
		Model(&LeaveCredit{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]any{
			column:       balance,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) LockBalance(ctx context.Context, employeeID uuid.UUID, code string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", code).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) UpdateBalance(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"total_earned": b.TotalEarned,
			"total_used":   b.TotalUsed,
			"balance":      b.Balance,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *repository) AppendEntry(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindEntries(ctx context.Context, employeeID uuid.UUID, code string) ([]Entry, error) {
	var entries []Entry
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if code != "" {
		q = q.Where("leave_type = ?", code)
	}
	err := q.Order("created_at ASC").Find(&entries).Error
	return entries, err
}
