package creditconversion

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/database"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *CreditConversion) error
	FindByID(ctx context.Context, id string) (*CreditConversion, error)
	FindByIDForUpdate(ctx context.Context, id string) (*CreditConversion, error)
	SumConverted(ctx context.Context, employeeID uuid.UUID, year int) (decimal.Decimal, error)
	RecordReview(ctx context.Context, id string, from, to workflow.ConversionStage, review Review) (bool, error)
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

func (r *repository) Create(ctx context.Context, c *CreditConversion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*CreditConversion, error) {
	var c CreditConversion
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*CreditConversion, error) {
	var c CreditConversion
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) SumConverted(ctx context.Context, employeeID uuid.UUID, year int) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&CreditConversion{}).
		Select("COALESCE(SUM(effective_credits), 0)").
		Where("employee_id = ? AND year = ? AND status = ?", employeeID, year, workflow.ConversionAdminApproved).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// RecordReview stamps the role's reviewer columns and moves the stage in one
// statement. It matches nothing once the stage moved or the role already
// reviewed.
func (r *repository) RecordReview(ctx context.Context, id string, from, to workflow.ConversionStage, review Review) (bool, error) {
	byCol, atCol := reviewerColumns(review.Role)
	if byCol == "" {
		return false, workflow.ErrUnknownRole
	}

	updates := map[string]any{
		"status":     to,
		byCol:        review.ApproverID,
		atCol:        review.At,
		"updated_at": time.Now().UTC(),
	}
	if review.Rejected {
		updates["rejected_by_role"] = string(review.Role)
		updates["remarks"] = review.Remarks
	}

	res := r.db.WithContext(ctx).
		Model(&CreditConversion{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Where(byCol + " IS NULL").
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}
