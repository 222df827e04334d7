package approval

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/database"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Approval) error
	ExistsForRole(ctx context.Context, requestType string, requestID uuid.UUID, role workflow.Role) (bool, error)
	FindByRequest(ctx context.Context, requestType string, requestID uuid.UUID) ([]Approval, error)
	AppendRemarks(ctx context.Context, requestType string, requestID uuid.UUID, note string) (int64, error)
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

func (r *repository) Create(ctx context.Context, a *Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ExistsForRole(ctx context.Context, requestType string, requestID uuid.UUID, role workflow.Role) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Approval{}).
		Where("request_type = ?", requestType).
		Where("request_id = ?", requestID).
		Where("role = ?", role).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByRequest(ctx context.Context, requestType string, requestID uuid.UUID) ([]Approval, error) {
	var rows []Approval
	err := r.db.WithContext(ctx).
		Where("request_type = ?", requestType).
		Where("request_id = ?", requestID).
		Order("approved_at ASC").
		Find(&rows).Error
	return rows, err
}

// AppendRemarks annotates existing rows; approver and timestamp stay as recorded.
func (r *repository) AppendRemarks(ctx context.Context, requestType string, requestID uuid.UUID, note string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Approval{}).
		Where("request_type = ?", requestType).
		Where("request_id = ?", requestID).
		Update("remarks", gorm.Expr("CONCAT_WS(' ', NULLIF(remarks, ''), ?::text)", note))
	return res.RowsAffected, res.Error
}
