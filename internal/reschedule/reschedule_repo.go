package reschedule

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/database"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *RescheduleRequest) error
	FindByID(ctx context.Context, id string) (*RescheduleRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*RescheduleRequest, error)
	HasPending(ctx context.Context, leaveRequestID uuid.UUID) (bool, error)
	AdvanceStage(ctx context.Context, id string, from, to workflow.RescheduleStage, stamp Stamp) (bool, error)
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

func (r *repository) Create(ctx context.Context, req *RescheduleRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*RescheduleRequest, error) {
	var req RescheduleRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*RescheduleRequest, error) {
	var req RescheduleRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) HasPending(ctx context.Context, leaveRequestID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RescheduleRequest{}).
		Where("leave_request_id = ? AND status = ?", leaveRequestID, workflow.ReschedulePendingDeptHead).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) AdvanceStage(ctx context.Context, id string, from, to workflow.RescheduleStage, stamp Stamp) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&RescheduleRequest{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(map[string]any{
			"status":        to,
			"approved_by":   stamp.ApproverID,
			"approver_role": string(stamp.Role),
			"approved_at":   stamp.At,
			"remarks":       stamp.Remarks,
			"updated_at":    stamp.At,
		})
	return res.RowsAffected == 1, res.Error
}
