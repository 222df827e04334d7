package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-leave/internal/shared/database"
	"go-leave/internal/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	AdvanceStage(ctx context.Context, id string, from, to workflow.LeaveStage) (bool, error)
	ApplyReschedule(ctx context.Context, id string, expected workflow.LeaveStage, change RescheduleChange) (bool, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, dateFrom, dateTo time.Time, excludeID *string) (bool, error)
}

// RescheduleChange is the new date state of an approved request plus the
// history record describing the move.
type RescheduleChange struct {
	DateFrom  time.Time
	DateTo    time.Time
	TotalDays int
	Dates     DateList
	Record    HistoryRecord
	At        time.Time
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

// AdvanceStage only moves the row if it is still at from.
func (r *repository) AdvanceStage(ctx context.Context, id string, from, to workflow.LeaveStage) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected == 1, res.Error
}

// ApplyReschedule rewrites the date fields of an approved request and appends
// to reschedule_history inside the same statement.
func (r *repository) ApplyReschedule(ctx context.Context, id string, expected workflow.LeaveStage, change RescheduleChange) (bool, error) {
	record, err := json.Marshal([]HistoryRecord{change.Record})
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(map[string]any{
			"date_from":          change.DateFrom,
			"date_to":            change.DateTo,
			"total_days":         change.TotalDays,
			"reschedule_dates":   change.Dates,
			"reschedule_history": gorm.Expr("COALESCE(reschedule_history, '[]'::jsonb) || ?::jsonb", string(record)),
			"status":             workflow.LeaveRescheduled,
			"rescheduled_at":     change.At,
			"updated_at":         change.At,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, dateFrom, dateTo time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", workflow.LeaveRejected).
		Where("NOT (date_to < ? OR date_from > ?)", dateFrom, dateTo)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
