package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/ledger"
	"go-leave/internal/notification"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/workday"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxRejectRemarks = 500

type Service interface {
	Submit(ctx context.Context, actor workflow.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actor workflow.Actor, id, remarks string) (LeaveResponse, error)
	Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	approvals approval.Repository
	guard     approval.Guard
	ledger    ledger.Ledger
	directory employee.Directory
	notifier  notification.Notifier
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	approvals approval.Repository,
	guard approval.Guard,
	ldg ledger.Ledger,
	directory employee.Directory,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		approvals: approvals,
		guard:     guard,
		ledger:    ldg,
		directory: directory,
		notifier:  notifier,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor workflow.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("date_from", req.DateFrom),
		zap.String("date_to", req.DateTo),
	)

	employeeUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	leaveType := ledger.NormalizeCode(req.LeaveType)
	if leaveType == "" || len(leaveType) > 10 {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	dateFrom, err := parseDate(req.DateFrom)
	if err != nil {
		return LeaveResponse{}, err
	}
	dateTo, err := parseDate(req.DateTo)
	if err != nil {
		return LeaveResponse{}, err
	}
	if dateFrom.After(dateTo) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	totalDays := workday.CountBetween(dateFrom, dateTo)
	if totalDays == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoWorkingDays
	}

	profile, err := s.directory.Profile(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Warn("submit leave employee lookup failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.EmployeeID, dateFrom, dateTo, nil)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.EmployeeID),
			zap.String("date_from", req.DateFrom),
			zap.String("date_to", req.DateTo),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &LeaveRequest{
		ID:                  uuid.New(),
		EmployeeID:          employeeUUID,
		LeaveType:           leaveType,
		DateFrom:            dateFrom,
		DateTo:              dateTo,
		TotalDays:           totalDays,
		Reason:              req.Reason,
		Status:              workflow.LeaveTable.Initial(),
		SubmitterIsDeptHead: profile.IsDepartmentHead,
		RescheduleHistory:   History{},
	}
	if profile.DepartmentID != "" {
		if dep, err := uuid.Parse(profile.DepartmentID); err == nil {
			l.DepartmentID = &dep
		}
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.notifier.Notify(ctx, tx, s.transition(*l, "")); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.Int("total_days", totalDays),
		zap.Bool("submitter_is_dept_head", l.SubmitterIsDeptHead),
	)

	return mapToResponse(*l, nil), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	rows, err := s.approvals.FindByRequest(ctx, approval.RequestTypeLeave, l.ID)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, rows), nil
}

func (s *service) Approve(ctx context.Context, actor workflow.Actor, id, remarks string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, workflow.DecisionApproved, strings.TrimSpace(remarks))
}

func (s *service) Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (LeaveResponse, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return LeaveResponse{}, apperror.RequiredField("Remarks")
	}
	if len([]rune(remarks)) > MaxRejectRemarks {
		return LeaveResponse{}, apperror.TooLongField("Remarks", MaxRejectRemarks)
	}
	return s.decide(ctx, actor, id, workflow.DecisionRejected, remarks)
}

// approverDepartment is only needed for the department match on dept_head
// decisions. It reads through the directory cache.
func (s *service) approverDepartment(ctx context.Context, role workflow.Role, approverID string) (string, error) {
	if role != workflow.RoleDeptHead {
		return "", nil
	}
	approver, err := s.directory.Profile(ctx, approverID)
	if err != nil {
		return "", err
	}
	return approver.DepartmentID, nil
}

func (s *service) decide(ctx context.Context, actor workflow.Actor, id string, decision workflow.Decision, remarks string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave decision requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("role", actor.Role),
		zap.String("decision", string(decision)),
	)

	role, err := workflow.ParseRole(actor.Role)
	if err != nil {
		return LeaveResponse{}, err
	}
	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	approverUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	approverDep, err := s.approverDepartment(ctx, role, actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave decision begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	prior := l.Status

	parties := approval.Parties{
		SubmitterID:  l.EmployeeID.String(),
		SubmitterDep: l.departmentID(),
		ApproverID:   actor.EmployeeID,
		ApproverDep:  approverDep,
	}
	if err := approval.Authorize(role, parties); err != nil {
		s.logger.Warn("leave decision not authorized",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	next, err := workflow.LeaveTable.Next(prior, role, decision, workflow.SubmitterOf(l.SubmitterIsDeptHead))
	if err != nil {
		s.logger.Warn("leave decision rejected by stage",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("role", string(role)),
			zap.String("prior_status", string(prior)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	_, err = s.guard.RecordDecision(ctx, tx, approval.Decision{
		RequestType: approval.RequestTypeLeave,
		RequestID:   leaveUUID,
		Role:        role,
		Decision:    decision,
		ApproverID:  approverUUID,
		Remarks:     remarks,
		FromStage:   string(prior),
		ToStage:     string(next),
	}, func(ctx context.Context) (bool, error) {
		return qtx.AdvanceStage(ctx, id, prior, next)
	})
	if err != nil {
		return LeaveResponse{}, err
	}
	l.Status = next

	if next == workflow.LeaveApproved && ledger.IsMetered(l.LeaveType) {
		res, err := s.ledger.Deduct(ctx, tx, ledger.Movement{
			EmployeeID:    l.EmployeeID,
			LeaveType:     l.LeaveType,
			Amount:        decimal.NewFromInt(int64(l.TotalDays)),
			Date:          l.DateFrom,
			Remarks:       fmt.Sprintf("leave %s to %s approved", l.DateFrom.Format(workday.DateLayout), l.DateTo.Format(workday.DateLayout)),
			ReferenceType: ledger.ReferenceLeaveRequest,
			ReferenceID:   l.ID,
		})
		if err != nil {
			s.logger.Warn("leave deduction failed",
				zap.String("request_id", rid),
				zap.String("leave_id", id),
				zap.String("leave_type", l.LeaveType),
				zap.Int("total_days", l.TotalDays),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
		s.logger.Info("leave deducted",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("balance_after", res.BalanceAfter.String()),
		)
	}

	if err := s.notifier.Notify(ctx, tx, s.transition(*l, remarks)); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave decision commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("leave decision success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("role", string(role)),
		zap.String("from_status", string(prior)),
		zap.String("to_status", string(next)),
	)

	rows, err := s.approvals.FindByRequest(ctx, approval.RequestTypeLeave, l.ID)
	if err != nil {
		s.logger.Warn("load approvals after commit failed", zap.String("request_id", rid), zap.Error(err))
	}
	return mapToResponse(*l, rows), nil
}

func (s *service) transition(l LeaveRequest, remarks string) notification.Transition {
	next, _ := workflow.LeaveTable.Actor(l.Status)
	return notification.Transition{
		AggregateType: events.AggregateLeaveRequest,
		RequestID:     l.ID.String(),
		SubmitterID:   l.EmployeeID.String(),
		Status:        string(l.Status),
		LeaveType:     l.LeaveType,
		DateFrom:      l.DateFrom.Format(workday.DateLayout),
		DateTo:        l.DateTo.Format(workday.DateLayout),
		Remarks:       remarks,
		NextActor:     next,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func parseDate(v string) (time.Time, error) {
	t, err := workday.Parse(v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest, approvals []approval.Approval) LeaveResponse {
	resp := LeaveResponse{
		ID:                  l.ID.String(),
		EmployeeID:          l.EmployeeID.String(),
		DepartmentID:        l.departmentID(),
		LeaveType:           l.LeaveType,
		DateFrom:            l.DateFrom.Format(workday.DateLayout),
		DateTo:              l.DateTo.Format(workday.DateLayout),
		TotalDays:           l.TotalDays,
		Reason:              l.Reason,
		Status:              string(l.Status),
		SubmitterIsDeptHead: l.SubmitterIsDeptHead,
		RescheduleDates:     l.RescheduleDates,
		RescheduleHistory:   l.RescheduleHistory,
	}
	if l.RescheduledAt != nil {
		v := l.RescheduledAt.Format(time.RFC3339)
		resp.RescheduledAt = &v
	}
	for _, a := range approvals {
		resp.Approvals = append(resp.Approvals, ApprovalResponse{
			Role:       string(a.Role),
			Status:     string(a.Status),
			ApproverID: a.ApproverID.String(),
			Remarks:    a.Remarks,
			ApprovedAt: a.ApprovedAt.Format(time.RFC3339),
		})
	}
	return resp
}

// ToResponse maps a request without its approval rows.
func ToResponse(l LeaveRequest) LeaveResponse {
	return mapToResponse(l, nil)
}
