package reschedule

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
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/ledger"
	"go-leave/internal/notification"
	rescheduleerrors "go-leave/internal/reschedule/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/workday"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxRemarks = 1000

type Service interface {
	Submit(ctx context.Context, actor workflow.Actor, req SubmitRescheduleRequest) (RescheduleResponse, error)
	GetByID(ctx context.Context, id string) (RescheduleResponse, error)
	Approve(ctx context.Context, actor workflow.Actor, id, remarks string) (RescheduleResponse, error)
	Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (RescheduleResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	leaves    leave.Repository
	approvals approval.Repository
	guard     approval.Guard
	ledger    ledger.Ledger
	directory employee.Directory
	notifier  notification.Notifier
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaves leave.Repository,
	approvals approval.Repository,
	guard approval.Guard,
	ldg ledger.Ledger,
	directory employee.Directory,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("reschedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reschedule.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		leaves:    leaves,
		approvals: approvals,
		guard:     guard,
		ledger:    ldg,
		directory: directory,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor workflow.Actor, req SubmitRescheduleRequest) (RescheduleResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit reschedule requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("leave_id", req.LeaveRequestID),
		zap.Strings("proposed_dates", req.ProposedDates),
	)

	employeeUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return RescheduleResponse{}, rescheduleerrors.ErrInvalidActorID
	}
	leaveUUID, err := uuid.Parse(req.LeaveRequestID)
	if err != nil {
		return RescheduleResponse{}, rescheduleerrors.ErrInvalidLeaveID
	}
	out, err := Reconcile(req.ProposedDates)
	if err != nil {
		return RescheduleResponse{}, err
	}
	if out.WorkingDays == 0 {
		return RescheduleResponse{}, rescheduleerrors.ErrNoWorkingDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit reschedule begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RescheduleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.leaves.WithTx(tx).FindByID(ctx, req.LeaveRequestID)
	if err != nil {
		return RescheduleResponse{}, mapLeaveNotFound(err)
	}
	if l.EmployeeID != employeeUUID {
		s.logger.Warn("submit reschedule by non owner",
			zap.String("request_id", rid),
			zap.String("leave_id", req.LeaveRequestID),
			zap.String("actor_id", actor.EmployeeID),
		)
		return RescheduleResponse{}, rescheduleerrors.ErrNotOwner
	}
	if !workflow.CanReschedule(l.Status) {
		return RescheduleResponse{}, fmt.Errorf("%w: leave is %s", rescheduleerrors.ErrLeaveNotReschedulable, l.Status)
	}
	pending, err := qtx.HasPending(ctx, leaveUUID)
	if err != nil {
		return RescheduleResponse{}, err
	}
	if pending {
		return RescheduleResponse{}, rescheduleerrors.ErrPendingReschedule
	}

	r := &RescheduleRequest{
		ID:             uuid.New(),
		LeaveRequestID: leaveUUID,
		EmployeeID:     employeeUUID,
		DepartmentID:   l.DepartmentID,
		ProposedDates:  out.Dates,
		Reason:         req.Reason,
		Status:         workflow.RescheduleTable.Initial(),
	}
	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("submit reschedule persist failed", zap.String("request_id", rid), zap.Error(err))
		return RescheduleResponse{}, err
	}
	if err := s.notifier.Notify(ctx, tx, transition(*r, l.LeaveType, out, "")); err != nil {
		return RescheduleResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("submit reschedule commit failed", zap.String("request_id", rid), zap.Error(err))
		return RescheduleResponse{}, err
	}

	s.logger.Info("submit reschedule success",
		zap.String("request_id", rid),
		zap.String("reschedule_id", r.ID.String()),
		zap.String("leave_id", req.LeaveRequestID),
		zap.Int("working_days", out.WorkingDays),
	)
	return mapToResponse(*r, nil), nil
}

func (s *service) GetByID(ctx context.Context, id string) (RescheduleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RescheduleResponse{}, rescheduleerrors.ErrInvalidRescheduleID
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RescheduleResponse{}, mapNotFound(err)
	}
	return mapToResponse(*r, nil), nil
}

func (s *service) Approve(ctx context.Context, actor workflow.Actor, id, remarks string) (RescheduleResponse, error) {
	remarks = strings.TrimSpace(remarks)
	if len([]rune(remarks)) > MaxRemarks {
		return RescheduleResponse{}, apperror.TooLongField("Remarks", MaxRemarks)
	}
	return s.decide(ctx, actor, id, workflow.DecisionApproved, remarks)
}

func (s *service) Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (RescheduleResponse, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return RescheduleResponse{}, apperror.RequiredField("Remarks")
	}
	if len([]rune(remarks)) > MaxRemarks {
		return RescheduleResponse{}, apperror.TooLongField("Remarks", MaxRemarks)
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

func (s *service) decide(ctx context.Context, actor workflow.Actor, id string, decision workflow.Decision, remarks string) (RescheduleResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("reschedule decision requested",
		zap.String("request_id", rid),
		zap.String("reschedule_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("role", actor.Role),
		zap.String("decision", string(decision)),
	)

	role, err := workflow.ParseRole(actor.Role)
	if err != nil {
		return RescheduleResponse{}, err
	}
	rescheduleUUID, err := uuid.Parse(id)
	if err != nil {
		return RescheduleResponse{}, rescheduleerrors.ErrInvalidRescheduleID
	}
	approverUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return RescheduleResponse{}, rescheduleerrors.ErrInvalidActorID
	}

	approverDep, err := s.approverDepartment(ctx, role, actor.EmployeeID)
	if err != nil {
		return RescheduleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reschedule decision begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RescheduleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	r, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return RescheduleResponse{}, mapNotFound(err)
	}
	prior := r.Status

	parties := approval.Parties{
		SubmitterID:  r.EmployeeID.String(),
		SubmitterDep: r.departmentID(),
		ApproverID:   actor.EmployeeID,
		ApproverDep:  approverDep,
	}
	if err := approval.Authorize(role, parties); err != nil {
		s.logger.Warn("reschedule decision not authorized",
			zap.String("request_id", rid),
			zap.String("reschedule_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return RescheduleResponse{}, err
	}

	next, err := workflow.RescheduleTable.Next(prior, role, decision, workflow.SubmitterAny)
	if err != nil {
		s.logger.Warn("reschedule decision rejected by stage",
			zap.String("request_id", rid),
			zap.String("reschedule_id", id),
			zap.String("role", string(role)),
			zap.String("prior_status", string(prior)),
			zap.Error(err),
		)
		return RescheduleResponse{}, err
	}

	stamp := Stamp{ApproverID: approverUUID, Role: role, At: s.now(), Remarks: remarks}
	_, err = s.guard.RecordDecision(ctx, tx, approval.Decision{
		RequestType: approval.RequestTypeReschedule,
		RequestID:   rescheduleUUID,
		Role:        role,
		Decision:    decision,
		ApproverID:  approverUUID,
		Remarks:     remarks,
		FromStage:   string(prior),
		ToStage:     string(next),
	}, func(ctx context.Context) (bool, error) {
		return qtx.AdvanceStage(ctx, id, prior, next, stamp)
	})
	if err != nil {
		return RescheduleResponse{}, err
	}
	applyStamp(r, stamp, next)

	out, err := Reconcile(r.ProposedDates)
	if err != nil {
		return RescheduleResponse{}, err
	}

	var updated *leave.LeaveRequest
	leaveType := ""
	if next == workflow.RescheduleApproved {
		updated, err = s.reconcile(ctx, tx, *r, out, stamp)
		if err != nil {
			return RescheduleResponse{}, err
		}
		leaveType = updated.LeaveType
	}

	if err := s.notifier.Notify(ctx, tx, transition(*r, leaveType, out, remarks)); err != nil {
		return RescheduleResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("reschedule decision commit failed", zap.String("request_id", rid), zap.Error(err))
		return RescheduleResponse{}, err
	}

	s.logger.Info("reschedule decision success",
		zap.String("request_id", rid),
		zap.String("reschedule_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("from_status", string(prior)),
		zap.String("to_status", string(next)),
	)
	return mapToResponse(*r, updated), nil
}

// reconcile rewrites the original leave, settles the working-day difference on
// the ledger and annotates the leave's approval rows.
func (s *service) reconcile(ctx context.Context, tx *sql.Tx, r RescheduleRequest, out Outcome, stamp Stamp) (*leave.LeaveRequest, error) {
	rid := contextutil.GetRequestID(ctx)
	ltx := s.leaves.WithTx(tx)

	l, err := ltx.FindByIDForUpdate(ctx, r.LeaveRequestID.String())
	if err != nil {
		return nil, mapLeaveNotFound(err)
	}
	if !workflow.CanReschedule(l.Status) {
		return nil, fmt.Errorf("%w: leave is %s", rescheduleerrors.ErrLeaveNotReschedulable, l.Status)
	}

	record := HistoryFor(*l, r, out, stamp)
	ok, err := ltx.ApplyReschedule(ctx, l.ID.String(), l.Status, leave.RescheduleChange{
		DateFrom:  out.DateFrom,
		DateTo:    out.DateTo,
		TotalDays: out.WorkingDays,
		Dates:     out.Dates,
		Record:    record,
		At:        stamp.At,
	})
	if err != nil {
		s.logger.Error("apply reschedule failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: leave %s changed during reschedule", workflow.ErrNotInStage, l.ID)
	}

	delta := out.WorkingDays - l.TotalDays
	if delta != 0 && ledger.IsMetered(l.LeaveType) {
		m := ledger.Movement{
			EmployeeID:    l.EmployeeID,
			LeaveType:     l.LeaveType,
			Amount:        decimal.NewFromInt(int64(abs(delta))),
			Date:          out.DateFrom,
			Remarks:       fmt.Sprintf("reschedule %s: %d to %d working days", r.ID, l.TotalDays, out.WorkingDays),
			ReferenceType: ledger.ReferenceReschedule,
			ReferenceID:   r.ID,
		}
		var res ledger.Result
		if delta > 0 {
			res, err = s.ledger.Deduct(ctx, tx, m)
		} else {
			res, err = s.ledger.Credit(ctx, tx, m)
		}
		if err != nil {
			s.logger.Warn("reschedule ledger adjustment failed",
				zap.String("request_id", rid),
				zap.String("leave_id", l.ID.String()),
				zap.Int("delta", delta),
				zap.Error(err),
			)
			return nil, err
		}
		s.logger.Info("reschedule ledger adjusted",
			zap.String("request_id", rid),
			zap.String("leave_id", l.ID.String()),
			zap.Int("delta", delta),
			zap.String("balance_after", res.BalanceAfter.String()),
		)
	}

	note := fmt.Sprintf("[rescheduled %s to %s on %s]",
		out.DateFrom.Format(workday.DateLayout),
		out.DateTo.Format(workday.DateLayout),
		stamp.At.Format(workday.DateLayout),
	)
	if _, err := s.approvals.WithTx(tx).AppendRemarks(ctx, approval.RequestTypeLeave, l.ID, note); err != nil {
		s.logger.Error("annotate leave approvals failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}

	l.DateFrom, l.DateTo, l.TotalDays = out.DateFrom, out.DateTo, out.WorkingDays
	l.RescheduleDates = out.Dates
	l.RescheduleHistory = append(l.RescheduleHistory, record)
	l.Status = workflow.LeaveRescheduled
	at := stamp.At
	l.RescheduledAt = &at
	return l, nil
}

func applyStamp(r *RescheduleRequest, st Stamp, next workflow.RescheduleStage) {
	by, at, role := st.ApproverID, st.At, string(st.Role)
	r.ApprovedBy, r.ApprovedAt, r.ApproverRole = &by, &at, &role
	r.Remarks = st.Remarks
	r.Status = next
}

func transition(r RescheduleRequest, leaveType string, out Outcome, remarks string) notification.Transition {
	next, _ := workflow.RescheduleTable.Actor(r.Status)
	return notification.Transition{
		AggregateType: events.AggregateRescheduleRequest,
		RequestID:     r.ID.String(),
		SubmitterID:   r.EmployeeID.String(),
		Status:        string(r.Status),
		LeaveType:     leaveType,
		DateFrom:      out.DateFrom.Format(workday.DateLayout),
		DateTo:        out.DateTo.Format(workday.DateLayout),
		Remarks:       remarks,
		NextActor:     next,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rescheduleerrors.ErrRescheduleNotFound
	}
	return err
}

func mapLeaveNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func mapToResponse(r RescheduleRequest, l *leave.LeaveRequest) RescheduleResponse {
	resp := RescheduleResponse{
		ID:             r.ID.String(),
		LeaveRequestID: r.LeaveRequestID.String(),
		EmployeeID:     r.EmployeeID.String(),
		DepartmentID:   r.departmentID(),
		ProposedDates:  r.ProposedDates,
		Reason:         r.Reason,
		Status:         string(r.Status),
		Remarks:        r.Remarks,
	}
	if r.ApprovedBy != nil {
		resp.ApprovedBy = r.ApprovedBy.String()
	}
	if r.ApproverRole != nil {
		resp.ApproverRole = *r.ApproverRole
	}
	if r.ApprovedAt != nil {
		resp.ApprovedAt = r.ApprovedAt.Format(time.RFC3339)
	}
	if l != nil {
		lr := leave.ToResponse(*l)
		resp.Leave = &lr
	}
	return resp
}
