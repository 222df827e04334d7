package creditconversion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/approval"
	creditconversionerrors "go-leave/internal/creditconversion/errors"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/ledger"
	"go-leave/internal/notification"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxRejectRemarks = 500

type Service interface {
	Submit(ctx context.Context, actor workflow.Actor, req SubmitConversionRequest) (ConversionResponse, error)
	GetByID(ctx context.Context, id string) (ConversionResponse, error)
	Approve(ctx context.Context, actor workflow.Actor, id string) (ConversionResponse, error)
	Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (ConversionResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    ledger.Ledger
	directory employee.Directory
	notifier  notification.Notifier
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ldg ledger.Ledger,
	directory employee.Directory,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("creditconversion.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("creditconversion.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ldg,
		directory: directory,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor workflow.Actor, req SubmitConversionRequest) (ConversionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit credit conversion requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Float64("credits_requested", req.CreditsRequested),
	)

	employeeUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return ConversionResponse{}, creditconversionerrors.ErrInvalidActorID
	}
	requested := decimal.NewFromFloat(req.CreditsRequested)
	if !requested.IsPositive() {
		return ConversionResponse{}, creditconversionerrors.ErrInvalidCredits
	}
	leaveType := ledger.NormalizeCode(req.LeaveType)
	if leaveType != ledger.CodeVL {
		return ConversionResponse{}, creditconversionerrors.ErrNotConvertible
	}
	now := s.now()
	year := now.Year()

	profile, err := s.directory.Profile(ctx, actor.EmployeeID)
	if err != nil {
		return ConversionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit credit conversion begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	balance, err := s.ledger.Balance(ctx, tx, employeeUUID, leaveType, year)
	if err != nil {
		s.logger.Warn("submit credit conversion balance lookup failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}
	converted, err := qtx.SumConverted(ctx, employeeUUID, year)
	if err != nil {
		s.logger.Error("submit credit conversion quota lookup failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}

	effective, err := Evaluate(Eligibility{
		LeaveType: leaveType,
		Requested: requested,
		Balance:   balance,
		Converted: converted,
	})
	if err != nil {
		s.logger.Warn("credit conversion not eligible",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.EmployeeID),
			zap.String("balance", balance.String()),
			zap.String("converted", converted.String()),
			zap.String("requested", requested.String()),
			zap.Error(err),
		)
		return ConversionResponse{}, err
	}

	salary, err := s.directory.MonthlySalary(ctx, tx, actor.EmployeeID, now)
	if err != nil {
		return ConversionResponse{}, err
	}

	c := &CreditConversion{
		ID:               uuid.New(),
		EmployeeID:       employeeUUID,
		LeaveType:        leaveType,
		CreditsRequested: requested,
		EffectiveCredits: effective,
		MonthlySalary:    salary,
		CashAmount:       CashValue(salary, effective),
		Year:             year,
		Status:           workflow.ConversionTable.Initial(),
	}
	if profile.DepartmentID != "" {
		if dep, err := uuid.Parse(profile.DepartmentID); err == nil {
			c.DepartmentID = &dep
		}
	}

	if err := qtx.Create(ctx, c); err != nil {
		s.logger.Error("submit credit conversion persist failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}
	if err := s.notifier.Notify(ctx, tx, transition(*c, "")); err != nil {
		return ConversionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("submit credit conversion commit failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}

	s.logger.Info("submit credit conversion success",
		zap.String("request_id", rid),
		zap.String("conversion_id", c.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.String("effective_credits", effective.String()),
		zap.String("cash_amount", c.CashAmount.String()),
	)
	return mapToResponse(*c), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ConversionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ConversionResponse{}, creditconversionerrors.ErrInvalidConversionID
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ConversionResponse{}, mapNotFound(err)
	}
	return mapToResponse(*c), nil
}

func (s *service) Approve(ctx context.Context, actor workflow.Actor, id string) (ConversionResponse, error) {
	return s.decide(ctx, actor, id, workflow.DecisionApproved, "")
}

func (s *service) Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (ConversionResponse, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return ConversionResponse{}, apperror.RequiredField("Remarks")
	}
	if len([]rune(remarks)) > MaxRejectRemarks {
		return ConversionResponse{}, apperror.TooLongField("Remarks", MaxRejectRemarks)
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

func (s *service) decide(ctx context.Context, actor workflow.Actor, id string, decision workflow.Decision, remarks string) (ConversionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("credit conversion decision requested",
		zap.String("request_id", rid),
		zap.String("conversion_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("role", actor.Role),
		zap.String("decision", string(decision)),
	)

	role, err := workflow.ParseRole(actor.Role)
	if err != nil {
		return ConversionResponse{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return ConversionResponse{}, creditconversionerrors.ErrInvalidConversionID
	}
	approverUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return ConversionResponse{}, creditconversionerrors.ErrInvalidActorID
	}

	approverDep, err := s.approverDepartment(ctx, role, actor.EmployeeID)
	if err != nil {
		return ConversionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("credit conversion decision begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return ConversionResponse{}, mapNotFound(err)
	}
	prior := c.Status

	parties := approval.Parties{
		SubmitterID:  c.EmployeeID.String(),
		SubmitterDep: c.departmentID(),
		ApproverID:   actor.EmployeeID,
		ApproverDep:  approverDep,
	}
	if err := approval.Authorize(role, parties); err != nil {
		s.logger.Warn("credit conversion decision not authorized",
			zap.String("request_id", rid),
			zap.String("conversion_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return ConversionResponse{}, err
	}

	next, err := workflow.ConversionTable.Next(prior, role, decision, workflow.SubmitterAny)
	if err != nil {
		s.logger.Warn("credit conversion decision rejected by stage",
			zap.String("request_id", rid),
			zap.String("conversion_id", id),
			zap.String("role", string(role)),
			zap.String("prior_status", string(prior)),
			zap.Error(err),
		)
		return ConversionResponse{}, err
	}

	review := Review{
		Role:       role,
		ApproverID: approverUUID,
		At:         s.now(),
		Rejected:   decision == workflow.DecisionRejected,
		Remarks:    remarks,
	}
	ok, err := qtx.RecordReview(ctx, id, prior, next, review)
	if err != nil {
		s.logger.Error("credit conversion review persist failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}
	if !ok {
		return ConversionResponse{}, fmt.Errorf("%w: %s no longer %s or already reviewed by %s", workflow.ErrNotInStage, id, prior, role)
	}
	applyReview(c, review, next)

	if next == workflow.ConversionAdminApproved {
		res, err := s.ledger.Deduct(ctx, tx, ledger.Movement{
			EmployeeID:    c.EmployeeID,
			LeaveType:     c.LeaveType,
			Amount:        c.EffectiveCredits,
			Date:          review.At,
			Remarks:       fmt.Sprintf("credit conversion of %s credits, cash %s", c.EffectiveCredits, c.CashAmount.StringFixed(2)),
			ReferenceType: ledger.ReferenceCreditConversion,
			ReferenceID:   c.ID,
		})
		if err != nil {
			s.logger.Warn("credit conversion deduction failed",
				zap.String("request_id", rid),
				zap.String("conversion_id", id),
				zap.String("effective_credits", c.EffectiveCredits.String()),
				zap.Error(err),
			)
			return ConversionResponse{}, err
		}
		s.logger.Info("credit conversion deducted",
			zap.String("request_id", rid),
			zap.String("conversion_id", id),
			zap.String("balance_before", res.BalanceBefore.String()),
			zap.String("balance_after", res.BalanceAfter.String()),
		)
	}

	if err := s.notifier.Notify(ctx, tx, transition(*c, remarks)); err != nil {
		return ConversionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("credit conversion decision commit failed", zap.String("request_id", rid), zap.Error(err))
		return ConversionResponse{}, err
	}

	s.logger.Info("credit conversion decision success",
		zap.String("request_id", rid),
		zap.String("conversion_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("role", string(role)),
		zap.String("from_status", string(prior)),
		zap.String("to_status", string(next)),
	)
	return mapToResponse(*c), nil
}

func applyReview(c *CreditConversion, r Review, next workflow.ConversionStage) {
	by, at := r.ApproverID, r.At
	switch r.Role {
	case workflow.RoleHR:
		c.HRApprovedBy, c.HRApprovedAt = &by, &at
	case workflow.RoleDeptHead:
		c.DeptHeadApprovedBy, c.DeptHeadApprovedAt = &by, &at
	case workflow.RoleAdmin:
		c.AdminApprovedBy, c.AdminApprovedAt = &by, &at
	}
	if r.Rejected {
		role := string(r.Role)
		c.RejectedByRole = &role
		c.Remarks = r.Remarks
	}
	c.Status = next
}

func transition(c CreditConversion, remarks string) notification.Transition {
	next, _ := workflow.ConversionTable.Actor(c.Status)
	return notification.Transition{
		AggregateType: events.AggregateCreditConversion,
		RequestID:     c.ID.String(),
		SubmitterID:   c.EmployeeID.String(),
		Status:        string(c.Status),
		LeaveType:     c.LeaveType,
		Remarks:       remarks,
		NextActor:     next,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return creditconversionerrors.ErrConversionNotFound
	}
	return err
}

func reviewOf(by *uuid.UUID, at *time.Time) *ReviewResponse {
	if by == nil {
		return nil
	}
	r := &ReviewResponse{ApproverID: by.String()}
	if at != nil {
		r.At = at.Format(time.RFC3339)
	}
	return r
}

func mapToResponse(c CreditConversion) ConversionResponse {
	resp := ConversionResponse{
		ID:               c.ID.String(),
		EmployeeID:       c.EmployeeID.String(),
		DepartmentID:     c.departmentID(),
		LeaveType:        c.LeaveType,
		CreditsRequested: c.CreditsRequested.String(),
		EffectiveCredits: c.EffectiveCredits.String(),
		MonthlySalary:    c.MonthlySalary.StringFixed(2),
		CashAmount:       c.CashAmount.StringFixed(2),
		Year:             c.Year,
		Status:           string(c.Status),
		HRReview:         reviewOf(c.HRApprovedBy, c.HRApprovedAt),
		DeptHeadReview:   reviewOf(c.DeptHeadApprovedBy, c.DeptHeadApprovedAt),
		AdminReview:      reviewOf(c.AdminApprovedBy, c.AdminApprovedAt),
		Remarks:          c.Remarks,
	}
	if c.RejectedByRole != nil {
		resp.RejectedByRole = *c.RejectedByRole
	}
	return resp
}
