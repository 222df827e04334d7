package approval

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-leave/internal/shared/contextutil"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Decision is one role's verdict, already resolved against a workflow table.
type Decision struct {
	RequestType string
	RequestID   uuid.UUID
	Role        workflow.Role
	Decision    workflow.Decision
	ApproverID  uuid.UUID
	Remarks     string
	FromStage   string
	ToStage     string
}

// Advance moves the request row from the expected stage to the next one and
// reports whether the row was still at the expected stage.
type Advance func(ctx context.Context) (bool, error)

type Guard interface {
	RecordDecision(ctx context.Context, tx *sql.Tx, d Decision, advance Advance) (*Approval, error)
}

type guard struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewGuard(repo Repository, logger ...*zap.Logger) Guard {
	l := zap.L().Named("approval.guard")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.guard")
	}
	return &guard{repo: repo, now: func() time.Time { return time.Now().UTC() }, logger: l}
}

// RecordDecision runs inside the caller's transaction. The caller has already
// locked and re-read the request row. The existence check fails fast; the
// unique constraint and the conditional stage update make the outcome
// deterministic when two callers race past it.
func (g *guard) RecordDecision(ctx context.Context, tx *sql.Tx, d Decision, advance Advance) (*Approval, error) {
	rid := contextutil.GetRequestID(ctx)
	qtx := g.repo.WithTx(tx)

	exists, err := qtx.ExistsForRole(ctx, d.RequestType, d.RequestID, d.Role)
	if err != nil {
		g.logger.Error("approval existence check failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}
	if exists {
		g.logger.Warn("approval already recorded for role",
			zap.String("request_id", rid),
			zap.String("request_type", d.RequestType),
			zap.String("subject_id", d.RequestID.String()),
			zap.String("role", string(d.Role)),
		)
		return nil, fmt.Errorf("%w: %s already decided by %s", workflow.ErrAlreadyProcessed, d.RequestType, d.Role)
	}

	row := &Approval{
		ID:          uuid.New(),
		RequestType: d.RequestType,
		RequestID:   d.RequestID,
		Role:        d.Role,
		Status:      d.Decision,
		ApproverID:  d.ApproverID,
		Remarks:     d.Remarks,
		ApprovedAt:  g.now(),
	}
	if err := qtx.Create(ctx, row); err != nil {
		mapped := mapRepositoryError(err)
		g.logger.Warn("approval insert failed",
			zap.String("request_id", rid),
			zap.String("subject_id", d.RequestID.String()),
			zap.String("role", string(d.Role)),
			zap.Error(mapped),
		)
		return nil, mapped
	}

	ok, err := advance(ctx)
	if err != nil {
		g.logger.Error("advance stage failed",
			zap.String("request_id", rid),
			zap.String("subject_id", d.RequestID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if !ok {
		g.logger.Warn("stage changed under decision",
			zap.String("request_id", rid),
			zap.String("subject_id", d.RequestID.String()),
			zap.String("expected_stage", d.FromStage),
		)
		return nil, fmt.Errorf("%w: %s no longer %s", workflow.ErrNotInStage, d.RequestType, d.FromStage)
	}

	g.logger.Info("decision recorded",
		zap.String("request_id", rid),
		zap.String("request_type", d.RequestType),
		zap.String("subject_id", d.RequestID.String()),
		zap.String("role", string(d.Role)),
		zap.String("decision", string(d.Decision)),
		zap.String("from_stage", d.FromStage),
		zap.String("to_stage", d.ToStage),
	)
	return row, nil
}
