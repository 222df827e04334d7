package ledger

import (
	"context"
	"time"

	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QueryService exposes the read side of a single account's history.
type QueryService interface {
	Entries(ctx context.Context, employeeID, leaveType string) (EntriesResponse, error)
}

type queryService struct {
	repo   Repository
	logger *zap.Logger
}

func NewQueryService(repo Repository, logger ...*zap.Logger) QueryService {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &queryService{repo: repo, logger: l}
}

func (s *queryService) Entries(ctx context.Context, employeeID, leaveType string) (EntriesResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return EntriesResponse{}, ledgererrors.ErrInvalidEmployeeID
	}
	code := NormalizeCode(leaveType)

	rows, err := s.repo.FindEntries(ctx, id, code)
	if err != nil {
		s.logger.Error("find ledger entries failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return EntriesResponse{}, err
	}

	resp := EntriesResponse{
		EmployeeID: employeeID,
		LeaveType:  code,
		Entries:    make([]EntryResponse, 0, len(rows)),
	}
	for _, e := range rows {
		resp.Entries = append(resp.Entries, mapEntry(e))
	}
	return resp, nil
}

func mapEntry(e Entry) EntryResponse {
	r := EntryResponse{
		ID:             e.ID.String(),
		LeaveType:      e.LeaveType,
		Year:           e.Year,
		EntryDate:      e.EntryDate.Format("2006-01-02"),
		PointsDeducted: e.PointsDeducted.String(),
		PointsCredited: e.PointsCredited.String(),
		BalanceBefore:  e.BalanceBefore.String(),
		BalanceAfter:   e.BalanceAfter.String(),
		Remarks:        e.Remarks,
		ReferenceType:  e.ReferenceType,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if e.ReferenceID != nil {
		v := e.ReferenceID.String()
		r.ReferenceID = &v
	}
	return r
}
