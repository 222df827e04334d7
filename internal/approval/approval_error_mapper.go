package approval

import (
	"errors"
	"fmt"
	"strings"

	"go-leave/internal/workflow"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueRequestRole = "uq_approvals_request_role"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueRequestRole {
			return fmt.Errorf("%w: concurrent decision for the same role", workflow.ErrAlreadyProcessed)
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueRequestRole) {
		return fmt.Errorf("%w: concurrent decision for the same role", workflow.ErrAlreadyProcessed)
	}

	return err
}
