package approval

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/workflow"
)

var (
	ErrSelfApproval = apperror.Wrap(
		apperror.ErrForbidden,
		apperror.CodeForbidden,
		"approvers cannot decide on their own request",
		http.StatusForbidden,
	)
	ErrDepartmentMismatch = apperror.Wrap(
		apperror.ErrForbidden,
		apperror.CodeForbidden,
		"approver does not belong to the submitter's department",
		http.StatusForbidden,
	)
)

// Parties identifies who submitted a request and who is deciding it.
type Parties struct {
	SubmitterID  string
	SubmitterDep string
	ApproverID   string
	ApproverDep  string
}

// Authorize enforces the actor-level rules that hold for every request kind.
// Stage rules are left to the workflow tables.
func Authorize(role workflow.Role, p Parties) error {
	if p.ApproverID == p.SubmitterID {
		return ErrSelfApproval
	}
	if role == workflow.RoleDeptHead && (p.ApproverDep == "" || p.ApproverDep != p.SubmitterDep) {
		return ErrDepartmentMismatch
	}
	return nil
}
