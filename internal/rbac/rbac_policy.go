package rbac

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleDeptHead = "dept_head"
	RoleAdmin    = "admin"
)

const (
	ResourceLeaveRequest      = "leave_request"
	ResourceCreditConversion  = "credit_conversion"
	ResourceRescheduleRequest = "reschedule_request"
	ResourceLeaveCredit       = "leave_credit"
)

const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionApprove = "approve"
)

// DefaultPolicies is the fixed permission set. Approval routes are still
// subject to the stage check in the workflow tables.
func DefaultPolicies() [][]string {
	return [][]string{
		{RoleEmployee, ResourceLeaveRequest, ActionCreate},
		{RoleEmployee, ResourceLeaveRequest, ActionRead},
		{RoleEmployee, ResourceCreditConversion, ActionCreate},
		{RoleEmployee, ResourceCreditConversion, ActionRead},
		{RoleEmployee, ResourceRescheduleRequest, ActionCreate},
		{RoleEmployee, ResourceRescheduleRequest, ActionRead},

		{RoleHR, ResourceLeaveRequest, ActionApprove},
		{RoleHR, ResourceCreditConversion, ActionApprove},
		{RoleHR, ResourceLeaveCredit, ActionRead},

		{RoleDeptHead, ResourceLeaveRequest, ActionApprove},
		{RoleDeptHead, ResourceCreditConversion, ActionApprove},
		{RoleDeptHead, ResourceRescheduleRequest, ActionApprove},

		{RoleAdmin, ResourceLeaveRequest, ActionApprove},
		{RoleAdmin, ResourceCreditConversion, ActionApprove},
		{RoleAdmin, ResourceLeaveCredit, ActionRead},
	}
}

// DefaultGroupings: every approver is also an employee.
func DefaultGroupings() [][]string {
	return [][]string{
		{RoleHR, RoleEmployee},
		{RoleDeptHead, RoleEmployee},
		{RoleAdmin, RoleEmployee},
	}
}
