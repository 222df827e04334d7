package workflow

type LeaveStage string

const (
	LeavePending         LeaveStage = "pending"
	LeavePendingDeptHead LeaveStage = "pending_dept_head"
	LeavePendingAdmin    LeaveStage = "pending_admin"
	LeaveApproved        LeaveStage = "approved"
	LeaveRejected        LeaveStage = "rejected"
	// LeaveRescheduled is only entered through the reschedule reconciler.
	LeaveRescheduled LeaveStage = "rescheduled"
)

type ConversionStage string

const (
	ConversionPending          ConversionStage = "pending"
	ConversionHRApproved       ConversionStage = "hr_approved"
	ConversionDeptHeadApproved ConversionStage = "dept_head_approved"
	ConversionAdminApproved    ConversionStage = "admin_approved"
	ConversionRejected         ConversionStage = "rejected"
)

type RescheduleStage string

const (
	ReschedulePendingDeptHead RescheduleStage = "pending_dept_head"
	RescheduleApproved        RescheduleStage = "approved"
	RescheduleRejected        RescheduleStage = "rejected"
)

// LeaveTable: HR -> Dept Head -> Admin, except that a department head's own
// request goes from HR straight to Admin.
var LeaveTable = NewTable(
	"leave_request",
	LeavePending,
	map[LeaveStage]Role{
		LeavePending:         RoleHR,
		LeavePendingDeptHead: RoleDeptHead,
		LeavePendingAdmin:    RoleAdmin,
	},
	[]LeaveStage{LeaveApproved, LeaveRejected, LeaveRescheduled},
	Transition[LeaveStage]{From: LeavePending, Role: RoleHR, Decision: DecisionApproved, Submitter: SubmitterDeptHead, To: LeavePendingAdmin},
	Transition[LeaveStage]{From: LeavePending, Role: RoleHR, Decision: DecisionApproved, To: LeavePendingDeptHead},
	Transition[LeaveStage]{From: LeavePendingDeptHead, Role: RoleDeptHead, Decision: DecisionApproved, To: LeavePendingAdmin},
	Transition[LeaveStage]{From: LeavePendingAdmin, Role: RoleAdmin, Decision: DecisionApproved, To: LeaveApproved},
	Transition[LeaveStage]{From: LeavePending, Role: RoleHR, Decision: DecisionRejected, To: LeaveRejected},
	Transition[LeaveStage]{From: LeavePendingDeptHead, Role: RoleDeptHead, Decision: DecisionRejected, To: LeaveRejected},
	Transition[LeaveStage]{From: LeavePendingAdmin, Role: RoleAdmin, Decision: DecisionRejected, To: LeaveRejected},
)

var ConversionTable = NewTable(
	"credit_conversion",
	ConversionPending,
	map[ConversionStage]Role{
		ConversionPending:          RoleHR,
		ConversionHRApproved:       RoleDeptHead,
		ConversionDeptHeadApproved: RoleAdmin,
	},
	[]ConversionStage{ConversionAdminApproved, ConversionRejected},
	Transition[ConversionStage]{From: ConversionPending, Role: RoleHR, Decision: DecisionApproved, To: ConversionHRApproved},
	Transition[ConversionStage]{From: ConversionHRApproved, Role: RoleDeptHead, Decision: DecisionApproved, To: ConversionDeptHeadApproved},
	Transition[ConversionStage]{From: ConversionDeptHeadApproved, Role: RoleAdmin, Decision: DecisionApproved, To: ConversionAdminApproved},
	Transition[ConversionStage]{From: ConversionPending, Role: RoleHR, Decision: DecisionRejected, To: ConversionRejected},
	Transition[ConversionStage]{From: ConversionHRApproved, Role: RoleDeptHead, Decision: DecisionRejected, To: ConversionRejected},
	Transition[ConversionStage]{From: ConversionDeptHeadApproved, Role: RoleAdmin, Decision: DecisionRejected, To: ConversionRejected},
)

var RescheduleTable = NewTable(
	"reschedule_request",
	ReschedulePendingDeptHead,
	map[RescheduleStage]Role{
		ReschedulePendingDeptHead: RoleDeptHead,
	},
	[]RescheduleStage{RescheduleApproved, RescheduleRejected},
	Transition[RescheduleStage]{From: ReschedulePendingDeptHead, Role: RoleDeptHead, Decision: DecisionApproved, To: RescheduleApproved},
	Transition[RescheduleStage]{From: ReschedulePendingDeptHead, Role: RoleDeptHead, Decision: DecisionRejected, To: RescheduleRejected},
)

// CanReschedule reports whether a leave request may be rescheduled from s.
func CanReschedule(s LeaveStage) bool {
	return s == LeaveApproved || s == LeaveRescheduled
}
