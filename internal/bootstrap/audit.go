package bootstrap

import "context"

// AuditLog is one lifecycle event of a process.
type AuditLog struct {
	Action  string
	Message string
	// Failed marks events that ended abnormally, e.g. a forced shutdown.
	Failed bool
	Meta   map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

const (
	ActionServerStart    = "SERVER_START"
	ActionServerShutdown = "SERVER_SHUTDOWN"
	ActionServerStopped  = "SERVER_STOPPED"
	ActionProcessStart   = "PROCESS_START"
	ActionProcessStopped = "PROCESS_STOPPED"
)
