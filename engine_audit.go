package sessionkit

import (
	"context"
	"time"
)

const (
	auditEventRegisterSuccess     = "register_success"
	auditEventRegisterFailure     = "register_failure"
	auditEventRegisterRateLimited = "register_rate_limited"
	auditEventLoginSuccess        = "login_success"
	auditEventLoginFailure        = "login_failure"
	auditEventLoginRateLimited    = "login_rate_limited"
	auditEventRefreshSuccess      = "refresh_success"
	auditEventRefreshFailure      = "refresh_failure"
	auditEventLogout              = "logout"
	auditEventRateLimitFailOpen   = "rate_limit_fail_open"
)

// emitAudit builds and dispatches one event. The metadata closure runs
// only when auditing is enabled, so disabled deployments pay nothing for
// the map allocations.
func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	identityKey, subjectID string,
	cause error,
	metadata func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp:   time.Now(),
		EventType:   eventType,
		IdentityKey: identityKey,
		SubjectID:   subjectID,
		IP:          clientIPFromContext(ctx),
		Success:     success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	e.audit.Emit(ctx, event)
}
