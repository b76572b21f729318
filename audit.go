package cavaauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess      = "login_success"
	auditEventLoginRejected     = "login_rejected"
	auditEventLogout            = "logout"
	auditEventRefreshSuccess    = "refresh_success"
	auditEventRefreshFailure    = "refresh_failure"
	auditEventInvalidateFailure = "session_invalidate_failure"
)

// AuditErrorCode defines a public type used by cavaauth APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrNotAuthenticated  AuditErrorCode = "not_authenticated"
	auditErrRefreshFailed     AuditErrorCode = "refresh_failed"
	auditErrSessionExpired    AuditErrorCode = "session_expired"
	auditErrUnknownRole       AuditErrorCode = "unknown_role"
	auditErrIncompleteSession AuditErrorCode = "incomplete_session"
	auditErrNoSession         AuditErrorCode = "no_session"
	auditErrInvalidation      AuditErrorCode = "session_invalidation_failed"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (s *Store) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	user *User,
	err error,
	metadataBuilder func() map[string]string,
) {
	if s == nil || s.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		SessionID: sessionIDFromContext(ctx),
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if user != nil {
		event.UserID = user.ID
		event.Role = string(user.Role)
		event.IndustrySlug = user.IndustrySlug
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	s.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrUnknownRole):
		return auditErrUnknownRole
	case errors.Is(err, ErrIncompleteSession):
		return auditErrIncompleteSession
	case errors.Is(err, ErrNotAuthenticated):
		return auditErrNotAuthenticated
	case errors.Is(err, ErrNoSession):
		return auditErrNoSession
	case errors.Is(err, ErrInvalidateFailed):
		return auditErrInvalidation
	case errors.Is(err, ErrRefreshFailed):
		return auditErrRefreshFailed
	default:
		return auditErrInternal
	}
}
