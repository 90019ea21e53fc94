package sessionguard

import (
	"context"
	"time"

	"github.com/davrion/sessionguard/internal"
	"github.com/google/uuid"
)

const (
	auditEventSessionCreated     = "session_created"
	auditEventSessionDestroyed   = "session_destroyed"
	auditEventSessionRotated     = "session_rotated"
	auditEventSessionRejected    = "session_rejected"
	auditEventSessionEvicted     = "session_evicted"
	auditEventSessionsBulkRevoke = "sessions_bulk_revoked"
	auditEventPrivilegeEscalated = "privilege_escalated"
	auditEventRevokeDenied       = "session_revoke_denied"
	auditEventAnomalyDetected    = "session_anomaly_detected"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	token string,
	reason RejectReason,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		SessionID: internal.DisplayToken(token),
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Reason:    string(reason),
		Metadata:  metadata,
	}

	e.audit.Emit(ctx, event)
}
