package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SystemPrincipalID marks operations not initiated by a user, such as
// bootstrap seeding.
const SystemPrincipalID = "system"

// Service logs events that do not flow through a UnitOfWork commit:
// logins, logouts, and system-initiated operations.
type Service struct {
	repo *Repository
}

// NewService creates a new audit service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Log creates an audit log entry. Failures are logged, never propagated;
// auditing must not break the operation being audited.
func (s *Service) Log(ctx context.Context, entityType, entityID, operation, principalID string, operationData any) {
	var operationJSON string
	if operationData != nil {
		data, err := json.Marshal(operationData)
		if err != nil {
			slog.Warn("Failed to serialize operation data for audit log", "error", err)
		} else {
			operationJSON = string(data)
		}
	}

	auditLog := &AuditLog{
		ID:            uuid.NewString(),
		EntityType:    entityType,
		EntityID:      entityID,
		Operation:     operation,
		OperationJSON: operationJSON,
		PrincipalID:   principalID,
		PerformedAt:   time.Now(),
	}

	if err := s.repo.Insert(ctx, auditLog); err != nil {
		slog.Error("Failed to insert audit log", "error", err, "entityType", entityType, "entityId", entityID, "operation", operation)
	}
}

// LogLogin logs a login attempt
func (s *Service) LogLogin(ctx context.Context, userID, email string, success bool) {
	operation := "LOGIN"
	if !success {
		operation = "LOGIN_FAILED"
	}
	s.Log(ctx, "user", userID, operation, userID, map[string]string{"email": email})
}

// LogLogout logs a logout event
func (s *Service) LogLogout(ctx context.Context, userID string) {
	s.Log(ctx, "user", userID, "LOGOUT", userID, nil)
}

// LogSystem logs a system-initiated operation
func (s *Service) LogSystem(ctx context.Context, entityType, entityID, operation string, operationData any) {
	s.Log(ctx, entityType, entityID, operation, SystemPrincipalID, operationData)
}
