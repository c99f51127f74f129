package services

import (
	"fmt"

	"go.uber.org/zap"

	"yti-common/application/security"
)

// ActionType is the kind of change written to the audit log.
type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
	ActionSave   ActionType = "SAVE"
)

// AuditService writes one log line per change made by a signed in user.
type AuditService struct {
	entity string
	logger *zap.Logger
}

func NewAuditService(entity string, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{entity: entity, logger: logger.Named("audit")}
}

// Log records action on uri. Anonymous users are not logged.
func (s *AuditService) Log(action ActionType, uri string, user *security.User) {
	if user == nil || user.Anonymous {
		return
	}
	s.logger.Info(fmt.Sprintf("%s %s: <%s>, User[id=%s]", s.entity, action, uri, user.ID),
		zap.String("entity", s.entity),
		zap.String("action", string(action)),
		zap.String("uri", uri),
		zap.String("user_id", user.ID.String()))
}
