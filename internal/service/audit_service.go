package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName"`
	Details    string `json:"details"`
	CreatedAt  string `json:"createdAt"`
}

// AuditLogQuery selects audit entries. UserID must be a UUID when set.
type AuditLogQuery struct {
	Action   string
	EntityID string
	UserID   string
	Days     int // only entries from the last N days when > 0
	Page     int
	Limit    int
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, query AuditLogQuery) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
	userRepo  repository.UserRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository, userRepo repository.UserRepository) AuditService {
	return &auditService{auditRepo: auditRepo, userRepo: userRepo}
}

// GetAuditLogs returns a page of the audit trail, newest first, with usernames resolved
func (s *auditService) GetAuditLogs(ctx context.Context, query AuditLogQuery) ([]AuditLogResponse, int64, error) {
	filter := repository.AuditFilter{
		Action:   strings.ToUpper(query.Action),
		EntityID: query.EntityID,
		Page:     query.Page,
		Limit:    query.Limit,
	}
	if query.UserID != "" {
		id, err := parseID(query.UserID, "user")
		if err != nil {
			return nil, 0, err
		}
		filter.UserID = &id
	}
	if query.Days < 0 {
		return nil, 0, validationError("days must not be negative")
	}
	if query.Days > 0 {
		since := time.Now().UTC().AddDate(0, 0, -query.Days)
		filter.Since = &since
	}

	logs, total, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	usernames := make(map[uuid.UUID]string)
	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		userID := ""
		if l.UserID != nil {
			userID = l.UserID.String()
			name, ok := usernames[*l.UserID]
			if !ok {
				if u, err := s.userRepo.FindByID(ctx, *l.UserID); err == nil {
					name = u.Username
				}
				usernames[*l.UserID] = name
			}
			if name != "" {
				username = name
			}
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}

// writeAudit records an audit entry inside the caller's transaction.
func writeAudit(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details any) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
