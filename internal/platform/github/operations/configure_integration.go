// Package operations contains the GitHub integration use cases.
package operations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/events"
	"go.trackdeck.dev/internal/platform/github"
	"go.trackdeck.dev/internal/platform/project"
)

// ConfigureIntegrationCommand contains the data needed to create or replace
// a project's GitHub integration.
type ConfigureIntegrationCommand struct {
	ProjectID        string                   `json:"projectId"`
	RepoOwner        string                   `json:"repoOwner"`
	RepoName         string                   `json:"repoName"`
	AccessToken      string                   `json:"accessToken,omitempty"`
	WebhookSecret    string                   `json:"webhookSecret,omitempty"`
	WebhookSecretRef string                   `json:"webhookSecretRef,omitempty"`
	WorkflowMappings []github.WorkflowMapping `json:"workflowMappings,omitempty"`
	AutoTransition   bool                     `json:"autoTransition"`
	AutoLink         bool                     `json:"autoLink"`
	IsActive         bool                     `json:"isActive"`
}

// ToAuditJSON implements common.Auditable, redacting credentials.
func (c ConfigureIntegrationCommand) ToAuditJSON() string {
	redacted := c
	if redacted.AccessToken != "" {
		redacted.AccessToken = "[REDACTED]"
	}
	if redacted.WebhookSecret != "" {
		redacted.WebhookSecret = "[REDACTED]"
	}
	return common.MarshalDataJSON(redacted)
}

// ConfigureIntegrationUseCase handles integration upserts
type ConfigureIntegrationUseCase struct {
	integrationRepo github.IntegrationRepository
	projectRepo     project.Repository
	unitOfWork      common.UnitOfWork
}

// NewConfigureIntegrationUseCase creates a new ConfigureIntegrationUseCase
func NewConfigureIntegrationUseCase(
	integrationRepo github.IntegrationRepository,
	projectRepo project.Repository,
	uow common.UnitOfWork,
) *ConfigureIntegrationUseCase {
	return &ConfigureIntegrationUseCase{
		integrationRepo: integrationRepo,
		projectRepo:     projectRepo,
		unitOfWork:      uow,
	}
}

// Execute creates or replaces the project's integration. One integration
// per project; a webhook secret is generated when none is supplied and no
// secrets-provider reference is configured.
func (uc *ConfigureIntegrationUseCase) Execute(
	ctx context.Context,
	cmd ConfigureIntegrationCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if cmd.ProjectID == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Project ID is required", nil),
		)
	}
	if cmd.RepoOwner == "" || cmd.RepoName == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Repository owner and name are required", nil),
		)
	}

	p, err := uc.projectRepo.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load project", map[string]any{"error": err.Error()}),
		)
	}
	if p == nil {
		return common.Failure[common.DomainEvent](
			common.NotFoundError(common.ErrCodeProjectNotFound, "Project not found", map[string]any{"projectId": cmd.ProjectID}),
		)
	}

	existing, err := uc.integrationRepo.FindByProjectID(ctx, cmd.ProjectID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.InternalError("DB_ERROR", "Failed to load integration", map[string]any{"error": err.Error()}),
		)
	}

	now := time.Now()
	integ := &github.Integration{
		ID:               uuid.NewString(),
		ProjectID:        cmd.ProjectID,
		RepoOwner:        cmd.RepoOwner,
		RepoName:         cmd.RepoName,
		RepoFullName:     cmd.RepoOwner + "/" + cmd.RepoName,
		AccessToken:      cmd.AccessToken,
		WebhookSecret:    cmd.WebhookSecret,
		WebhookSecretRef: cmd.WebhookSecretRef,
		WorkflowMappings: cmd.WorkflowMappings,
		AutoTransition:   cmd.AutoTransition,
		AutoLink:         cmd.AutoLink,
		IsActive:         cmd.IsActive,
		SyncStatus:       github.SyncStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if existing != nil {
		// Replace keeps identity and creation time; secrets carry over
		// unless the command supplies new ones.
		integ.ID = existing.ID
		integ.CreatedAt = existing.CreatedAt
		if integ.AccessToken == "" {
			integ.AccessToken = existing.AccessToken
		}
		if integ.WebhookSecret == "" && integ.WebhookSecretRef == "" {
			integ.WebhookSecret = existing.WebhookSecret
			integ.WebhookSecretRef = existing.WebhookSecretRef
		}
	}
	if integ.WebhookSecret == "" && integ.WebhookSecretRef == "" {
		secret, err := generateWebhookSecret()
		if err != nil {
			return common.Failure[common.DomainEvent](
				common.InternalError("SECRET_GENERATION_FAILED", "Failed to generate webhook secret", nil),
			)
		}
		integ.WebhookSecret = secret
	}
	if integ.WorkflowMappings == nil {
		integ.WorkflowMappings = []github.WorkflowMapping{}
	}

	event := events.NewIntegrationConfigured(execCtx, integ)

	return uc.unitOfWork.Commit(ctx, integ, event, cmd)
}

// generateWebhookSecret returns 32 random bytes hex-encoded.
func generateWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
