// Package permission defines the catalog of permission tokens.
//
// Permission tokens are flat, case-sensitive strings of the form
// "resource.action" (e.g. "issues.update"). There is no hierarchy and no
// wildcard expansion: "*" may be stored on a role as a literal token but it
// never expands to anything.
package permission

// Resource names
const (
	ResourceProjects     = "projects"
	ResourceIssues       = "issues"
	ResourceSprints      = "sprints"
	ResourceBoards       = "boards"
	ResourceBudgets      = "budgets"
	ResourceRoles        = "roles"
	ResourceUsers        = "users"
	ResourceIntegrations = "integrations"
	ResourceWebhooks     = "webhooks"
	ResourceSystemConfig = "system_config"
	ResourceAuditLogs    = "audit_logs"
)

// Project permissions
const (
	ProjectsRead   = "projects.read"
	ProjectsCreate = "projects.create"
	ProjectsUpdate = "projects.update"
	ProjectsDelete = "projects.delete"
)

// Issue permissions
const (
	IssuesRead   = "issues.read"
	IssuesCreate = "issues.create"
	IssuesUpdate = "issues.update"
	IssuesDelete = "issues.delete"
)

// Sprint permissions
const (
	SprintsRead   = "sprints.read"
	SprintsCreate = "sprints.create"
	SprintsUpdate = "sprints.update"
	SprintsDelete = "sprints.delete"
)

// Board permissions
const (
	BoardsRead   = "boards.read"
	BoardsUpdate = "boards.update"
)

// Budget permissions
const (
	BudgetsRead   = "budgets.read"
	BudgetsUpdate = "budgets.update"
)

// Role permissions
const (
	RolesRead   = "roles.read"
	RolesCreate = "roles.create"
	RolesUpdate = "roles.update"
	RolesDelete = "roles.delete"
)

// User permissions
const (
	UsersRead   = "users.read"
	UsersCreate = "users.create"
	UsersUpdate = "users.update"
	UsersDelete = "users.delete"
)

// Integration permissions
const (
	IntegrationsRead   = "integrations.read"
	IntegrationsCreate = "integrations.create"
	IntegrationsUpdate = "integrations.update"
	IntegrationsDelete = "integrations.delete"
)

// Webhook permissions
const (
	WebhooksRead  = "webhooks.read"
	WebhooksRetry = "webhooks.retry"
)

// System config permissions
const (
	SystemConfigRead   = "system_config.read"
	SystemConfigUpdate = "system_config.update"
)

// Audit log permissions
const (
	AuditLogsRead = "audit_logs.read"
)

// Wildcard is storable on a role as a literal token. It has no glob
// semantics anywhere; only an exact "*" check would match it.
const Wildcard = "*"

// catalog holds every known permission token.
var catalog = map[string]struct{}{
	ProjectsRead:       {},
	ProjectsCreate:     {},
	ProjectsUpdate:     {},
	ProjectsDelete:     {},
	IssuesRead:         {},
	IssuesCreate:       {},
	IssuesUpdate:       {},
	IssuesDelete:       {},
	SprintsRead:        {},
	SprintsCreate:      {},
	SprintsUpdate:      {},
	SprintsDelete:      {},
	BoardsRead:         {},
	BoardsUpdate:       {},
	BudgetsRead:        {},
	BudgetsUpdate:      {},
	RolesRead:          {},
	RolesCreate:        {},
	RolesUpdate:        {},
	RolesDelete:        {},
	UsersRead:          {},
	UsersCreate:        {},
	UsersUpdate:        {},
	UsersDelete:        {},
	IntegrationsRead:   {},
	IntegrationsCreate: {},
	IntegrationsUpdate: {},
	IntegrationsDelete: {},
	WebhooksRead:       {},
	WebhooksRetry:      {},
	SystemConfigRead:   {},
	SystemConfigUpdate: {},
	AuditLogsRead:      {},
	Wildcard:           {},
}

// Known reports whether token is a recognized permission token.
// Role create/update validates assigned permissions against this.
func Known(token string) bool {
	_, ok := catalog[token]
	return ok
}

// All returns every known permission token. The order is not stable.
func All() []string {
	tokens := make([]string, 0, len(catalog))
	for token := range catalog {
		tokens = append(tokens, token)
	}
	return tokens
}

// Validate returns the subset of tokens that are not known.
// An empty result means all tokens are valid.
func Validate(tokens []string) []string {
	var unknown []string
	for _, token := range tokens {
		if !Known(token) {
			unknown = append(unknown, token)
		}
	}
	return unknown
}
