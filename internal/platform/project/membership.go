package project

import "log/slog"

// GlobalAdminRole is the global role name whose holders bypass project
// membership checks entirely.
const GlobalAdminRole = "admin"

// CanManageMembers reports whether a user may mutate the project's member
// list: project-role admin (membership or owner fallback), or the global
// admin bypass. The bypass is logged so it stays auditable rather than
// implicit.
func CanManageMembers(p *Project, userID, globalRoleName string, logger *slog.Logger) bool {
	if p.MemberRole(userID) == MemberRoleAdmin {
		return true
	}
	if globalRoleName == GlobalAdminRole {
		if logger != nil {
			logger.Info("global admin bypassed project membership check",
				"userId", userID,
				"projectId", p.ID,
				"projectKey", p.Key)
		}
		return true
	}
	return false
}
