package role

import (
	"context"
	"log/slog"
)

// RoleRef is a polymorphic reference to a role: a name, an id, or an
// already-loaded role object. Callers are not required to normalize
// before handing a reference to the resolver.
type RoleRef struct {
	name string
	id   string
	role *Role
}

// RefByName references a role by its unique name.
func RefByName(name string) RoleRef { return RoleRef{name: name} }

// RefByID references a role by its identifier.
func RefByID(id string) RoleRef { return RoleRef{id: id} }

// RefByRole wraps an already-loaded role. The resolver uses it directly
// without a datastore round-trip.
func RefByRole(r *Role) RoleRef { return RoleRef{role: r} }

// IsZero reports whether the reference points at nothing.
func (ref RoleRef) IsZero() bool {
	return ref.name == "" && ref.id == "" && ref.role == nil
}

// Resolver resolves role references to effective permission sets.
//
// The resolver fails closed: a missing, inactive, or unresolvable role
// yields an empty permission set, and lookup errors are logged rather
// than surfaced. Permission checks must not become an availability hazard.
type Resolver struct {
	repo   Repository
	logger *slog.Logger
}

// NewResolver creates a permission resolver backed by the role repository.
func NewResolver(repo Repository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{repo: repo, logger: logger}
}

// Resolve returns the role a reference points at, or nil if it cannot
// be resolved. Inactive roles resolve to nil.
func (r *Resolver) Resolve(ctx context.Context, ref RoleRef) *Role {
	switch {
	case ref.role != nil:
		if !ref.role.IsActive {
			return nil
		}
		return ref.role

	case ref.id != "":
		found, err := r.repo.FindByID(ctx, ref.id)
		if err != nil {
			r.logger.Error("role lookup by id failed",
				"roleId", ref.id,
				"error", err)
			return nil
		}
		if found == nil || !found.IsActive {
			return nil
		}
		return found

	case ref.name != "":
		found, err := r.repo.FindActiveByName(ctx, ref.name)
		if err != nil {
			r.logger.Error("role lookup by name failed",
				"roleName", ref.name,
				"error", err)
			return nil
		}
		return found

	default:
		return nil
	}
}

// ResolvePermissions returns the effective permission set for a role
// reference. Unresolvable references yield an empty set, never an error.
func (r *Resolver) ResolvePermissions(ctx context.Context, ref RoleRef) map[string]struct{} {
	resolved := r.Resolve(ctx, ref)
	if resolved == nil {
		return map[string]struct{}{}
	}

	permissions := make(map[string]struct{}, len(resolved.Permissions))
	for _, token := range resolved.Permissions {
		permissions[token] = struct{}{}
	}
	return permissions
}

// HasPermission reports whether the referenced role grants the exact
// permission token. It never returns an error; any lookup failure
// answers false.
func (r *Resolver) HasPermission(ctx context.Context, ref RoleRef, token string) bool {
	resolved := r.Resolve(ctx, ref)
	if resolved == nil {
		return false
	}
	return resolved.HasPermission(token)
}
