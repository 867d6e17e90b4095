// Package auth decides whether a caller may run an operation, based on the
// minimum role the operation declared when it was registered.
package auth

import (
	"fmt"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	"github.com/dev-mohitbeniwal/keystone/model"
)

// Decision is the outcome of a single authorization check.
type Decision int

const (
	Allow Decision = iota
	RejectUnauthenticated
	RejectForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RejectUnauthenticated:
		return "not_logged_in"
	case RejectForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// DefaultGrants maps every catalog role to the roles it satisfies: each role
// satisfies itself and the administrator satisfies all of them.
func DefaultGrants() map[string][]string {
	admin := model.AdminRole.Value
	grants := make(map[string][]string)
	for _, r := range model.Roles() {
		grants[r.Value] = append(grants[r.Value], r.Value)
		if r.Value != admin {
			grants[admin] = append(grants[admin], r.Value)
		}
	}
	return grants
}

// Gate compares an operation's required role with the caller's role.
// It holds no mutable state and is safe for concurrent use.
type Gate struct {
	grants map[string]map[string]struct{}
}

// NewGate builds a gate from a grant table (caller role -> satisfied roles).
// Every role named in the table must exist in the role catalog.
func NewGate(grants map[string][]string) (*Gate, error) {
	g := &Gate{grants: make(map[string]map[string]struct{}, len(grants))}
	for role, satisfied := range grants {
		if _, ok := model.RoleByValue(role); !ok {
			return nil, fmt.Errorf("%w: grant table names unknown role %q", keystone_errors.ErrInvalidRole, role)
		}
		set := make(map[string]struct{}, len(satisfied))
		for _, s := range satisfied {
			if _, ok := model.RoleByValue(s); !ok {
				return nil, fmt.Errorf("%w: role %q grants unknown role %q", keystone_errors.ErrInvalidRole, role, s)
			}
			set[s] = struct{}{}
		}
		g.grants[role] = set
	}
	return g, nil
}

// Satisfies reports whether a caller holding callerRole meets required.
// Blank or uncatalogued caller roles satisfy nothing.
func (g *Gate) Satisfies(callerRole, required string) bool {
	set, ok := g.grants[callerRole]
	if !ok {
		return false
	}
	_, ok = set[required]
	return ok
}

// Decide maps (required role, caller) to a decision. A nil caller means the
// request is not authenticated.
func (g *Gate) Decide(required string, caller *model.LoginUser) Decision {
	if required == "" {
		return Allow
	}
	if caller == nil {
		return RejectUnauthenticated
	}
	if !g.Satisfies(caller.Role, required) {
		return RejectForbidden
	}
	return Allow
}

// Authorize is Decide expressed as an error: nil, ErrNotLoggedIn or ErrForbidden.
func (g *Gate) Authorize(required string, caller *model.LoginUser) error {
	switch g.Decide(required, caller) {
	case Allow:
		return nil
	case RejectUnauthenticated:
		return fmt.Errorf("%w: operation requires role %q", keystone_errors.ErrNotLoggedIn, required)
	default:
		return fmt.Errorf("%w: role %q does not satisfy %q", keystone_errors.ErrForbidden, caller.Role, required)
	}
}
