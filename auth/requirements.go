package auth

import (
	"errors"
	"fmt"
	"sync"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	"github.com/dev-mohitbeniwal/keystone/model"
)

// Operation identifies a dispatchable handler, e.g. "POST /api/v1/users/delete".
type Operation string

// OperationOf builds the identifier of a route from its method and full path.
func OperationOf(method, fullPath string) Operation {
	return Operation(method + " " + fullPath)
}

// Requirements is the table of required roles per operation. It is filled
// while routes are registered and frozen before the server starts.
type Requirements struct {
	mu     sync.RWMutex
	table  map[Operation]string
	frozen bool
}

func NewRequirements() *Requirements {
	return &Requirements{table: make(map[Operation]string)}
}

// Declare records the role an operation requires. An empty role declares an
// unrestricted operation. Non-empty roles must come from the role catalog.
func (r *Requirements) Declare(op Operation, mustRole string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("requirements frozen")
	}
	if op == "" {
		return errors.New("operation cannot be empty")
	}
	if _, exists := r.table[op]; exists {
		return fmt.Errorf("operation %s already declared", op)
	}
	if mustRole != "" {
		if _, ok := model.RoleByValue(mustRole); !ok {
			return fmt.Errorf("%w: %q for operation %s", keystone_errors.ErrInvalidRole, mustRole, op)
		}
	}

	r.table[op] = mustRole
	return nil
}

// MustDeclare is Declare for startup code; it panics on error the same way
// gin panics on conflicting routes.
func (r *Requirements) MustDeclare(op Operation, mustRole string) {
	if err := r.Declare(op, mustRole); err != nil {
		panic(err)
	}
}

// Required returns the role an operation requires, "" when none was declared.
func (r *Requirements) Required(op Operation) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table[op]
}

// Freeze prevents further declarations.
func (r *Requirements) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Snapshot returns a copy of the table.
func (r *Requirements) Snapshot() map[Operation]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Operation]string, len(r.table))
	for op, role := range r.table {
		out[op] = role
	}
	return out
}
