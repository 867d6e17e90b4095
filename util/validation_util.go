// util/validation_util.go

package util

import (
	"fmt"
	"strings"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	"github.com/dev-mohitbeniwal/keystone/model"
)

const (
	MinAccountLength  = 4
	MinPasswordLength = 8
	MaxPageSize       = 100
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateRegister(req model.RegisterRequest) error {
	if strings.TrimSpace(req.Account) == "" || req.Password == "" || req.CheckPassword == "" {
		return fmt.Errorf("%w: account and passwords are required", keystone_errors.ErrInvalidUserData)
	}
	if len(req.Account) < MinAccountLength {
		return fmt.Errorf("%w: account must be at least %d characters", keystone_errors.ErrInvalidUserData, MinAccountLength)
	}
	if len(req.Password) < MinPasswordLength || len(req.CheckPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", keystone_errors.ErrInvalidUserData, MinPasswordLength)
	}
	if req.Password != req.CheckPassword {
		return fmt.Errorf("%w: passwords do not match", keystone_errors.ErrInvalidUserData)
	}
	return nil
}

func (v *ValidationUtil) ValidateLogin(req model.LoginRequest) error {
	if strings.TrimSpace(req.Account) == "" || req.Password == "" {
		return fmt.Errorf("%w: account and password are required", keystone_errors.ErrInvalidUserData)
	}
	return nil
}

// ValidateRole accepts only catalog role values.
func (v *ValidationUtil) ValidateRole(value string) error {
	if _, ok := model.RoleByValue(value); !ok {
		return fmt.Errorf("%w: %q", keystone_errors.ErrInvalidRole, value)
	}
	return nil
}

func (v *ValidationUtil) ValidatePagination(limit, offset int) error {
	if limit <= 0 || limit > MaxPageSize || offset < 0 {
		return fmt.Errorf("%w: limit must be 1-%d and offset non-negative", keystone_errors.ErrInvalidPagination, MaxPageSize)
	}
	return nil
}
