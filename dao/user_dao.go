// dao/user_dao.go
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/model"
	helper_util "github.com/dev-mohitbeniwal/keystone/util/helper"
)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

type UserDAO struct {
	Driver neo4j.DriverWithContext
}

func NewUserDAO(driver neo4j.DriverWithContext) *UserDAO {
	return &UserDAO{Driver: driver}
}

// EnsureUniqueConstraint makes user ids and accounts unique.
func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraints on User")
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	queries := []string{
		`CREATE CONSTRAINT unique_user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_user_account IF NOT EXISTS FOR (u:User) REQUIRE u.account IS UNIQUE`,
	}
	for _, query := range queries {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, query, nil)
			if err != nil {
				return nil, err
			}
			return result.Consume(ctx)
		})
		if err != nil {
			logger.Error("Failed to ensure unique constraint on User", zap.Error(err))
			return fmt.Errorf("%w: %w", keystone_errors.ErrDatabaseOperation, err)
		}
	}

	logger.Info("Successfully ensured unique constraints on User")
	return nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	start := time.Now()
	logger.Info("Creating new user", zap.String("account", user.Account))

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	params := map[string]any{
		"props": map[string]any{
			"id":           user.ID,
			"account":      user.Account,
			"name":         user.Name,
			"avatar":       user.Avatar,
			"profile":      user.Profile,
			"role":         user.Role,
			"passwordHash": user.PasswordHash,
			"createdAt":    now.Format(time.RFC3339),
			"updatedAt":    now.Format(time.RFC3339),
		},
	}

	created, err := dao.writeUser(ctx, `CREATE (u:User) SET u = $props RETURN u`, params)
	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("account", user.Account),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("User created successfully",
		zap.String("userID", created.ID),
		zap.Duration("duration", duration))
	return created, nil
}

func (dao *UserDAO) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	return dao.getUser(ctx, `MATCH (u:User {id: $value}) RETURN u`, userID)
}

func (dao *UserDAO) GetUserByAccount(ctx context.Context, account string) (*model.User, error) {
	return dao.getUser(ctx, `MATCH (u:User {account: $value}) RETURN u`, account)
}

func (dao *UserDAO) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	start := time.Now()
	logger.Info("Listing users", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (u:User)
        RETURN u
        ORDER BY u.createdAt DESC
        SKIP $offset
        LIMIT $limit
        `
		result, err := tx.Run(ctx, query, map[string]any{"limit": limit, "offset": offset})
		if err != nil {
			return nil, err
		}
		var users []*model.User
		for result.Next(ctx) {
			user, err := userFromRecord(result.Record())
			if err != nil {
				return nil, err
			}
			users = append(users, user)
		}
		return users, result.Err()
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err), zap.Duration("duration", duration))
		return nil, fmt.Errorf("%w: %w", keystone_errors.ErrDatabaseOperation, err)
	}

	users, _ := result.([]*model.User)
	logger.Info("Users listed successfully",
		zap.Int("count", len(users)),
		zap.Duration("duration", duration))
	return users, nil
}

func (dao *UserDAO) UpdateUserRole(ctx context.Context, userID, role string) (*model.User, error) {
	start := time.Now()
	logger.Info("Updating user role", zap.String("userID", userID), zap.String("role", role))

	query := `
    MATCH (u:User {id: $id})
    SET u.role = $role, u.updatedAt = $updatedAt
    RETURN u
    `
	updated, err := dao.writeUser(ctx, query, map[string]any{
		"id":        userID,
		"role":      role,
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	})
	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update user role",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("User role updated successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))
	return updated, nil
}

func (dao *UserDAO) DeleteUser(ctx context.Context, userID string) error {
	start := time.Now()
	logger.Info("Deleting user", zap.String("userID", userID))

	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `MATCH (u:User {id: $id}) DETACH DELETE u`, map[string]any{"id": userID})
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, keystone_errors.ErrUserNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete user",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		return classify(err)
	}

	logger.Info("User deleted successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *UserDAO) getUser(ctx context.Context, query, value string) (*model.User, error) {
	start := time.Now()
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return singleUser(ctx, tx, query, map[string]any{"value": value})
	})
	if err != nil {
		if !errors.Is(err, keystone_errors.ErrUserNotFound) {
			logger.Error("Failed to retrieve user", zap.Error(err), zap.Duration("duration", time.Since(start)))
		}
		return nil, classify(err)
	}

	logger.Debug("User retrieved", zap.Duration("duration", time.Since(start)))
	return result.(*model.User), nil
}

func (dao *UserDAO) writeUser(ctx context.Context, query string, params map[string]any) (*model.User, error) {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return singleUser(ctx, tx, query, params)
	})
	if err != nil {
		return nil, classify(err)
	}
	return result.(*model.User), nil
}

func singleUser(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (*model.User, error) {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if result.Next(ctx) {
		return userFromRecord(result.Record())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return nil, keystone_errors.ErrUserNotFound
}

// classify maps driver errors onto the domain sentinels.
func classify(err error) error {
	if errors.Is(err, keystone_errors.ErrUserNotFound) {
		return keystone_errors.ErrUserNotFound
	}
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) && neoErr.Code == constraintViolation {
		return fmt.Errorf("%w: %s", keystone_errors.ErrUserConflict, neoErr.Msg)
	}
	return fmt.Errorf("%w: %w", keystone_errors.ErrDatabaseOperation, err)
}

func userFromRecord(record *neo4j.Record) (*model.User, error) {
	node, _, err := neo4j.GetRecordValue[neo4j.Node](record, "u")
	if err != nil {
		return nil, fmt.Errorf("failed to read user node: %w", err)
	}
	return mapPropsToUser(node.Props)
}

func mapPropsToUser(props map[string]any) (*model.User, error) {
	str := func(key string) string {
		s, _ := props[key].(string)
		return s
	}

	user := &model.User{
		ID:           str("id"),
		Account:      str("account"),
		Name:         str("name"),
		Avatar:       str("avatar"),
		Profile:      str("profile"),
		Role:         str("role"),
		PasswordHash: str("passwordHash"),
	}
	if user.ID == "" {
		return nil, fmt.Errorf("user node without id")
	}

	var err error
	if user.CreatedAt, err = helper_util.ParseStoredTime(props["createdAt"]); err != nil {
		return nil, fmt.Errorf("invalid createdAt: %w", err)
	}
	if user.UpdatedAt, err = helper_util.ParseStoredTime(props["updatedAt"]); err != nil {
		return nil, fmt.Errorf("invalid updatedAt: %w", err)
	}
	return user, nil
}
