package dao

import (
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
)

func TestUserFromRecord(t *testing.T) {
	record := &neo4j.Record{
		Keys: []string{"u"},
		Values: []any{neo4j.Node{
			Labels: []string{"User"},
			Props: map[string]any{
				"id":           "u1",
				"account":      "alice",
				"name":         "Alice",
				"role":         "admin",
				"passwordHash": "$2a$10$hash",
				"createdAt":    "2024-03-01T12:00:00Z",
				"updatedAt":    "2024-03-02T12:00:00Z",
			},
		}},
	}

	user, err := userFromRecord(record)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Account)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	assert.True(t, user.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Empty(t, user.Avatar)
}

func TestUserFromRecordRejectsBadData(t *testing.T) {
	_, err := userFromRecord(&neo4j.Record{Keys: []string{"n"}, Values: []any{"x"}})
	assert.Error(t, err)

	_, err = mapPropsToUser(map[string]any{"account": "alice"})
	assert.Error(t, err)

	_, err = mapPropsToUser(map[string]any{"id": "u1", "createdAt": "yesterday"})
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, keystone_errors.ErrUserNotFound, classify(keystone_errors.ErrUserNotFound))

	conflict := classify(&neo4j.Neo4jError{Code: constraintViolation, Msg: "already exists"})
	assert.ErrorIs(t, conflict, keystone_errors.ErrUserConflict)

	other := classify(errors.New("connection reset"))
	assert.ErrorIs(t, other, keystone_errors.ErrDatabaseOperation)
}
