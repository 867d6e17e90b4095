// test/mock/user.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/keystone/model"
)

// MockUserRepository is a mock implementation of service.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetUserByAccount(ctx context.Context, account string) (*model.User, error) {
	args := m.Called(ctx, account)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]*model.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) UpdateUserRole(ctx context.Context, userID, role string) (*model.User, error) {
	args := m.Called(ctx, userID, role)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockUserService is a mock implementation of service.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.LoginResponse)
	return resp, args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserService) ResolveCaller(ctx context.Context, token string) (*model.LoginUser, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*model.LoginUser)
	return u, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]*model.User)
	return users, args.Error(1)
}

func (m *MockUserService) UpdateRole(ctx context.Context, userID, role string) (*model.User, error) {
	args := m.Called(ctx, userID, role)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
