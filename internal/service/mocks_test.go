package service

import (
	"context"

	"huddleup-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockGroupRepo
type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) CreateWithOwner(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}
func (m *MockGroupRepo) GetByID(ctx context.Context, id int32) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockGroupRepo) GetByInviteCode(ctx context.Context, code string) (*domain.Group, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockGroupRepo) SearchPublic(ctx context.Context, nameFilter string, page, limit int32) ([]domain.Group, int32, error) {
	args := m.Called(ctx, nameFilter, page, limit)
	return args.Get(0).([]domain.Group), args.Get(1).(int32), args.Error(2)
}

// MockMembershipRepo
type MockMembershipRepo struct {
	mock.Mock
}

func (m *MockMembershipRepo) Enroll(ctx context.Context, userID, groupID int32) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}
func (m *MockMembershipRepo) GetActiveByUser(ctx context.Context, userID int32) (*domain.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) Get(ctx context.Context, userID, groupID int32) (*domain.Membership, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) CountActive(ctx context.Context, groupID int32) (int32, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockMembershipRepo) ListByGroup(ctx context.Context, groupID int32) ([]domain.Membership, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) Delete(ctx context.Context, userID, groupID int32) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}

// MockJoinRequestRepo
type MockJoinRequestRepo struct {
	mock.Mock
}

func (m *MockJoinRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) GetByUserAndGroup(ctx context.Context, userID, groupID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) UpdateStatus(ctx context.Context, id int32, from, to domain.JoinRequestStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) ApproveAndEnroll(ctx context.Context, requestID, userID, groupID int32) error {
	args := m.Called(ctx, requestID, userID, groupID)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) ListPendingByGroup(ctx context.Context, groupID int32) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) DeleteProcessedBefore(ctx context.Context, cutoff string) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvitationRepo
type MockInvitationRepo struct {
	mock.Mock
}

func (m *MockInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvitationRepo) DeleteCreatedBefore(ctx context.Context, cutoff string) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendGroupInvitation(ctx context.Context, toEmail, groupName, inviteCode, invitedBy string) error {
	args := m.Called(ctx, toEmail, groupName, inviteCode, invitedBy)
	return args.Error(0)
}
